package persona

import (
	"fmt"
	"strings"
)

const (
	// maxHabitCitations caps how many raw habit lines are considered.
	maxHabitCitations = 3
	// excerptRunes is the length of the excerpt quoted from matched content.
	excerptRunes = 100

	commentURLPrefix = "https://reddit.com"

	// NoCitations is rendered when no citation could be produced.
	NoCitations = "No specific citations available"
)

// CorpusItem pairs matchable text with the locator a citation points to.
type CorpusItem struct {
	Text    string
	Locator string
}

// BuildCorpus flattens posts then comments into matchable items. Posts keep
// their permalink as-is; comments get a fully-qualified URL.
func BuildCorpus(posts, comments []ContentItem) []CorpusItem {
	corpus := make([]CorpusItem, 0, len(posts)+len(comments))
	for _, p := range posts {
		corpus = append(corpus, CorpusItem{Text: p.Title + " " + p.SelfText, Locator: p.Permalink})
	}
	for _, c := range comments {
		corpus = append(corpus, CorpusItem{Text: c.Body, Locator: commentURLPrefix + c.Permalink})
	}
	return corpus
}

// Cite produces citations for the archetype and for up to the first three
// lines of the habits section. Only the first three raw lines are looked
// at, so blank or sentinel lines among them reduce the number of citations.
func Cite(a Analysis, posts, comments []ContentItem) []Citation {
	corpus := BuildCorpus(posts, comments)

	var citations []Citation
	if archetype := a.Field(FieldArchetype); archetype != Unknown {
		citations = append(citations, Citation{Kind: "archetype", Claim: archetype})
	}

	lines := strings.Split(a.Section(SectionHabits), "\n")
	if len(lines) > maxHabitCitations {
		lines = lines[:maxHabitCitations]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, NotAvailable) {
			continue
		}
		claim := stripBullet(line)
		if claim == "" {
			continue
		}
		item, ok := BestMatch(claim, corpus)
		if !ok {
			continue
		}
		citations = append(citations, Citation{
			Kind:    "habit",
			Claim:   claim,
			Source:  item.Locator,
			Excerpt: truncateRunes(item.Text, excerptRunes),
		})
	}
	return citations
}

// BestMatch returns the corpus item sharing the most distinct words with
// claim. Ties go to the earlier item; a zero score is no match.
func BestMatch(claim string, corpus []CorpusItem) (CorpusItem, bool) {
	claimWords := wordSet(claim)

	var best CorpusItem
	bestScore := 0
	for _, item := range corpus {
		if score := overlap(claimWords, wordSet(item.Text)); score > bestScore {
			best, bestScore = item, score
		}
	}
	return best, bestScore > 0
}

// Overlap counts the distinct case-folded, whitespace-separated words shared
// by a and b.
func Overlap(a, b string) int {
	return overlap(wordSet(a), wordSet(b))
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func stripBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "-*•+ \t"))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FormatCitations renders citations one per entry, or NoCitations when empty.
func FormatCitations(citations []Citation) string {
	if len(citations) == 0 {
		return NoCitations
	}
	lines := make([]string, 0, len(citations))
	for _, c := range citations {
		switch c.Kind {
		case "archetype":
			lines = append(lines, fmt.Sprintf("- Archetype '%s' determined based on overall posting patterns", c.Claim))
		default:
			lines = append(lines, fmt.Sprintf("- Habit: %s\n  Source: %s\n  Excerpt: '%s...'", c.Claim, c.Source, c.Excerpt))
		}
	}
	return strings.Join(lines, "\n")
}
