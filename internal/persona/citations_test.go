package persona

import (
	"strings"
	"testing"
)

func analysisWith(archetype, habits string) Analysis {
	a := Parse("")
	a.Fields[FieldArchetype] = archetype
	a.Sections[SectionHabits] = habits
	return a
}

func TestOverlap_CaseFoldedDistinctWords(t *testing.T) {
	if got := Overlap("Go go GO tests", "go TESTS are nice"); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestOverlap_Symmetric(t *testing.T) {
	a, b := "answers beginner questions", "happy to answer Beginner questions"
	if Overlap(a, b) != Overlap(b, a) {
		t.Errorf("Overlap not symmetric: %d vs %d", Overlap(a, b), Overlap(b, a))
	}
}

func TestOverlap_MoreSharedWordsScoresHigher(t *testing.T) {
	claim := "reviews pull requests daily"
	low := Overlap(claim, "daily standup")
	high := Overlap(claim, "reviews pull requests")
	if high <= low {
		t.Errorf("high = %d, low = %d", high, low)
	}
}

func TestBestMatch_TiesGoToFirst(t *testing.T) {
	corpus := []CorpusItem{
		{Text: "rust compiler", Locator: "first"},
		{Text: "rust borrow", Locator: "second"},
	}
	item, ok := BestMatch("rust", corpus)
	if !ok {
		t.Fatal("expected a match")
	}
	if item.Locator != "first" {
		t.Errorf("got %q, want first", item.Locator)
	}
}

func TestBestMatch_ZeroScore(t *testing.T) {
	corpus := []CorpusItem{{Text: "completely unrelated", Locator: "x"}}
	if _, ok := BestMatch("posts weekly", corpus); ok {
		t.Error("expected no match")
	}
}

func TestBuildCorpus_Locators(t *testing.T) {
	posts := []ContentItem{{Kind: KindPost, Title: "Title", SelfText: "body", Permalink: "/r/golang/comments/abc/"}}
	comments := []ContentItem{{Kind: KindComment, Body: "reply", Permalink: "/r/golang/comments/abc/_/def/"}}

	corpus := BuildCorpus(posts, comments)
	if len(corpus) != 2 {
		t.Fatalf("got %d items, want 2", len(corpus))
	}
	if corpus[0].Text != "Title body" || corpus[0].Locator != "/r/golang/comments/abc/" {
		t.Errorf("post item = %+v", corpus[0])
	}
	if corpus[1].Locator != "https://reddit.com/r/golang/comments/abc/_/def/" {
		t.Errorf("comment locator = %q", corpus[1].Locator)
	}
}

func TestCite_ArchetypeAndHabits(t *testing.T) {
	a := analysisWith("The Helper", "- Answers beginner questions\n- Posts weekly")
	comments := []ContentItem{{
		Kind:      KindComment,
		Body:      "Always happy to answer beginner questions about this",
		Permalink: "/r/learnpython/comments/1/_/2/",
	}}

	got := Cite(a, nil, comments)
	if len(got) != 2 {
		t.Fatalf("got %d citations, want 2: %+v", len(got), got)
	}
	if got[0].Kind != "archetype" || got[0].Claim != "The Helper" || got[0].Source != "" {
		t.Errorf("citations[0] = %+v", got[0])
	}
	if got[1].Claim != "Answers beginner questions" {
		t.Errorf("claim = %q", got[1].Claim)
	}
	if got[1].Source != "https://reddit.com/r/learnpython/comments/1/_/2/" {
		t.Errorf("source = %q", got[1].Source)
	}
	if got[1].Excerpt != comments[0].Body {
		t.Errorf("excerpt = %q", got[1].Excerpt)
	}
}

func TestCite_UnknownArchetypeSkipped(t *testing.T) {
	got := Cite(analysisWith(Unknown, NotAvailable), nil, nil)
	if len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
}

func TestCite_OnlyFirstThreeRawLines(t *testing.T) {
	habits := "\n- golang tips\n- golang tips\n- golang tips"
	posts := []ContentItem{{Kind: KindPost, Title: "golang tips", Permalink: "/p"}}

	got := Cite(analysisWith(Unknown, habits), posts, nil)
	if len(got) != 2 {
		t.Errorf("got %d citations, want 2 (blank first line counts toward the three)", len(got))
	}
}

func TestCite_ExcerptTruncated(t *testing.T) {
	long := "keyword " + strings.Repeat("é", 200)
	posts := []ContentItem{{Kind: KindPost, Title: long, Permalink: "/p"}}

	got := Cite(analysisWith(Unknown, "- keyword"), posts, nil)
	if len(got) != 1 {
		t.Fatalf("got %d citations, want 1", len(got))
	}
	if n := len([]rune(got[0].Excerpt)); n != 100 {
		t.Errorf("excerpt has %d runes, want 100", n)
	}
}

func TestFormatCitations(t *testing.T) {
	if got := FormatCitations(nil); got != NoCitations {
		t.Errorf("got %q, want %q", got, NoCitations)
	}

	got := FormatCitations([]Citation{
		{Kind: "archetype", Claim: "The Critic"},
		{Kind: "habit", Claim: "Argues often", Source: "https://reddit.com/x", Excerpt: "you are wrong"},
	})
	want := "- Archetype 'The Critic' determined based on overall posting patterns\n" +
		"- Habit: Argues often\n  Source: https://reddit.com/x\n  Excerpt: 'you are wrong...'"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
