package persona

import (
	"strings"
	"unicode"
)

// valueLabels maps each single-value field to the label the prompt asks the
// model to emit. Matching is by substring, first occurrence wins.
var valueLabels = []struct {
	Field Field
	Key   string
}{
	{FieldAge, "Age:"},
	{FieldOccupation, "Occupation:"},
	{FieldStatus, "Status:"},
	{FieldLocation, "Location:"},
	{FieldArchetype, "Reddit Archetype:"},
	{FieldTopTraits, "Top Traits"},
	{FieldSecondaryTraits, "Secondary Traits"},
	{FieldQuote, "Signature Quote"},
}

// sectionLabels maps each multi-line section to its heading. The habits
// heading only has to be contained in the response, so "## Behavior & Habits"
// and "**Behavior & Habits**" both match.
var sectionLabels = []struct {
	Section Section
	Header  string
}{
	{SectionMotivations, "Motivations"},
	{SectionHabits, "Behavior & Habits"},
	{SectionGoals, "Goals & Needs"},
	{SectionFrustrations, "Frustrations"},
}

// Labels returns the value keys and section headers in prompt order. The
// analyzer's prompt must contain each of them verbatim.
func Labels() []string {
	out := make([]string, 0, len(valueLabels)+len(sectionLabels))
	for _, l := range valueLabels {
		out = append(out, l.Key)
	}
	for _, l := range sectionLabels {
		out = append(out, l.Header)
	}
	return out
}

// Parse extracts every known field and section from a raw model response.
// It never fails: missing entries hold Unknown or NotAvailable.
func Parse(text string) Analysis {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	a := Analysis{
		Fields:   make(map[Field]string, len(valueLabels)),
		Sections: make(map[Section]string, len(sectionLabels)),
	}
	for _, l := range valueLabels {
		a.Fields[l.Field] = ExtractValue(text, l.Key)
	}
	for _, l := range sectionLabels {
		a.Sections[l.Section] = ExtractSection(text, l.Header)
	}
	return a
}

// ExtractValue returns the text following the first occurrence of key, up to
// the end of that line. Whitespace (including line breaks), colons and
// markdown emphasis directly after the key are skipped, so "Age: 29",
// "**Age:** 29" and "Top Traits\nCurious" all resolve. Returns Unknown when
// key is absent or nothing follows it.
func ExtractValue(text, key string) string {
	i := strings.Index(text, key)
	if i < 0 || key == "" {
		return Unknown
	}

	rest := strings.TrimLeftFunc(text[i+len(key):], func(r rune) bool {
		return unicode.IsSpace(r) || r == ':' || r == '*'
	})
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}

	v := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(rest), "*"))
	if v == "" {
		return Unknown
	}
	return v
}

// ExtractSection returns the block that starts at the first occurrence of
// header and runs to the next blank line, or to the end of text when no
// blank line follows. The header text is removed from the result. Returns
// NotAvailable when header is absent or the block is empty.
func ExtractSection(text, header string) string {
	start := strings.Index(text, header)
	if start < 0 || header == "" {
		return NotAvailable
	}

	section := text[start:]
	if end := strings.Index(section, "\n\n"); end >= 0 {
		section = section[:end]
	}

	section = strings.TrimSpace(strings.ReplaceAll(section, header, ""))
	if section == "" {
		return NotAvailable
	}
	return section
}
