package persona

// Sentinel values substituted when the model response lacks a field or section.
const (
	Unknown      = "Unknown"
	NotAvailable = "- Not available"
)

// Identity is the account metadata fetched once per run.
type Identity struct {
	Username   string
	AccountAge float64 // years, one decimal
	Karma      int
	Verified   bool
	Trophies   []string
}

// ItemKind distinguishes posts from comments.
type ItemKind string

const (
	KindPost    ItemKind = "post"
	KindComment ItemKind = "comment"
)

// ContentItem is a single post or comment. Title and SelfText are set for
// posts, Body for comments.
type ContentItem struct {
	Kind      ItemKind
	Subreddit string
	Permalink string
	Title     string
	SelfText  string
	Body      string
}

// Text returns the item's text body: title plus self-text for posts, body for comments.
func (c ContentItem) Text() string {
	if c.Kind == KindPost {
		return c.Title + " " + c.SelfText
	}
	return c.Body
}

// Activity is everything fetched for one user in one run.
type Activity struct {
	Identity Identity
	Posts    []ContentItem
	Comments []ContentItem
}

// Field names a single-value entry extracted from the model response.
type Field string

const (
	FieldAge             Field = "age"
	FieldOccupation      Field = "occupation"
	FieldStatus          Field = "status"
	FieldLocation        Field = "location"
	FieldArchetype       Field = "archetype"
	FieldTopTraits       Field = "top_traits"
	FieldSecondaryTraits Field = "secondary_traits"
	FieldQuote           Field = "quote"
)

// Section names a multi-line bullet block extracted from the model response.
type Section string

const (
	SectionMotivations  Section = "motivations"
	SectionHabits       Section = "habits"
	SectionGoals        Section = "goals"
	SectionFrustrations Section = "frustrations"
)

// Analysis holds the parsed model response. Every known field and section
// is always present, holding either a real value or its sentinel.
type Analysis struct {
	Fields   map[Field]string
	Sections map[Section]string
}

// Field returns the named value, or Unknown when it was never set.
func (a Analysis) Field(f Field) string {
	if v, ok := a.Fields[f]; ok {
		return v
	}
	return Unknown
}

// Section returns the named section, or NotAvailable when it was never set.
func (a Analysis) Section(s Section) string {
	if v, ok := a.Sections[s]; ok {
		return v
	}
	return NotAvailable
}

// Citation ties a claim to the content item it was matched against.
// Source and Excerpt are empty for summary citations that are not
// matched against content.
type Citation struct {
	Kind    string // "archetype" or "habit"
	Claim   string
	Source  string
	Excerpt string
}
