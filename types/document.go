package types

// Variant identifies which of the two fixed briefing templates a document
// was parsed from. It is decided once at ingestion and carried through the
// pipeline; consumers branch on it instead of sniffing for field presence.
type Variant string

const (
	// VariantForeignPress is the daily foreign press briefing template.
	VariantForeignPress Variant = "foreign-press"
	// VariantDomestic is the daily domestic policy briefing template.
	VariantDomestic Variant = "domestic"
)

// ParagraphType discriminates how a body paragraph is rendered.
type ParagraphType string

const (
	ParagraphText  ParagraphType = "text"
	ParagraphList  ParagraphType = "list"
	ParagraphQuote ParagraphType = "quote"
)

// Paragraph is a single body paragraph. Items is populated only for list
// paragraphs; it may be nil for any type.
type Paragraph struct {
	Type    ParagraphType `json:"type"`
	Content string        `json:"content"`
	Items   []string      `json:"items,omitempty"`
}

// ContentArticle is one article inside a body section. The title keeps the
// source glyphs (<>, ▲, □, - and the like).
type ContentArticle struct {
	Title      string      `json:"title"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// ContentSection groups the body articles of one category
// (e.g. "국내 정치", "북한", "미국").
type ContentSection struct {
	Category string           `json:"category"`
	Articles []ContentArticle `json:"articles"`
}

// SummaryArticle is level 2 of the foreign-press summary hierarchy.
// Summary is nil for articles that carry a title only.
type SummaryArticle struct {
	Title   string  `json:"title"`
	Summary *string `json:"summary"`
}

// SummaryCategory is level 1 of the foreign-press summary hierarchy.
// The category keeps its leading □ glyph.
type SummaryCategory struct {
	Category string           `json:"category"`
	Articles []SummaryArticle `json:"articles"`
}

// ForeignHeader is the foreign-press document header.
type ForeignHeader struct {
	Title    string `json:"title"`
	Date     string `json:"date,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
}

// DomesticHeader is the domestic document header. Meta holds the lines
// below the title (date, target outlets, department) in order.
type DomesticHeader struct {
	Title string   `json:"title"`
	Meta  []string `json:"meta"`
}

// DomesticItem is a detail line under a domestic summary category,
// with the leading - glyph stripped.
type DomesticItem struct {
	Content string `json:"content"`
}

// DomesticSummaryCategory is level 1 of the domestic summary hierarchy.
// The category has its leading ○ glyph stripped.
type DomesticSummaryCategory struct {
	Category string         `json:"category"`
	Items    []DomesticItem `json:"items"`
}

// Editorial is one entry of the domestic "금일 사설" section,
// with the leading ■ glyph stripped from the category.
type Editorial struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

// Metadata describes how and when a document was produced.
type Metadata struct {
	OriginalFileName string `json:"originalFileName"`
	ProcessedAt      string `json:"processedAt"` // ISO 8601
	Model            string `json:"model"`
	TotalPages       int    `json:"totalPages,omitempty"`
	Language         string `json:"language,omitempty"`
}

// ForeignDocument is the parsed foreign-press briefing: a three-level
// summary (category → article → summary line) followed by body sections.
type ForeignDocument struct {
	Header   ForeignHeader     `json:"header"`
	Summary  []SummaryCategory `json:"summary"`
	Content  []ContentSection  `json:"content"`
	Metadata Metadata          `json:"metadata"`
}

// DomesticDocument is the parsed domestic policy briefing: a two-level
// summary, the day's editorials, then body sections.
type DomesticDocument struct {
	Header     DomesticHeader            `json:"header"`
	Summary    []DomesticSummaryCategory `json:"summary"`
	Editorials []Editorial               `json:"editorials"`
	Content    []ContentSection          `json:"content"`
	Metadata   Metadata                  `json:"metadata"`
}

// Document is the tagged union produced by a conversion. Exactly one of
// Foreign/Domestic is non-nil, matching Variant.
type Document struct {
	Variant  Variant           `json:"variant"`
	Foreign  *ForeignDocument  `json:"foreign,omitempty"`
	Domestic *DomesticDocument `json:"domestic,omitempty"`
}

// NewForeign wraps a foreign-press document in the tagged union.
func NewForeign(doc *ForeignDocument) Document {
	return Document{Variant: VariantForeignPress, Foreign: doc}
}

// NewDomestic wraps a domestic document in the tagged union.
func NewDomestic(doc *DomesticDocument) Document {
	return Document{Variant: VariantDomestic, Domestic: doc}
}

// Title returns the document title regardless of variant.
func (d Document) Title() string {
	switch {
	case d.Foreign != nil:
		return d.Foreign.Header.Title
	case d.Domestic != nil:
		return d.Domestic.Header.Title
	}
	return ""
}
