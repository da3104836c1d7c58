package ast

// Inline is one of the inline element variants below. The set is closed:
// elements this package does not model individually decode to *GenericInline
// and keep their content verbatim.
type Inline interface {
	inline()
}

// Block is one of the block element variants below. Blocks this package
// does not model individually decode to *GenericBlock.
type Block interface {
	block()
}

// MathType distinguishes display from inline math.
type MathType int

const (
	InlineMath MathType = iota
	DisplayMath
)

func (t MathType) String() string {
	if t == DisplayMath {
		return "DisplayMath"
	}
	return "InlineMath"
}

// QuoteType distinguishes single from double quotes.
type QuoteType int

const (
	DoubleQuote QuoteType = iota
	SingleQuote
)

func (t QuoteType) String() string {
	if t == SingleQuote {
		return "SingleQuote"
	}
	return "DoubleQuote"
}

// CitationMode is the pandoc citation mode of a single citation.
type CitationMode int

const (
	AuthorInText CitationMode = iota
	SuppressAuthor
	NormalCitation
)

func (m CitationMode) String() string {
	switch m {
	case SuppressAuthor:
		return "SuppressAuthor"
	case NormalCitation:
		return "NormalCitation"
	default:
		return "AuthorInText"
	}
}

// Str is a run of text without whitespace.
type Str struct {
	Text string
}

// Space is an inter-word space.
type Space struct{}

// SoftBreak is a soft line break.
type SoftBreak struct{}

// LineBreak is a hard line break.
type LineBreak struct{}

// Math holds TeX math source. Attr is non-nil only while an attribute
// block written after the math is attached to it; it is never serialized.
type Math struct {
	Type MathType
	Text string
	Attr *Attr
}

// RawInline is format-specific content passed through untouched.
type RawInline struct {
	Format string
	Text   string
}

// LinkTarget is the URL and title of a link.
type LinkTarget struct {
	URL   string
	Title string
}

// Link is a hyperlink with inline content.
type Link struct {
	Attr    Attr
	Content []Inline
	Target  LinkTarget
}

// Span is a generic inline container with attributes.
type Span struct {
	Attr    Attr
	Content []Inline
}

// Quoted is quoted inline content.
type Quoted struct {
	Type    QuoteType
	Content []Inline
}

// Citation is one entry of a Cite.
type Citation struct {
	ID      string
	Prefix  []Inline
	Suffix  []Inline
	Mode    CitationMode
	NoteNum int
	Hash    int
}

// Cite is a citation group; references such as @eq:label arrive as Cites.
type Cite struct {
	Citations []Citation
	Content   []Inline
}

// GenericInline is any inline element not modeled above. Content holds the
// decoded "c" field; nested elements inside it are decoded as Inline or
// Block values so walkers can reach them.
type GenericInline struct {
	Tag        string
	Content    any
	HasContent bool
}

// Para is a paragraph.
type Para struct {
	Content []Inline
}

// Plain is unwrapped inline content, as found in tight lists.
type Plain struct {
	Content []Inline
}

// Header is a section heading.
type Header struct {
	Level   int
	Attr    Attr
	Content []Inline
}

// RawBlock is format-specific block content.
type RawBlock struct {
	Format string
	Text   string
}

// GenericBlock is any block element not modeled above.
type GenericBlock struct {
	Tag        string
	Content    any
	HasContent bool
}

func (*Str) inline()           {}
func (*Space) inline()         {}
func (*SoftBreak) inline()     {}
func (*LineBreak) inline()     {}
func (*Math) inline()          {}
func (*RawInline) inline()     {}
func (*Link) inline()          {}
func (*Span) inline()          {}
func (*Quoted) inline()        {}
func (*Cite) inline()          {}
func (*GenericInline) inline() {}

func (*Para) block()         {}
func (*Plain) block()        {}
func (*Header) block()       {}
func (*RawBlock) block()     {}
func (*GenericBlock) block() {}

// Document is a pandoc document in the JSON shape used since pandoc 1.18.
type Document struct {
	APIVersion []int
	Meta       Meta
	Blocks     []Block
}
