package ast

import "strings"

// Meta is the document metadata map.
type Meta map[string]MetaValue

// MetaValue is one of the metadata value variants.
type MetaValue interface {
	metaValue()
}

// MetaMap is a nested metadata map.
type MetaMap struct {
	Entries map[string]MetaValue
}

// MetaList is a metadata list.
type MetaList struct {
	Items []MetaValue
}

// MetaBool is a boolean metadata value.
type MetaBool struct {
	Value bool
}

// MetaString is a plain string metadata value.
type MetaString struct {
	Text string
}

// MetaInlines is inline metadata content, the usual shape of YAML scalars.
type MetaInlines struct {
	Content []Inline
}

// MetaBlocks is block metadata content.
type MetaBlocks struct {
	Content []Block
}

func (*MetaMap) metaValue()     {}
func (*MetaList) metaValue()    {}
func (*MetaBool) metaValue()    {}
func (*MetaString) metaValue()  {}
func (*MetaInlines) metaValue() {}
func (*MetaBlocks) metaValue()  {}

// MetaText returns the textual content of a scalar metadata value.
// ok is false for maps, lists and booleans.
func MetaText(v MetaValue) (text string, ok bool) {
	switch v := v.(type) {
	case *MetaString:
		return v.Text, true
	case *MetaInlines:
		return Stringify(v.Content), true
	case *MetaBlocks:
		var parts []string
		for _, b := range v.Content {
			switch b := b.(type) {
			case *Para:
				parts = append(parts, Stringify(b.Content))
			case *Plain:
				parts = append(parts, Stringify(b.Content))
			}
		}
		return strings.Join(parts, "\n"), true
	default:
		return "", false
	}
}

// Stringify flattens inline content to plain text. Quoted content keeps its
// quote characters so attribute values survive the round trip.
func Stringify(inlines []Inline) string {
	var b strings.Builder
	stringifyInto(&b, inlines)
	return b.String()
}

func stringifyInto(b *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch in := in.(type) {
		case *Str:
			b.WriteString(in.Text)
		case *Space, *SoftBreak, *LineBreak:
			b.WriteByte(' ')
		case *Math:
			b.WriteString(in.Text)
		case *RawInline:
			b.WriteString(in.Text)
		case *Link:
			stringifyInto(b, in.Content)
		case *Span:
			stringifyInto(b, in.Content)
		case *Cite:
			stringifyInto(b, in.Content)
		case *Quoted:
			q := "\""
			if in.Type == SingleQuote {
				q = "'"
			}
			b.WriteString(q)
			stringifyInto(b, in.Content)
			b.WriteString(q)
		case *GenericInline:
			stringifyValue(b, in.Content)
		}
	}
}

func stringifyValue(b *strings.Builder, v any) {
	switch v := v.(type) {
	case Inline:
		stringifyInto(b, []Inline{v})
	case []any:
		for _, item := range v {
			stringifyValue(b, item)
		}
	}
}
