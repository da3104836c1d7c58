package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// Sentinel errors for document decoding.
var (
	ErrMalformed     = errors.New("malformed pandoc document")
	ErrLegacyShape   = errors.New("pandoc documents older than API 1.17 are not supported")
	ErrMissingBlocks = errors.New("document has no blocks array")
)

const apiVersionKey = "pandoc-api-version"

// Tag names of the element variants pandoc emits. Objects carrying one of
// these "t" values inside generic content are decoded as elements; any other
// tagged object (math types, alignments, list styles) stays a plain value.
var (
	inlineTags = map[string]bool{
		"Str": true, "Emph": true, "Underline": true, "Strong": true,
		"Strikeout": true, "Superscript": true, "Subscript": true,
		"SmallCaps": true, "Quoted": true, "Cite": true, "Code": true,
		"Space": true, "SoftBreak": true, "LineBreak": true, "Math": true,
		"RawInline": true, "Link": true, "Image": true, "Note": true,
		"Span": true,
	}
	blockTags = map[string]bool{
		"Plain": true, "Para": true, "LineBlock": true, "CodeBlock": true,
		"RawBlock": true, "BlockQuote": true, "OrderedList": true,
		"BulletList": true, "DefinitionList": true, "Header": true,
		"HorizontalRule": true, "Table": true, "Figure": true, "Div": true,
		"Null": true,
	}
)

type element struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c"`
}

type tagged struct {
	T string `json:"t"`
	C any    `json:"c"`
}

type bare struct {
	T string `json:"t"`
}

// Decode reads a complete JSON document from r.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a pandoc JSON document.
func Unmarshal(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if root.IsArray() {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, ErrLegacyShape)
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}
	if !root.Get(apiVersionKey).IsArray() {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformed, apiVersionKey)
	}
	if !root.Get("blocks").IsArray() {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, ErrMissingBlocks)
	}

	var raw struct {
		APIVersion []int                      `json:"pandoc-api-version"`
		Meta       map[string]json.RawMessage `json:"meta"`
		Blocks     []json.RawMessage          `json:"blocks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := &Document{APIVersion: raw.APIVersion, Meta: Meta{}}
	for name, v := range raw.Meta {
		mv, err := decodeMeta(v)
		if err != nil {
			return nil, fmt.Errorf("meta %q: %w", name, err)
		}
		doc.Meta[name] = mv
	}
	blocks, err := decodeBlocks(raw.Blocks)
	if err != nil {
		return nil, err
	}
	doc.Blocks = blocks
	return doc, nil
}

// Encode writes doc as JSON to w.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	meta := d.Meta
	if meta == nil {
		meta = Meta{}
	}
	return json.Marshal(struct {
		APIVersion []int   `json:"pandoc-api-version"`
		Meta       Meta    `json:"meta"`
		Blocks     []Block `json:"blocks"`
	}{d.APIVersion, meta, blockList(d.Blocks)})
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

func malformed(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, what, err)
}

func decodeElement(raw json.RawMessage) (element, error) {
	var e element
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, malformed("element", err)
	}
	if e.T == "" {
		return e, fmt.Errorf("%w: element without tag", ErrMalformed)
	}
	return e, nil
}

func decodeParts(e element, n int) ([]json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(e.C, &parts); err != nil {
		return nil, malformed(e.T, err)
	}
	if len(parts) != n {
		return nil, fmt.Errorf("%w: %s has %d fields, want %d", ErrMalformed, e.T, len(parts), n)
	}
	return parts, nil
}

func decodeTag(raw json.RawMessage) (string, error) {
	var b bare
	if err := json.Unmarshal(raw, &b); err != nil {
		return "", malformed("tag", err)
	}
	return b.T, nil
}

func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", malformed("string", err)
	}
	return s, nil
}

func decodeInlines(raw json.RawMessage) ([]Inline, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, malformed("inline list", err)
	}
	out := make([]Inline, 0, len(items))
	for _, item := range items {
		in, err := decodeInline(item)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func decodeBlocks(items []json.RawMessage) ([]Block, error) {
	out := make([]Block, 0, len(items))
	for _, item := range items {
		b, err := decodeBlock(item)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeInline(raw json.RawMessage) (Inline, error) {
	e, err := decodeElement(raw)
	if err != nil {
		return nil, err
	}

	switch e.T {
	case "Str":
		s, err := decodeString(e.C)
		if err != nil {
			return nil, err
		}
		return &Str{Text: s}, nil
	case "Space":
		return &Space{}, nil
	case "SoftBreak":
		return &SoftBreak{}, nil
	case "LineBreak":
		return &LineBreak{}, nil
	case "Math":
		parts, err := decodeParts(e, 2)
		if err != nil {
			return nil, err
		}
		t, err := decodeTag(parts[0])
		if err != nil {
			return nil, err
		}
		text, err := decodeString(parts[1])
		if err != nil {
			return nil, err
		}
		m := &Math{Text: text}
		if t == "DisplayMath" {
			m.Type = DisplayMath
		}
		return m, nil
	case "RawInline":
		parts, err := decodeParts(e, 2)
		if err != nil {
			return nil, err
		}
		format, err := decodeString(parts[0])
		if err != nil {
			return nil, err
		}
		text, err := decodeString(parts[1])
		if err != nil {
			return nil, err
		}
		return &RawInline{Format: format, Text: text}, nil
	case "Link":
		parts, err := decodeParts(e, 3)
		if err != nil {
			return nil, err
		}
		l := &Link{}
		if err := json.Unmarshal(parts[0], &l.Attr); err != nil {
			return nil, malformed("Link attr", err)
		}
		if l.Content, err = decodeInlines(parts[1]); err != nil {
			return nil, err
		}
		var target [2]string
		if err := json.Unmarshal(parts[2], &target); err != nil {
			return nil, malformed("Link target", err)
		}
		l.Target = LinkTarget{URL: target[0], Title: target[1]}
		return l, nil
	case "Span":
		parts, err := decodeParts(e, 2)
		if err != nil {
			return nil, err
		}
		s := &Span{}
		if err := json.Unmarshal(parts[0], &s.Attr); err != nil {
			return nil, malformed("Span attr", err)
		}
		if s.Content, err = decodeInlines(parts[1]); err != nil {
			return nil, err
		}
		return s, nil
	case "Quoted":
		parts, err := decodeParts(e, 2)
		if err != nil {
			return nil, err
		}
		t, err := decodeTag(parts[0])
		if err != nil {
			return nil, err
		}
		q := &Quoted{}
		if t == "SingleQuote" {
			q.Type = SingleQuote
		}
		if q.Content, err = decodeInlines(parts[1]); err != nil {
			return nil, err
		}
		return q, nil
	case "Cite":
		parts, err := decodeParts(e, 2)
		if err != nil {
			return nil, err
		}
		c := &Cite{}
		if c.Citations, err = decodeCitations(parts[0]); err != nil {
			return nil, err
		}
		if c.Content, err = decodeInlines(parts[1]); err != nil {
			return nil, err
		}
		return c, nil
	default:
		g := &GenericInline{Tag: e.T, HasContent: len(e.C) > 0}
		if g.HasContent {
			if g.Content, err = decodeValue(e.C); err != nil {
				return nil, err
			}
		}
		return g, nil
	}
}

func decodeBlock(raw json.RawMessage) (Block, error) {
	e, err := decodeElement(raw)
	if err != nil {
		return nil, err
	}

	switch e.T {
	case "Para":
		content, err := decodeInlines(e.C)
		if err != nil {
			return nil, err
		}
		return &Para{Content: content}, nil
	case "Plain":
		content, err := decodeInlines(e.C)
		if err != nil {
			return nil, err
		}
		return &Plain{Content: content}, nil
	case "Header":
		parts, err := decodeParts(e, 3)
		if err != nil {
			return nil, err
		}
		h := &Header{}
		if err := json.Unmarshal(parts[0], &h.Level); err != nil {
			return nil, malformed("Header level", err)
		}
		if err := json.Unmarshal(parts[1], &h.Attr); err != nil {
			return nil, malformed("Header attr", err)
		}
		if h.Content, err = decodeInlines(parts[2]); err != nil {
			return nil, err
		}
		return h, nil
	case "RawBlock":
		parts, err := decodeParts(e, 2)
		if err != nil {
			return nil, err
		}
		format, err := decodeString(parts[0])
		if err != nil {
			return nil, err
		}
		text, err := decodeString(parts[1])
		if err != nil {
			return nil, err
		}
		return &RawBlock{Format: format, Text: text}, nil
	default:
		g := &GenericBlock{Tag: e.T, HasContent: len(e.C) > 0}
		if g.HasContent {
			if g.Content, err = decodeValue(e.C); err != nil {
				return nil, err
			}
		}
		return g, nil
	}
}

type citationJSON struct {
	ID      string          `json:"citationId"`
	Prefix  json.RawMessage `json:"citationPrefix"`
	Suffix  json.RawMessage `json:"citationSuffix"`
	Mode    bare            `json:"citationMode"`
	NoteNum int             `json:"citationNoteNum"`
	Hash    int             `json:"citationHash"`
}

func decodeCitations(raw json.RawMessage) ([]Citation, error) {
	var items []citationJSON
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, malformed("citations", err)
	}
	out := make([]Citation, 0, len(items))
	for _, item := range items {
		c := Citation{ID: item.ID, NoteNum: item.NoteNum, Hash: item.Hash}
		switch item.Mode.T {
		case "SuppressAuthor":
			c.Mode = SuppressAuthor
		case "NormalCitation":
			c.Mode = NormalCitation
		}
		var err error
		if len(item.Prefix) > 0 {
			if c.Prefix, err = decodeInlines(item.Prefix); err != nil {
				return nil, err
			}
		}
		if len(item.Suffix) > 0 {
			if c.Suffix, err = decodeInlines(item.Suffix); err != nil {
				return nil, err
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// decodeValue decodes the content of a generic element. Arrays and objects
// are descended; objects tagged as elements become Inline or Block values.
func decodeValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, malformed("array", err)
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, malformed("object", err)
		}
		if t, ok := obj["t"]; ok {
			var tag string
			if json.Unmarshal(t, &tag) == nil {
				if inlineTags[tag] {
					return decodeInline(trimmed)
				}
				if blockTags[tag] {
					return decodeBlock(trimmed)
				}
			}
		}
		out := make(map[string]any, len(obj))
		for k, item := range obj {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, malformed("scalar", err)
		}
		return v, nil
	}
}

func decodeMeta(raw json.RawMessage) (MetaValue, error) {
	e, err := decodeElement(raw)
	if err != nil {
		return nil, err
	}

	switch e.T {
	case "MetaMap":
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(e.C, &entries); err != nil {
			return nil, malformed("MetaMap", err)
		}
		m := &MetaMap{Entries: make(map[string]MetaValue, len(entries))}
		for k, item := range entries {
			v, err := decodeMeta(item)
			if err != nil {
				return nil, err
			}
			m.Entries[k] = v
		}
		return m, nil
	case "MetaList":
		var items []json.RawMessage
		if err := json.Unmarshal(e.C, &items); err != nil {
			return nil, malformed("MetaList", err)
		}
		l := &MetaList{Items: make([]MetaValue, 0, len(items))}
		for _, item := range items {
			v, err := decodeMeta(item)
			if err != nil {
				return nil, err
			}
			l.Items = append(l.Items, v)
		}
		return l, nil
	case "MetaBool":
		var b bool
		if err := json.Unmarshal(e.C, &b); err != nil {
			return nil, malformed("MetaBool", err)
		}
		return &MetaBool{Value: b}, nil
	case "MetaString":
		s, err := decodeString(e.C)
		if err != nil {
			return nil, err
		}
		return &MetaString{Text: s}, nil
	case "MetaInlines":
		content, err := decodeInlines(e.C)
		if err != nil {
			return nil, err
		}
		return &MetaInlines{Content: content}, nil
	case "MetaBlocks":
		var items []json.RawMessage
		if err := json.Unmarshal(e.C, &items); err != nil {
			return nil, malformed("MetaBlocks", err)
		}
		blocks, err := decodeBlocks(items)
		if err != nil {
			return nil, err
		}
		return &MetaBlocks{Content: blocks}, nil
	default:
		return nil, fmt.Errorf("%w: unknown metadata value %q", ErrMalformed, e.T)
	}
}

// UnmarshalJSON implements json.Unmarshaler for the [id, classes, kvs] triple.
func (a *Attr) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("attr has %d fields, want 3", len(parts))
	}
	if err := json.Unmarshal(parts[0], &a.ID); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], &a.Classes); err != nil {
		return err
	}
	var kvs [][2]string
	if err := json.Unmarshal(parts[2], &kvs); err != nil {
		return err
	}
	a.KeyVals = nil
	for _, kv := range kvs {
		a.KeyVals = append(a.KeyVals, KeyVal{Key: kv[0], Value: kv[1]})
	}
	return nil
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

func inlineList(in []Inline) []Inline {
	if in == nil {
		return []Inline{}
	}
	return in
}

func blockList(in []Block) []Block {
	if in == nil {
		return []Block{}
	}
	return in
}

// MarshalJSON implements json.Marshaler.
func (a Attr) MarshalJSON() ([]byte, error) {
	classes := a.Classes
	if classes == nil {
		classes = []string{}
	}
	kvs := make([][2]string, 0, len(a.KeyVals))
	for _, kv := range a.KeyVals {
		kvs = append(kvs, [2]string{kv.Key, kv.Value})
	}
	return json.Marshal([]any{a.ID, classes, kvs})
}

func (s *Str) MarshalJSON() ([]byte, error) { return json.Marshal(tagged{"Str", s.Text}) }

func (*Space) MarshalJSON() ([]byte, error) { return json.Marshal(bare{"Space"}) }

func (*SoftBreak) MarshalJSON() ([]byte, error) { return json.Marshal(bare{"SoftBreak"}) }

func (*LineBreak) MarshalJSON() ([]byte, error) { return json.Marshal(bare{"LineBreak"}) }

func (m *Math) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"Math", []any{bare{m.Type.String()}, m.Text}})
}

func (r *RawInline) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"RawInline", []any{r.Format, r.Text}})
}

func (l *Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"Link", []any{
		l.Attr, inlineList(l.Content), [2]string{l.Target.URL, l.Target.Title},
	}})
}

func (s *Span) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"Span", []any{s.Attr, inlineList(s.Content)}})
}

func (q *Quoted) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"Quoted", []any{bare{q.Type.String()}, inlineList(q.Content)}})
}

func (c *Cite) MarshalJSON() ([]byte, error) {
	citations := make([]any, 0, len(c.Citations))
	for _, ct := range c.Citations {
		citations = append(citations, struct {
			ID      string   `json:"citationId"`
			Prefix  []Inline `json:"citationPrefix"`
			Suffix  []Inline `json:"citationSuffix"`
			Mode    bare     `json:"citationMode"`
			NoteNum int      `json:"citationNoteNum"`
			Hash    int      `json:"citationHash"`
		}{ct.ID, inlineList(ct.Prefix), inlineList(ct.Suffix), bare{ct.Mode.String()}, ct.NoteNum, ct.Hash})
	}
	return json.Marshal(tagged{"Cite", []any{citations, inlineList(c.Content)}})
}

func (g *GenericInline) MarshalJSON() ([]byte, error) {
	if !g.HasContent {
		return json.Marshal(bare{g.Tag})
	}
	return json.Marshal(tagged{g.Tag, g.Content})
}

func (p *Para) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"Para", inlineList(p.Content)})
}

func (p *Plain) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"Plain", inlineList(p.Content)})
}

func (h *Header) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"Header", []any{h.Level, h.Attr, inlineList(h.Content)}})
}

func (r *RawBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"RawBlock", []any{r.Format, r.Text}})
}

func (g *GenericBlock) MarshalJSON() ([]byte, error) {
	if !g.HasContent {
		return json.Marshal(bare{g.Tag})
	}
	return json.Marshal(tagged{g.Tag, g.Content})
}

func (m *MetaMap) MarshalJSON() ([]byte, error) {
	entries := m.Entries
	if entries == nil {
		entries = map[string]MetaValue{}
	}
	return json.Marshal(tagged{"MetaMap", entries})
}

func (l *MetaList) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []MetaValue{}
	}
	return json.Marshal(tagged{"MetaList", items})
}

func (b *MetaBool) MarshalJSON() ([]byte, error) { return json.Marshal(tagged{"MetaBool", b.Value}) }

func (s *MetaString) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"MetaString", s.Text})
}

func (m *MetaInlines) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"MetaInlines", inlineList(m.Content)})
}

func (m *MetaBlocks) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{"MetaBlocks", blockList(m.Content)})
}
