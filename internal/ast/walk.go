package ast

// Visitor holds the callbacks Walk applies. Nil callbacks are skipped.
//
// Block and Inline are called in document order, before the children of the
// element are visited, and return the sequence that replaces the element.
// Returning the element unchanged keeps it; returning nil removes it.
// Inlines is called for each inline sequence before its elements are
// visited, so passes that rewrite neighbouring elements see the whole list.
type Visitor struct {
	Block   func(Block) []Block
	Inlines func([]Inline) []Inline
	Inline  func(Inline) []Inline
}

// Walk traverses blocks depth-first and returns the rewritten sequence.
// Replacement elements are traversed as well; callbacks must therefore not
// produce elements they would rewrite again.
func Walk(blocks []Block, v *Visitor) []Block {
	return walkBlocks(blocks, v)
}

func walkBlocks(blocks []Block, v *Visitor) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		replacement := []Block{b}
		if v.Block != nil {
			replacement = v.Block(b)
		}
		for _, r := range replacement {
			walkBlockChildren(r, v)
			out = append(out, r)
		}
	}
	return out
}

func walkBlockChildren(b Block, v *Visitor) {
	switch b := b.(type) {
	case *Para:
		b.Content = walkInlines(b.Content, v)
	case *Plain:
		b.Content = walkInlines(b.Content, v)
	case *Header:
		b.Content = walkInlines(b.Content, v)
	case *RawBlock:
	case *GenericBlock:
		b.Content = walkValue(b.Content, v)
	}
}

func walkInlines(inlines []Inline, v *Visitor) []Inline {
	if v.Inlines != nil {
		inlines = v.Inlines(inlines)
	}
	out := make([]Inline, 0, len(inlines))
	for _, in := range inlines {
		replacement := []Inline{in}
		if v.Inline != nil {
			replacement = v.Inline(in)
		}
		for _, r := range replacement {
			walkInlineChildren(r, v)
			out = append(out, r)
		}
	}
	return out
}

func walkInlineChildren(in Inline, v *Visitor) {
	switch in := in.(type) {
	case *Str, *Space, *SoftBreak, *LineBreak, *Math, *RawInline:
	case *Link:
		in.Content = walkInlines(in.Content, v)
	case *Span:
		in.Content = walkInlines(in.Content, v)
	case *Quoted:
		in.Content = walkInlines(in.Content, v)
	case *Cite:
		for i := range in.Citations {
			in.Citations[i].Prefix = walkInlines(in.Citations[i].Prefix, v)
			in.Citations[i].Suffix = walkInlines(in.Citations[i].Suffix, v)
		}
		in.Content = walkInlines(in.Content, v)
	case *GenericInline:
		in.Content = walkValue(in.Content, v)
	}
}

// walkValue descends generic content. Arrays made only of inlines are
// treated as inline sequences, arrays made only of blocks as block
// sequences; anything else is descended element by element.
func walkValue(val any, v *Visitor) any {
	switch val := val.(type) {
	case []any:
		if len(val) == 0 {
			return val
		}
		if inlines, ok := asInlines(val); ok {
			return fromInlines(walkInlines(inlines, v))
		}
		if blocks, ok := asBlocks(val); ok {
			return fromBlocks(walkBlocks(blocks, v))
		}
		for i := range val {
			val[i] = walkValue(val[i], v)
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = walkValue(val[k], v)
		}
		return val
	case Inline:
		walkInlineChildren(val, v)
		return val
	case Block:
		walkBlockChildren(val, v)
		return val
	default:
		return val
	}
}

func asInlines(items []any) ([]Inline, bool) {
	out := make([]Inline, 0, len(items))
	for _, item := range items {
		in, ok := item.(Inline)
		if !ok {
			return nil, false
		}
		out = append(out, in)
	}
	return out, true
}

func asBlocks(items []any) ([]Block, bool) {
	out := make([]Block, 0, len(items))
	for _, item := range items {
		b, ok := item.(Block)
		if !ok {
			return nil, false
		}
		out = append(out, b)
	}
	return out, true
}

func fromInlines(in []Inline) []any {
	out := make([]any, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

func fromBlocks(in []Block) []any {
	out := make([]any, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}
