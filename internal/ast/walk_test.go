package ast

import (
	"strings"
	"testing"
)

func TestWalk_DocumentOrder(t *testing.T) {
	t.Parallel()

	blocks := []Block{
		&Header{Level: 1, Content: []Inline{&Str{Text: "h"}}},
		&Para{Content: []Inline{
			&Str{Text: "a"},
			&GenericInline{Tag: "Emph", Content: []any{&Str{Text: "b"}}, HasContent: true},
			&Str{Text: "c"},
		}},
		&GenericBlock{Tag: "BlockQuote", HasContent: true, Content: []any{
			&Para{Content: []Inline{&Str{Text: "d"}}},
		}},
	}

	var seen []string
	Walk(blocks, &Visitor{
		Block: func(b Block) []Block {
			if _, ok := b.(*Header); ok {
				seen = append(seen, "H")
			}
			return []Block{b}
		},
		Inline: func(in Inline) []Inline {
			if s, ok := in.(*Str); ok {
				seen = append(seen, s.Text)
			}
			return []Inline{in}
		},
	})

	want := "H h a b c d"
	if got := strings.Join(seen, " "); got != want {
		t.Errorf("visit order = %q, want %q", got, want)
	}
}

func TestWalk_ReplaceAndRemove(t *testing.T) {
	t.Parallel()

	blocks := []Block{&Para{Content: []Inline{&Str{Text: "x"}, &Space{}, &Str{Text: "drop"}}}}
	out := Walk(blocks, &Visitor{
		Inline: func(in Inline) []Inline {
			if s, ok := in.(*Str); ok {
				if s.Text == "drop" {
					return nil
				}
				return []Inline{&Str{Text: "<"}, s, &Str{Text: ">"}}
			}
			return []Inline{in}
		},
	})

	got := Stringify(out[0].(*Para).Content)
	if want := "<x> "; got != want {
		t.Errorf("rewritten content = %q, want %q", got, want)
	}
}

func TestWalk_InlinesSeesWholeSequence(t *testing.T) {
	t.Parallel()

	blocks := []Block{
		&Para{Content: []Inline{&Str{Text: "a"}, &Str{Text: "b"}}},
		&GenericBlock{Tag: "Div", HasContent: true, Content: []any{
			[]any{"", []any{}, []any{}},
			[]any{&Plain{Content: []Inline{&Str{Text: "c"}}}},
		}},
	}

	var lengths []int
	Walk(blocks, &Visitor{
		Inlines: func(in []Inline) []Inline {
			lengths = append(lengths, len(in))
			return in
		},
	})

	if len(lengths) != 2 || lengths[0] != 2 || lengths[1] != 1 {
		t.Errorf("inline sequence lengths = %v, want [2 1]", lengths)
	}
}
