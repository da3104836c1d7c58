package pipeline

import (
	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/label"
)

// Repair rejoins references that an auto-linker split into a Link and a
// Str. Running it on its own output changes nothing. The literal braces of
// {@eq:label} are removed by Resolve, which replaces the reference in the
// same step.
func (s *State) Repair(blocks []ast.Block) ([]ast.Block, error) {
	if !s.Table.Frozen() {
		return nil, ErrNotNumbered
	}
	return ast.Walk(blocks, &ast.Visitor{
		Inlines: repairSplitRefs,
	}), nil
}

// repairSplitRefs splices broken references until none is left. A repaired
// prefix may itself end in another broken opener, so the scan restarts
// after each splice.
func repairSplitRefs(in []ast.Inline) []ast.Inline {
	for {
		next, repaired := repairFirstSplitRef(in)
		if !repaired {
			return in
		}
		in = next
	}
}

func repairFirstSplitRef(in []ast.Inline) ([]ast.Inline, bool) {
	for i := 0; i+1 < len(in); i++ {
		prefix, lbl, suffix, ok := splitRef(in[i], in[i+1])
		if !ok {
			continue
		}

		out := make([]ast.Inline, 0, len(in)+1)
		out = append(out, in[:i]...)
		if prefix != "" {
			if prev, isStr := lastStr(out); isStr {
				out[len(out)-1] = &ast.Str{Text: prev.Text + prefix}
			} else {
				out = append(out, &ast.Str{Text: prefix})
			}
		}
		out = append(out, &ast.Cite{
			Citations: []ast.Citation{{ID: lbl, Mode: ast.AuthorInText}},
			Content:   []ast.Inline{&ast.Str{Text: "@" + lbl}},
		})
		if suffix != "" {
			out = append(out, &ast.Str{Text: suffix})
		}
		out = append(out, in[i+2:]...)
		return out, true
	}
	return in, false
}

// splitRef reports whether a and b are the two halves of a reference cut
// at the colon: a Link whose only content is a Str ending in "@eq", then a
// Str holding the rest of the label.
func splitRef(a, b ast.Inline) (prefix, lbl, suffix string, ok bool) {
	link, isLink := a.(*ast.Link)
	next, isStr := b.(*ast.Str)
	if !isLink || !isStr || len(link.Content) != 1 {
		return "", "", "", false
	}
	head, isStr := link.Content[0].(*ast.Str)
	if !isStr || !label.EndsWithOpener(head.Text) {
		return "", "", "", false
	}
	return label.Split(head.Text + next.Text)
}

func lastStr(in []ast.Inline) (*ast.Str, bool) {
	if len(in) == 0 {
		return nil, false
	}
	s, ok := in[len(in)-1].(*ast.Str)
	return s, ok
}
