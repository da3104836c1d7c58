package format

import (
	"fmt"
	"strings"

	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/target"
)

// Style selects how a reference is introduced.
type Style int

const (
	// Bare renders the value alone.
	Bare Style = iota
	// Clever puts the mid-sentence name in front of the value.
	Clever
	// CleverStart puts the sentence-initial name in front of the value.
	CleverStart
)

// Reference describes one resolved reference group.
type Reference struct {
	Targets []target.Target
	Style   Style
	// Eqref asks for \eqref in LaTeX and parenthesized values elsewhere.
	Eqref bool
	// Name is the singular or plural name used by the clever styles.
	Name string
}

// Reference renders r as the inlines that replace the citation.
func (f Format) Reference(r Reference) []ast.Inline {
	if len(r.Targets) == 0 {
		return nil
	}
	if f.NativeReferences() {
		return texReference(r)
	}

	var out []ast.Inline
	if r.Style != Bare && r.Name != "" {
		out = append(out, &ast.Str{Text: r.Name}, &ast.Space{})
	}
	items := make([][]ast.Inline, 0, len(r.Targets))
	for _, t := range r.Targets {
		items = append(items, []ast.Inline{f.value(t, r.Eqref)})
	}
	return append(out, joinSeries(items)...)
}

func (f Format) value(t target.Target, eqref bool) ast.Inline {
	var v ast.Inline
	switch {
	case t.Value.IsMath() && eqref:
		v = &ast.Math{Type: ast.InlineMath, Text: "(" + t.Value.MathBody() + ")"}
	case t.Value.IsMath():
		v = &ast.Math{Type: ast.InlineMath, Text: t.Value.MathBody()}
	case eqref:
		v = &ast.Str{Text: "(" + t.Value.String() + ")"}
	default:
		v = &ast.Str{Text: t.Value.String()}
	}
	if !f.Hyperlinks() {
		return v
	}
	return &ast.Link{Content: []ast.Inline{v}, Target: ast.LinkTarget{URL: "#" + t.ID}}
}

func texReference(r Reference) []ast.Inline {
	ids := make([]string, len(r.Targets))
	for i, t := range r.Targets {
		ids[i] = t.ID
	}

	switch r.Style {
	case Clever:
		return []ast.Inline{&ast.RawInline{Format: "tex", Text: fmt.Sprintf(`\cref{%s}`, strings.Join(ids, ","))}}
	case CleverStart:
		return []ast.Inline{&ast.RawInline{Format: "tex", Text: fmt.Sprintf(`\Cref{%s}`, strings.Join(ids, ","))}}
	}

	command := `\ref{%s}`
	if r.Eqref {
		command = `\eqref{%s}`
	}
	items := make([][]ast.Inline, len(ids))
	for i, id := range ids {
		items[i] = []ast.Inline{&ast.RawInline{Format: "tex", Text: fmt.Sprintf(command, id)}}
	}
	return joinSeries(items)
}

// joinSeries joins items as "a", "a and b" or "a, b and c".
func joinSeries(items [][]ast.Inline) []ast.Inline {
	var out []ast.Inline
	for i, item := range items {
		switch {
		case i == 0:
		case i == len(items)-1:
			out = append(out, &ast.Space{}, &ast.Str{Text: "and"}, &ast.Space{})
		default:
			out = append(out, &ast.Str{Text: ","}, &ast.Space{})
		}
		out = append(out, item...)
	}
	return out
}
