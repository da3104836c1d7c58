package format

import (
	"fmt"
	"strings"

	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/target"
)

// Equation describes one equation node ready to be rendered.
type Equation struct {
	Math  *ast.Math
	ID    string
	Value target.Value
	// Numbered is false for equations without a valid label; they are
	// emitted as plain math.
	Numbered bool
	// Referenceable is false for placeholder and duplicate labels; their
	// identifier never reaches the output.
	Referenceable bool
	// Env is the LaTeX environment, optionally with an argument as "env.arg".
	Env string
}

// Equation renders eq as the inlines that replace the math node.
func (f Format) Equation(eq Equation) []ast.Inline {
	m := &ast.Math{Type: eq.Math.Type, Text: eq.Math.Text}
	if !eq.Numbered {
		return []ast.Inline{m}
	}

	switch {
	case f.IsTeX():
		return []ast.Inline{texEquation(eq, m.Text)}
	case f.IsHTML():
		return htmlEquation(eq, m)
	case f == DOCX:
		m.Text += hardCodedNumber(eq.Value)
		if !eq.Referenceable {
			return []ast.Inline{m}
		}
		return []ast.Inline{
			&ast.RawInline{Format: "openxml", Text: fmt.Sprintf(`<w:bookmarkStart w:id="0" w:name="%s"/><w:r><w:t>`, eq.ID)},
			m,
			&ast.RawInline{Format: "openxml", Text: `</w:t></w:r><w:bookmarkEnd w:id="0"/>`},
		}
	default:
		m.Text += hardCodedNumber(eq.Value)
		return []ast.Inline{m}
	}
}

func texEquation(eq Equation, body string) ast.Inline {
	if eq.Referenceable {
		if eq.Value.Kind == target.Tag {
			body += fmt.Sprintf(`\tag{%s}\label{%s}`, escapeSpaces(eq.Value.Text), eq.ID)
		} else {
			body += fmt.Sprintf(`\label{%s}`, eq.ID)
		}
	}

	env, arg, _ := strings.Cut(eq.Env, ".")
	if env == "" {
		env = "equation"
	}
	if arg != "" {
		arg = "{" + arg + "}"
	}
	return &ast.RawInline{
		Format: "tex",
		Text:   fmt.Sprintf(`\begin{%s}%s%s\end{%s}`, env, arg, body, env),
	}
}

func htmlEquation(eq Equation, m *ast.Math) []ast.Inline {
	outer := `<span class="eqnos">`
	if eq.Referenceable {
		outer = fmt.Sprintf(`<span id="%s" class="eqnos">`, eq.ID)
	}

	var number ast.Inline
	if eq.Value.IsMath() {
		number = &ast.Math{Type: ast.InlineMath, Text: "(" + eq.Value.MathBody() + ")"}
	} else {
		number = &ast.Str{Text: "(" + eq.Value.String() + ")"}
	}

	return []ast.Inline{
		&ast.RawInline{Format: "html", Text: outer},
		m,
		&ast.RawInline{Format: "html", Text: `<span class="eqnos-number">`},
		number,
		&ast.RawInline{Format: "html", Text: `</span></span>`},
	}
}

// hardCodedNumber is the TeX appended to the math of formats that cannot
// number equations.
func hardCodedNumber(v target.Value) string {
	if v.Kind == target.Number {
		return fmt.Sprintf(`\qquad (%d)`, v.Num)
	}
	if v.IsMath() {
		return fmt.Sprintf(`\qquad (%s)`, escapeSpaces(v.MathBody()))
	}
	return fmt.Sprintf(`\qquad (\text{%s})`, escapeSpaces(v.Text))
}

func escapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", `\ `)
}
