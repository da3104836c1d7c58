package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-eqnos/internal/ast"
)

// attachAttrs moves attribute blocks written after math into the math
// nodes. The block may follow one Space or SoftBreak and may span several
// inlines, e.g. Str "{#eq:1", Space, Str "tag=", Quoted, Str "}.". Text
// after the closing brace stays in place.
func (s *State) attachAttrs(in []ast.Inline) []ast.Inline {
	out := make([]ast.Inline, 0, len(in))
	for i := 0; i < len(in); i++ {
		out = append(out, in[i])

		m, ok := in[i].(*ast.Math)
		if !ok || m.Attr != nil {
			continue
		}
		start := i + 1
		if start < len(in) {
			switch in[start].(type) {
			case *ast.Space, *ast.SoftBreak:
				start++
			}
		}
		end, body, rest, ok := scanAttrBlock(in, start)
		if !ok {
			continue
		}
		attr, err := ast.ParseAttrBlock(body)
		if err != nil {
			s.logger.Warn("ignoring attributes after math", zap.String("attributes", "{"+body+"}"), zap.Error(err))
			continue
		}
		m.Attr = &attr
		if rest != "" {
			out = append(out, &ast.Str{Text: rest})
		}
		i = end
	}
	return out
}

// scanAttrBlock finds an attribute block starting with a Str "{" at
// in[start]. It returns the index of the inline holding the closing brace,
// the text between the braces and the text after the closing brace.
func scanAttrBlock(in []ast.Inline, start int) (end int, body, rest string, ok bool) {
	if start >= len(in) {
		return 0, "", "", false
	}
	first, isStr := in[start].(*ast.Str)
	if !isStr || !strings.HasPrefix(first.Text, "{") {
		return 0, "", "", false
	}

	var b strings.Builder
	var quote rune
	for k := start; k < len(in); k++ {
		str, isStr := in[k].(*ast.Str)
		if !isStr {
			switch el := in[k].(type) {
			case *ast.Space, *ast.SoftBreak, *ast.Quoted:
				writeAttrText(&b, el)
				continue
			case *ast.Math:
				// An unquoted math value is quoted so spaces inside it
				// do not split the token.
				if quote == 0 {
					b.WriteByte('"')
					writeAttrText(&b, el)
					b.WriteByte('"')
				} else {
					writeAttrText(&b, el)
				}
				continue
			default:
				return 0, "", "", false
			}
		}

		text := str.Text
		if k == start {
			text = text[1:]
		}
		for pos, r := range text {
			switch {
			case quote != 0:
				if r == quote {
					quote = 0
				}
			case r == '"' || r == '\'':
				quote = r
			case r == '}':
				b.WriteString(text[:pos])
				return k, b.String(), text[pos+1:], true
			}
		}
		b.WriteString(text)
	}
	return 0, "", "", false
}

// writeAttrText writes an inline as attribute source text. Math keeps its
// dollar delimiters so a tag written as math is still math once attached.
func writeAttrText(b *strings.Builder, in ast.Inline) {
	switch el := in.(type) {
	case *ast.Math:
		delim := "$"
		if el.Type == ast.DisplayMath {
			delim = "$$"
		}
		b.WriteString(delim + el.Text + delim)
	case *ast.Quoted:
		q := "\""
		if el.Type == ast.SingleQuote {
			q = "'"
		}
		b.WriteString(q)
		for _, c := range el.Content {
			writeAttrText(b, c)
		}
		b.WriteString(q)
	default:
		b.WriteString(ast.Stringify([]ast.Inline{in}))
	}
}
