package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/format"
	"github.com/alnah/go-eqnos/internal/label"
	"github.com/alnah/go-eqnos/internal/target"
)

// Reference modifiers written immediately before a reference.
const (
	modClever      = '+'
	modCleverStart = '*'
	modBare        = '!'
)

func isModifier(c byte) bool {
	return c == modClever || c == modCleverStart || c == modBare
}

// Resolve replaces every reference group whose labels all resolve with
// its rendering, dropping one layer of braces written around it. Other
// citations are left untouched.
func (s *State) Resolve(blocks []ast.Block) ([]ast.Block, error) {
	if !s.Table.Frozen() {
		return nil, ErrNotNumbered
	}
	return ast.Walk(blocks, &ast.Visitor{
		Inlines: func(in []ast.Inline) []ast.Inline {
			return s.resolveSequence(s.stripBraces(in))
		},
	}), nil
}

// resolvable reports whether every citation of c names a referenceable
// equation.
func (s *State) resolvable(c *ast.Cite) bool {
	_, ok := s.lookup(c)
	return ok
}

func (s *State) lookup(c *ast.Cite) ([]target.Target, bool) {
	if len(c.Citations) == 0 {
		return nil, false
	}
	targets := make([]target.Target, 0, len(c.Citations))
	for _, cit := range c.Citations {
		if !label.Match(cit.ID) {
			return nil, false
		}
		t, ok := s.Table.Resolve(cit.ID)
		if !ok {
			return nil, false
		}
		targets = append(targets, t)
	}
	return targets, true
}

func (s *State) resolveSequence(in []ast.Inline) []ast.Inline {
	out := make([]ast.Inline, 0, len(in))
	for _, el := range in {
		cite, ok := el.(*ast.Cite)
		if !ok {
			out = append(out, el)
			continue
		}
		targets, ok := s.lookup(cite)
		if !ok {
			out = append(out, el)
			continue
		}

		s.warnDroppedText(cite)

		var modifier byte
		prefix := cloneInlines(cite.Citations[0].Prefix)
		if cite.Citations[0].Mode == ast.AuthorInText {
			out, modifier = takeModifier(out)
		} else {
			prefix, modifier = takeModifier(prefix)
		}

		out = append(out, prefix...)
		if len(prefix) > 0 && !endsWithSpace(prefix) {
			out = append(out, &ast.Space{})
		}
		out = append(out, s.render(targets, modifier)...)
		out = append(out, cite.Citations[len(cite.Citations)-1].Suffix...)
	}
	return out
}

// warnDroppedText logs text written inside a reference group, such as the
// "x" of [@eq:a, x; @eq:b]. A group renders as one fragment, so only the
// first prefix and the last suffix have a place to go.
func (s *State) warnDroppedText(c *ast.Cite) {
	last := len(c.Citations) - 1
	var dropped []string
	for i, cit := range c.Citations {
		if i > 0 && len(cit.Prefix) > 0 {
			dropped = append(dropped, ast.Stringify(cit.Prefix))
		}
		if i < last && len(cit.Suffix) > 0 {
			dropped = append(dropped, ast.Stringify(cit.Suffix))
		}
	}
	if len(dropped) == 0 {
		return
	}
	ids := make([]string, len(c.Citations))
	for i, cit := range c.Citations {
		ids[i] = cit.ID
	}
	s.logger.Warn("dropping text inside reference group",
		zap.Strings("labels", ids),
		zap.Strings("text", dropped))
}

// render builds the fragment for one reference group.
func (s *State) render(targets []target.Target, modifier byte) []ast.Inline {
	style := format.Bare
	if s.Config.Cleveref {
		style = format.Clever
	}
	switch modifier {
	case modClever:
		style = format.Clever
	case modCleverStart:
		style = format.CleverStart
	case modBare:
		style = format.Bare
	}

	plural := len(targets) > 1
	name := ""
	switch style {
	case format.Clever:
		name = s.Config.MidSentenceNames().Pick(plural)
	case format.CleverStart:
		name = s.Config.StarName.Pick(plural)
	}
	if style != format.Bare && s.Format.NativeReferences() {
		s.cleverefUsed = true
	}

	return s.Format.Reference(format.Reference{
		Targets: targets,
		Style:   style,
		Eqref:   s.Config.Eqref,
		Name:    name,
	})
}

// takeModifier removes a modifier character ending the last Str of in.
func takeModifier(in []ast.Inline) ([]ast.Inline, byte) {
	last, ok := lastStr(in)
	if !ok || last.Text == "" || !isModifier(last.Text[len(last.Text)-1]) {
		return in, 0
	}
	modifier := last.Text[len(last.Text)-1]
	in = in[:len(in)-1]
	if rest := last.Text[:len(last.Text)-1]; rest != "" {
		in = append(in, &ast.Str{Text: rest})
	}
	return in, modifier
}

func endsWithSpace(in []ast.Inline) bool {
	switch in[len(in)-1].(type) {
	case *ast.Space, *ast.SoftBreak:
		return true
	}
	return false
}

func cloneInlines(in []ast.Inline) []ast.Inline {
	return append([]ast.Inline(nil), in...)
}

// stripBraces removes the "{" ending the Str before a resolvable reference
// and the "}" starting the Str after it. A reference modifier between the
// brace and the reference is kept.
func (s *State) stripBraces(in []ast.Inline) []ast.Inline {
	out := make([]ast.Inline, 0, len(in))
	for i := 0; i < len(in); i++ {
		cite, ok := in[i].(*ast.Cite)
		if !ok || !s.resolvable(cite) || i == 0 || i+1 == len(in) {
			out = append(out, in[i])
			continue
		}
		before, ok1 := out[len(out)-1].(*ast.Str)
		after, ok2 := in[i+1].(*ast.Str)
		if !ok1 || !ok2 || !strings.HasPrefix(after.Text, "}") {
			out = append(out, in[i])
			continue
		}
		opened, modifier := trimOpeningBrace(before.Text)
		if opened == before.Text {
			out = append(out, in[i])
			continue
		}

		out = out[:len(out)-1]
		if opened+modifier != "" {
			out = append(out, &ast.Str{Text: opened + modifier})
		}
		out = append(out, cite)
		if closed := after.Text[1:]; closed != "" {
			out = append(out, &ast.Str{Text: closed})
		}
		i++
	}
	return out
}

// trimOpeningBrace removes a trailing "{" or "{" plus a modifier from s.
// It returns s unchanged when there is no such brace.
func trimOpeningBrace(s string) (rest, modifier string) {
	if strings.HasSuffix(s, "{") {
		return s[:len(s)-1], ""
	}
	if len(s) >= 2 && s[len(s)-2] == '{' && isModifier(s[len(s)-1]) {
		return s[:len(s)-2], s[len(s)-1:]
	}
	return s, ""
}
