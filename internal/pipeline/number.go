package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/format"
	"github.com/alnah/go-eqnos/internal/label"
	"github.com/alnah/go-eqnos/internal/target"
)

// Number assigns a target to every labelled equation, rewrites equations
// for the output format and freezes the target table.
func (s *State) Number(blocks []ast.Block) ([]ast.Block, error) {
	if s.Table.Frozen() {
		return nil, ErrAlreadyNumbered
	}

	out := ast.Walk(blocks, &ast.Visitor{
		Block: func(b ast.Block) []ast.Block {
			s.trackSection(b)
			return []ast.Block{b}
		},
		Inlines: s.attachAttrs,
		Inline: func(in ast.Inline) []ast.Inline {
			if m, ok := in.(*ast.Math); ok && m.Attr != nil {
				return s.numberEquation(m)
			}
			return []ast.Inline{in}
		},
	})

	s.Table.Freeze()
	return out, nil
}

// numberEquation processes one math node carrying attributes.
func (s *State) numberEquation(m *ast.Math) []ast.Inline {
	attr := *m.Attr
	m.Attr = nil

	id := attr.ID
	if !label.Match(id) {
		if id != "" {
			s.logger.Warn("equation label is malformed; equation left unnumbered", zap.String("label", id))
		}
		return s.Format.Equation(format.Equation{Math: m})
	}

	referenceable := true
	if label.IsBare(id) {
		id = s.placeholderID()
		referenceable = false
	}

	s.counter.Enter(s.section)
	value := s.assignValue(&attr)

	err := s.Table.Add(target.Target{
		ID:              id,
		Value:           value,
		Section:         s.section,
		Unreferenceable: !referenceable,
	})
	if errors.Is(err, target.ErrDuplicate) {
		s.logger.Warn("duplicate equation label; references resolve to the first definition", zap.String("label", id))
		referenceable = false
	}

	env, ok := attr.Get("env")
	if !ok || env == "" {
		env = s.Config.DefaultEnv
	}

	return s.Format.Equation(format.Equation{
		Math:          m,
		ID:            id,
		Value:         value,
		Numbered:      true,
		Referenceable: referenceable,
		Env:           env,
	})
}

// assignValue returns the tag or the next number for an equation.
func (s *State) assignValue(attr *ast.Attr) target.Value {
	if tag, ok := attr.Get("tag"); ok {
		if s.Config.TagConsumesNumber {
			s.counter.Next()
		}
		return target.TagValue(stripQuotes(tag))
	}

	n := s.counter.Next()
	if s.hardCodesSections() {
		return target.TagValue(fmt.Sprintf("%d.%d", s.section+s.Config.SectionOffset, n))
	}
	return target.NumberValue(n)
}

// stripQuotes removes one pair of matching quotes around s.
func stripQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
