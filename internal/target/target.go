// Package target holds the values assigned to equation labels and the
// section-scoped counter that produces them.
package target

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for table updates.
var (
	ErrDuplicate = errors.New("duplicate equation label")
	ErrFrozen    = errors.New("target table is frozen")
)

// Kind tells whether a Value is a number or a tag.
type Kind int

const (
	Number Kind = iota
	Tag
)

// Value is the number or the literal tag assigned to an equation.
type Value struct {
	Kind Kind
	Num  int
	Text string
}

// NumberValue returns a numeric value.
func NumberValue(n int) Value { return Value{Kind: Number, Num: n} }

// TagValue returns a tag value.
func TagValue(text string) Value { return Value{Kind: Tag, Text: text} }

// String renders the value as it appears in a document.
func (v Value) String() string {
	if v.Kind == Tag {
		return v.Text
	}
	return strconv.Itoa(v.Num)
}

// IsMath reports whether a tag is written as $...$ math.
func (v Value) IsMath() bool {
	return v.Kind == Tag && len(v.Text) >= 2 &&
		strings.HasPrefix(v.Text, "$") && strings.HasSuffix(v.Text, "$")
}

// MathBody returns a math tag without its dollar delimiters, single or
// doubled.
func (v Value) MathBody() string {
	if !v.IsMath() {
		return v.Text
	}
	if len(v.Text) >= 4 && strings.HasPrefix(v.Text, "$$") && strings.HasSuffix(v.Text, "$$") {
		return v.Text[2 : len(v.Text)-2]
	}
	return v.Text[1 : len(v.Text)-1]
}

// Target is the entry recorded for one label.
type Target struct {
	ID      string
	Value   Value
	Section int
	// Unreferenceable targets carry a synthesized identifier and never
	// resolve a reference.
	Unreferenceable bool
}

// Table maps labels to targets. The first definition of a label wins.
type Table struct {
	entries    map[string]Target
	duplicates []string
	frozen     bool
}

// NewTable returns an empty, writable table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Target)}
}

// Add records t. A second definition of the same label is rejected with
// ErrDuplicate and the existing entry is kept.
func (tb *Table) Add(t Target) error {
	if tb.frozen {
		return ErrFrozen
	}
	if _, exists := tb.entries[t.ID]; exists {
		tb.duplicates = append(tb.duplicates, t.ID)
		return fmt.Errorf("%w: %s", ErrDuplicate, t.ID)
	}
	tb.entries[t.ID] = t
	return nil
}

// Freeze makes the table read-only.
func (tb *Table) Freeze() { tb.frozen = true }

// Frozen reports whether Freeze was called.
func (tb *Table) Frozen() bool { return tb.frozen }

// Get returns the entry for id, referenceable or not.
func (tb *Table) Get(id string) (Target, bool) {
	t, ok := tb.entries[id]
	return t, ok
}

// Resolve returns the target a reference to id points at.
func (tb *Table) Resolve(id string) (Target, bool) {
	t, ok := tb.entries[id]
	if !ok || t.Unreferenceable {
		return Target{}, false
	}
	return t, true
}

// Len returns the number of targets, including unreferenceable ones.
func (tb *Table) Len() int { return len(tb.entries) }

// Duplicates returns the labels that were defined more than once, once per
// rejected definition.
func (tb *Table) Duplicates() []string {
	return append([]string(nil), tb.duplicates...)
}
