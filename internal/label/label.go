// Package label recognizes equation labels such as eq:euler and reference
// tokens such as @eq:euler.
package label

import (
	"regexp"
	"strings"
)

// Prefix starts every equation label.
const Prefix = "eq:"

// Word characters follow Unicode letters and digits so labels written in
// any script are accepted. Punctuation pandoc allows inside citation keys
// may appear between word characters, so eq:einstein.1 is a label while the
// period ending "@eq:einstein." is not part of it.
const (
	wordClass  = `[\p{L}\p{N}_/-]`
	punctClass = `[.:#$%&+?<>~]`
	body       = wordClass + `(?:` + wordClass + `|` + punctClass + wordClass + `)*`
)

var (
	labelPattern     = regexp.MustCompile(`^eq:(?:` + body + `)?$`)
	referencePattern = regexp.MustCompile(`^@(eq:(?:` + body + `)?)$`)

	// embeddedReference finds the first reference token inside running text.
	// The label body must be non-empty; a bare @eq: is ordinary text.
	embeddedReference = regexp.MustCompile(`^(.*?)@(eq:` + body + `)(.*)$`)
)

// Match reports whether s is a well-formed equation label.
func Match(s string) bool {
	return labelPattern.MatchString(s)
}

// Reference returns the label of a reference token "@eq:...".
func Reference(s string) (string, bool) {
	m := referencePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsBare reports whether s is the prefix alone, which asks for a numbered
// equation that cannot be referenced.
func IsBare(s string) bool {
	return s == Prefix
}

// Split locates the first reference token in s and returns the text before
// it, its label and the text after it.
func Split(s string) (prefix, lbl, suffix string, ok bool) {
	m := embeddedReference.FindStringSubmatch(s)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

// EndsWithOpener reports whether s ends with an unterminated reference
// opener, the shape an auto-linker leaves when it cuts "@eq:label" at the
// colon.
func EndsWithOpener(s string) bool {
	return strings.HasSuffix(s, "@eq")
}
