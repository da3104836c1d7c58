package ast

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrAttrSyntax is returned for attribute blocks that cannot be parsed.
var ErrAttrSyntax = errors.New("invalid attribute block")

// KeyVal is a single key=value attribute.
type KeyVal struct {
	Key   string
	Value string
}

// Attr is the pandoc attribute triple: identifier, classes and key-values.
type Attr struct {
	ID      string
	Classes []string
	KeyVals []KeyVal
}

// Get returns the value stored under key.
func (a *Attr) Get(key string) (string, bool) {
	for _, kv := range a.KeyVals {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set replaces the value stored under key, appending it if absent.
func (a *Attr) Set(key, value string) {
	for i := range a.KeyVals {
		if a.KeyVals[i].Key == key {
			a.KeyVals[i].Value = value
			return
		}
	}
	a.KeyVals = append(a.KeyVals, KeyVal{Key: key, Value: value})
}

// HasClass reports whether class is present.
func (a *Attr) HasClass(class string) bool {
	for _, c := range a.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// ParseAttrBlock parses the text between the braces of an attribute block
// such as `#eq:1 .display tag="B.1"`. Values keep their quotes; callers
// decide whether to strip them. A lone "-" is pandoc's shorthand for the
// unnumbered class.
func ParseAttrBlock(s string) (Attr, error) {
	tokens, err := splitAttrTokens(s)
	if err != nil {
		return Attr{}, err
	}

	var a Attr
	for _, tok := range tokens {
		switch {
		case tok == "-":
			a.Classes = append(a.Classes, "unnumbered")
		case strings.HasPrefix(tok, "#"):
			a.ID = tok[1:]
		case strings.HasPrefix(tok, "."):
			if len(tok) == 1 {
				return Attr{}, fmt.Errorf("%w: empty class", ErrAttrSyntax)
			}
			a.Classes = append(a.Classes, tok[1:])
		default:
			key, value, ok := strings.Cut(tok, "=")
			if !ok || key == "" {
				return Attr{}, fmt.Errorf("%w: unexpected token %q", ErrAttrSyntax, tok)
			}
			a.Set(key, value)
		}
	}
	return a, nil
}

// splitAttrTokens splits on whitespace outside quotes. Quote characters are
// kept in the tokens.
func splitAttrTokens(s string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("%w: unterminated quote in %q", ErrAttrSyntax, s)
	}
	flush()
	return tokens, nil
}
