// Package format maps output formats to the markup the filter emits. Every
// format-specific template lives in this package.
package format

import "strings"

// Format is a pandoc output format the filter distinguishes.
type Format int

const (
	Other Format = iota
	LaTeX
	Beamer
	HTML
	HTML4
	HTML5
	EPUB
	EPUB2
	EPUB3
	DOCX
	Plain
)

var names = map[Format]string{
	Other:  "other",
	LaTeX:  "latex",
	Beamer: "beamer",
	HTML:   "html",
	HTML4:  "html4",
	HTML5:  "html5",
	EPUB:   "epub",
	EPUB2:  "epub2",
	EPUB3:  "epub3",
	DOCX:   "docx",
	Plain:  "plain",
}

var byName = func() map[string]Format {
	m := make(map[string]Format, len(names))
	for f, name := range names {
		m[name] = f
	}
	// pdf output goes through the latex writer.
	m["pdf"] = LaTeX
	return m
}()

// Parse maps a pandoc format token to a Format. Extensions such as
// "html5+smart" are ignored; unknown formats map to Other.
func Parse(token string) Format {
	name := strings.ToLower(strings.TrimSpace(token))
	if i := strings.IndexAny(name, "+-"); i > 0 {
		name = name[:i]
	}
	if f, ok := byName[name]; ok {
		return f
	}
	return Other
}

func (f Format) String() string {
	if name, ok := names[f]; ok {
		return name
	}
	return names[Other]
}

// IsTeX reports whether f is typeset by LaTeX.
func (f Format) IsTeX() bool {
	return f == LaTeX || f == Beamer
}

// IsHTML reports whether f belongs to the HTML family, EPUB included.
func (f Format) IsHTML() bool {
	switch f {
	case HTML, HTML4, HTML5, EPUB, EPUB2, EPUB3:
		return true
	}
	return false
}

// NativeSectionNumbering reports whether the downstream typesetter numbers
// equations by section itself. Other formats need hard-coded tags.
func (f Format) NativeSectionNumbering() bool {
	return f.IsTeX()
}

// NativeReferences reports whether references are left to the typesetter
// as cross-reference commands.
func (f Format) NativeReferences() bool {
	return f.IsTeX()
}

// Hyperlinks reports whether resolved references link to their equation.
func (f Format) Hyperlinks() bool {
	return !f.IsTeX() && f != Plain
}
