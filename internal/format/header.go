package format

import (
	"fmt"
	"regexp"

	"github.com/alnah/go-eqnos/internal/pandoc"
)

// Include is one raw block destined for the header-includes metadata.
type Include struct {
	Format string
	Text   string
	// Unless skips the include when existing header-includes match it.
	Unless *regexp.Regexp
}

// Header lists what the document needs in its preamble.
type Header struct {
	CleverefUsed    bool
	Capitalise      bool
	PlusName        *[2]string
	StarName        *[2]string
	NumberBySection bool
	SectionOffset   int
	PandocVersion   pandoc.Version
}

var (
	cleverefPackage = regexp.MustCompile(`\\usepackage(\[[\w\s,]*\])?\{cleveref\}`)
	sectionCounter  = regexp.MustCompile(`\\setcounter\{section\}`)

	pandoc2 = pandoc.MustParseVersion("2.0")
)

const (
	disableCleverefBracketsTeX = `
% pandoc-eqnos: disable brackets around cleveref numbers
\creflabelformat{equation}{#2#1#3}
`

	numberBySectionTeX = `
% pandoc-eqnos: number equations by section
\numberwithin{equation}{section}
`

	sectionOffsetTeX = `
% pandoc-eqnos: section number offset
\setcounter{section}{%d}
`

	equationStyleHTML = `
<!-- pandoc-eqnos: equation style -->
<style%s>
  .eqnos { display: inline-block; position: relative; width: 100%%; }
  .eqnos br { display: none; }
  .eqnos-number { position: absolute; right: 0em; top: 50%%; line-height: 0; }
</style>
`
)

// Includes returns the header blocks f needs, in insertion order.
func (f Format) Includes(h Header) []Include {
	switch {
	case f.IsTeX():
		return texIncludes(h)
	case f.IsHTML():
		return []Include{{Format: "html", Text: fmt.Sprintf(equationStyleHTML, f.styleType(h.PandocVersion))}}
	default:
		return nil
	}
}

// styleType is required by XHTML 1.0, which pandoc calls html4 and which
// plain html meant before pandoc 2.0.
func (f Format) styleType(v pandoc.Version) string {
	if f == HTML4 || (f == HTML && !v.IsZero() && v.Less(pandoc2)) {
		return ` type="text/css"`
	}
	return ""
}

func texIncludes(h Header) []Include {
	var out []Include
	if h.CleverefUsed {
		option := ""
		if h.Capitalise {
			option = "[capitalise]"
		}
		out = append(out,
			Include{
				Format: "tex",
				Text:   fmt.Sprintf("\n%% pandoc-eqnos: required package\n\\usepackage%s{cleveref}\n", option),
				Unless: cleverefPackage,
			},
			Include{Format: "tex", Text: disableCleverefBracketsTeX},
		)
	}
	if h.PlusName != nil {
		out = append(out, Include{
			Format: "tex",
			Text:   fmt.Sprintf("\n%% pandoc-eqnos: change cref names\n\\crefname{equation}{%s}{%s}\n", h.PlusName[0], h.PlusName[1]),
		})
	}
	if h.StarName != nil {
		out = append(out, Include{
			Format: "tex",
			Text:   fmt.Sprintf("\n%% pandoc-eqnos: change Cref names\n\\Crefname{equation}{%s}{%s}\n", h.StarName[0], h.StarName[1]),
		})
	}
	if h.NumberBySection {
		out = append(out, Include{Format: "tex", Text: numberBySectionTeX})
	}
	if h.SectionOffset != 0 {
		out = append(out, Include{
			Format: "tex",
			Text:   fmt.Sprintf(sectionOffsetTeX, h.SectionOffset),
			Unless: sectionCounter,
		})
	}
	return out
}
