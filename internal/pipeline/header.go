package pipeline

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/format"
	"github.com/alnah/go-eqnos/internal/pandoc"
)

// HeaderIncludesKey is the metadata field pandoc copies into the preamble.
const HeaderIncludesKey = "header-includes"

// AddHeaders appends the preamble blocks the output needs to the
// header-includes metadata. Nothing is added to documents without
// equations. The returned metadata is meta, updated in place.
func (s *State) AddHeaders(meta ast.Meta, version pandoc.Version) ast.Meta {
	if s.Table.Len() == 0 {
		return meta
	}

	h := format.Header{
		CleverefUsed:    s.cleverefUsed,
		Capitalise:      s.Config.Capitalise,
		NumberBySection: s.Config.NumberBySection,
		SectionOffset:   s.Config.SectionOffset,
		PandocVersion:   version,
	}
	if s.Config.PlusNameChanged {
		h.PlusName = &[2]string{s.Config.PlusName.Singular, s.Config.PlusName.Plural}
	}
	if s.Config.StarNameChanged {
		h.StarName = &[2]string{s.Config.StarName.Singular, s.Config.StarName.Plural}
	}

	includes := s.Format.Includes(h)
	if len(includes) == 0 {
		return meta
	}
	if meta == nil {
		meta = ast.Meta{}
	}

	list := headerList(meta[HeaderIncludesKey])
	existing := rawTexts(list)
	added := 0
	for _, inc := range includes {
		if inc.Unless != nil && inc.Unless.MatchString(existing) {
			continue
		}
		if inc.Format == "html" && hasEquationStyle(existing) {
			continue
		}
		list.Items = append(list.Items, &ast.MetaBlocks{
			Content: []ast.Block{&ast.RawBlock{Format: inc.Format, Text: inc.Text}},
		})
		added++
	}
	if added == 0 {
		return meta
	}
	meta[HeaderIncludesKey] = list

	s.logger.Info("wrote blocks to header-includes; with pandoc's --include-in-header they must be included manually",
		zap.Int("blocks", added))
	return meta
}

// headerList returns header-includes as a list, promoting a single value.
func headerList(v ast.MetaValue) *ast.MetaList {
	switch v := v.(type) {
	case nil:
		return &ast.MetaList{}
	case *ast.MetaList:
		return v
	default:
		return &ast.MetaList{Items: []ast.MetaValue{v}}
	}
}

// rawTexts concatenates the text of every raw and plain entry of list.
func rawTexts(list *ast.MetaList) string {
	var b strings.Builder
	for _, item := range list.Items {
		switch item := item.(type) {
		case *ast.MetaBlocks:
			for _, blk := range item.Content {
				if raw, ok := blk.(*ast.RawBlock); ok {
					b.WriteString(raw.Text)
					b.WriteByte('\n')
				}
			}
		case *ast.MetaInlines:
			for _, in := range item.Content {
				if raw, ok := in.(*ast.RawInline); ok {
					b.WriteString(raw.Text)
					b.WriteByte('\n')
				}
			}
		}
		if text, ok := ast.MetaText(item); ok {
			b.WriteString(text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// hasEquationStyle reports whether the HTML in s already contains a style
// element declaring the .eqnos class.
func hasEquationStyle(s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	inStyle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken:
			name, _ := z.TagName()
			inStyle = atom.Lookup(name) == atom.Style
		case html.EndTagToken:
			inStyle = false
		case html.TextToken:
			if inStyle && strings.Contains(string(z.Text()), ".eqnos") {
				return true
			}
		}
	}
}
