package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-eqnos/internal/ast"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound     = errors.New("config file not found")
	ErrEmptyConfigName    = errors.New("config name cannot be empty")
	ErrConfigParse        = errors.New("failed to parse config")
	ErrUnknownOption      = errors.New("unknown meta variable")
	ErrInvalidValue       = errors.New("invalid option value")
	ErrConflictingOptions = errors.New("conflicting options")
)

// Metadata names read by the filter. The xnos- names are shared with the
// sibling figure and table filters.
const (
	KeyWarningLevel      = "eqnos-warning-level"
	KeyXWarningLevel     = "xnos-warning-level"
	KeyCleveref          = "eqnos-cleveref"
	KeyXCleveref         = "xnos-cleveref"
	KeyCapitalise        = "xnos-capitalise"
	KeyCapitalize        = "xnos-capitalize"
	KeyCaptionSeparator  = "xnos-caption-separator"
	KeyPlusName          = "eqnos-plus-name"
	KeyStarName          = "eqnos-star-name"
	KeyNumberBySection   = "eqnos-number-by-section"
	KeyXNumberBySection  = "xnos-number-by-section"
	KeyNumberOffset      = "xnos-number-offset"
	KeyEqref             = "eqnos-eqref"
	KeyDefaultEnv        = "eqnos-default-env"
	KeyTagConsumesNumber = "eqnos-tag-consumes-number"
)

var knownKeys = map[string]bool{
	KeyWarningLevel: true, KeyXWarningLevel: true,
	KeyCleveref: true, KeyXCleveref: true,
	KeyCapitalise: true, KeyCapitalize: true,
	KeyCaptionSeparator: true,
	KeyPlusName:         true, KeyStarName: true,
	KeyNumberBySection: true, KeyXNumberBySection: true,
	KeyNumberOffset:      true,
	KeyEqref:             true,
	KeyDefaultEnv:        true,
	KeyTagConsumesNumber: true,
}

// Warning levels.
const (
	WarnNone = 0
	WarnSome = 1
	WarnAll  = 2
)

// Names is a singular/plural pair used in front of reference numbers.
type Names struct {
	Singular string
	Plural   string
}

// Pick returns the singular or plural form.
func (n Names) Pick(plural bool) string {
	if plural {
		return n.Plural
	}
	return n.Singular
}

func (n Names) title() Names {
	caser := cases.Title(language.Und)
	return Names{Singular: caser.String(n.Singular), Plural: caser.String(n.Plural)}
}

// Config is the immutable option snapshot the passes read.
type Config struct {
	NumberBySection bool
	SectionOffset   int
	Cleveref        bool
	Eqref           bool
	Capitalise      bool
	// PlusName is used mid-sentence, StarName at the start of a sentence.
	PlusName        Names
	StarName        Names
	PlusNameChanged bool
	StarNameChanged bool
	DefaultEnv      string
	WarningLevel    int
	// TagConsumesNumber makes tagged equations use up a number.
	TagConsumesNumber bool
}

// DefaultConfig returns the configuration used when no option is set.
func DefaultConfig() *Config {
	return &Config{
		PlusName:     Names{Singular: "eq.", Plural: "eqs."},
		StarName:     Names{Singular: "Equation", Plural: "Equations"},
		DefaultEnv:   "equation",
		WarningLevel: WarnAll,
	}
}

// MidSentenceNames returns the names written before references in running
// text, title-cased when capitalisation was requested and the names were
// left at their defaults.
func (c *Config) MidSentenceNames() Names {
	if c.Capitalise && !c.PlusNameChanged {
		return c.PlusName.title()
	}
	return c.PlusName
}

// Issue is a non-fatal problem found while reading options.
type Issue struct {
	Name string
	Err  error
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %v", i.Name, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }

// Parse builds a Config from metadata. Problems never abort parsing: the
// offending option keeps its default and an Issue is reported.
func Parse(meta ast.Meta) (*Config, []Issue) {
	cfg := DefaultConfig()
	p := &parser{meta: meta}

	if name, v, ok := p.first(KeyWarningLevel, KeyXWarningLevel); ok {
		if n, ok := p.intValue(name, v); ok {
			if n < WarnNone || n > WarnAll {
				p.invalid(name, fmt.Errorf("warning level %d out of range 0-2", n))
			} else {
				cfg.WarningLevel = n
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(meta)) {
		if (strings.HasPrefix(name, "eqnos") || strings.HasPrefix(name, "xnos")) && !knownKeys[name] {
			p.issues = append(p.issues, Issue{Name: name, Err: ErrUnknownOption})
		}
	}

	if name, v, ok := p.first(KeyCleveref, KeyXCleveref); ok {
		cfg.Cleveref, _ = p.boolValue(name, v, cfg.Cleveref)
	}
	if name, v, ok := p.first(KeyCapitalise, KeyCapitalize); ok {
		cfg.Capitalise, _ = p.boolValue(name, v, cfg.Capitalise)
	}

	if v, ok := meta[KeyPlusName]; ok {
		if names, ok := p.names(KeyPlusName, v, cfg.PlusName); ok {
			cfg.PlusNameChanged = names != cfg.PlusName
			cfg.PlusName = names
			if cfg.PlusNameChanged {
				cfg.StarName = names.title()
			}
		}
	}
	if v, ok := meta[KeyStarName]; ok {
		if names, ok := p.names(KeyStarName, v, cfg.StarName); ok {
			cfg.StarNameChanged = names != cfg.StarName
			cfg.StarName = names
		}
	}

	if name, v, ok := p.first(KeyNumberBySection, KeyXNumberBySection); ok {
		cfg.NumberBySection, _ = p.boolValue(name, v, cfg.NumberBySection)
	}
	if v, ok := meta[KeyNumberOffset]; ok {
		if n, ok := p.intValue(KeyNumberOffset, v); ok {
			cfg.SectionOffset = n
		}
	}

	if v, ok := meta[KeyEqref]; ok {
		cfg.Eqref, _ = p.boolValue(KeyEqref, v, cfg.Eqref)
		if cfg.Eqref && cfg.Cleveref {
			cfg.Cleveref = false
			p.issues = append(p.issues, Issue{
				Name: KeyEqref,
				Err:  fmt.Errorf("%w: eqref overrides cleveref", ErrConflictingOptions),
			})
		}
	}

	if v, ok := meta[KeyDefaultEnv]; ok {
		if text, ok := ast.MetaText(v); ok && strings.TrimSpace(text) != "" {
			cfg.DefaultEnv = strings.TrimSpace(text)
		} else {
			p.invalid(KeyDefaultEnv, errors.New("expected a non-empty environment name"))
		}
	}

	if v, ok := meta[KeyTagConsumesNumber]; ok {
		cfg.TagConsumesNumber, _ = p.boolValue(KeyTagConsumesNumber, v, cfg.TagConsumesNumber)
	}

	return cfg, p.issues
}

// Merge returns defaults overlaid with meta; meta wins.
func Merge(defaults, meta ast.Meta) ast.Meta {
	out := make(ast.Meta, len(defaults)+len(meta))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range meta {
		out[k] = v
	}
	return out
}

type parser struct {
	meta   ast.Meta
	issues []Issue
}

func (p *parser) first(names ...string) (string, ast.MetaValue, bool) {
	for _, name := range names {
		if v, ok := p.meta[name]; ok {
			return name, v, true
		}
	}
	return "", nil, false
}

func (p *parser) invalid(name string, err error) {
	p.issues = append(p.issues, Issue{Name: name, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)})
}

func (p *parser) boolValue(name string, v ast.MetaValue, fallback bool) (bool, bool) {
	if b, ok := v.(*ast.MetaBool); ok {
		return b.Value, true
	}
	text, ok := ast.MetaText(v)
	if ok {
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true", "yes", "on":
			return true, true
		case "false", "no", "off":
			return false, true
		}
	}
	p.invalid(name, fmt.Errorf("expected a boolean, got %q", text))
	return fallback, false
}

func (p *parser) intValue(name string, v ast.MetaValue) (int, bool) {
	text, ok := ast.MetaText(v)
	if ok {
		if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			return n, true
		}
	}
	p.invalid(name, fmt.Errorf("expected an integer, got %q", text))
	return 0, false
}

// names accepts a single string (the singular form) or a two-item list.
func (p *parser) names(name string, v ast.MetaValue, current Names) (Names, bool) {
	if list, ok := v.(*ast.MetaList); ok {
		if len(list.Items) != 2 {
			p.invalid(name, fmt.Errorf("expected 2 names, got %d", len(list.Items)))
			return current, false
		}
		singular, ok1 := ast.MetaText(list.Items[0])
		plural, ok2 := ast.MetaText(list.Items[1])
		if !ok1 || !ok2 {
			p.invalid(name, errors.New("names must be strings"))
			return current, false
		}
		return Names{Singular: singular, Plural: plural}, true
	}
	text, ok := ast.MetaText(v)
	if !ok {
		p.invalid(name, errors.New("expected a string or a list of two strings"))
		return current, false
	}
	return Names{Singular: text, Plural: current.Plural}, true
}
