package eqnos

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/alnah/go-eqnos/internal/config"
	"github.com/alnah/go-eqnos/internal/pandoc"
)

// Option configures a Filter.
type Option func(*Filter)

// CommandRunner runs external commands. It is used to ask pandoc for its
// version when no version is given.
type CommandRunner = pandoc.CommandRunner

// WithStderr sets where warnings are written. Ignored when WithLogger is used.
func WithStderr(w io.Writer) Option {
	return func(f *Filter) {
		if w != nil {
			f.stderr = w
		}
	}
}

// WithLogger replaces the logger built from the warning level.
func WithLogger(l *zap.Logger) Option {
	return func(f *Filter) {
		f.logger = l
	}
}

// WithWarningLevel overrides the eqnos-warning-level metadata option.
// Panics if level is outside 0-2 (programmer error).
func WithWarningLevel(level int) Option {
	if level < config.WarnNone || level > config.WarnAll {
		panic("eqnos: WithWarningLevel level must be 0, 1 or 2")
	}
	return func(f *Filter) {
		f.warningLevel = &level
	}
}

// WithDefaults sets option defaults keyed by metadata name, for example
// {"eqnos-cleveref": true, "eqnos-plus-name": []any{"eqn.", "eqns."}}.
// Document metadata overrides them. Invalid values make Process fail with
// ErrDefaults.
func WithDefaults(values map[string]any) Option {
	return func(f *Filter) {
		meta, err := config.FromValues(values)
		if err != nil {
			f.optErr = fmt.Errorf("%w: %w", ErrDefaults, err)
			return
		}
		f.defaults = meta
	}
}

// WithDefaultsFile loads option defaults from YAML. A name without a path
// separator is looked up as name.yaml or name.yml in the current directory,
// then in the user config directory under go-eqnos/. Load failures make
// Process fail with ErrDefaults.
func WithDefaultsFile(nameOrPath string) Option {
	return func(f *Filter) {
		meta, err := config.LoadDefaults(nameOrPath)
		if err != nil {
			f.optErr = fmt.Errorf("%w: %w", ErrDefaults, err)
			return
		}
		f.defaults = meta
	}
}

// WithPandocVersion sets the pandoc version instead of detecting it.
func WithPandocVersion(v string) Option {
	return func(f *Filter) {
		f.pandocVersion = v
	}
}

// WithGetenv replaces the environment lookup used for PANDOC_VERSION.
func WithGetenv(getenv func(string) string) Option {
	return func(f *Filter) {
		f.getenv = getenv
	}
}

// WithCommandRunner replaces the runner used for `pandoc --version`.
func WithCommandRunner(r CommandRunner) Option {
	return func(f *Filter) {
		f.runner = r
	}
}

// WithIDGenerator replaces the generator of placeholder labels for
// equations labelled with the bare eq: prefix.
func WithIDGenerator(gen func() string) Option {
	return func(f *Filter) {
		f.newID = gen
	}
}
