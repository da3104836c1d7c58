package pipeline

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/config"
	"github.com/alnah/go-eqnos/internal/format"
	"github.com/alnah/go-eqnos/internal/label"
	"github.com/alnah/go-eqnos/internal/target"
)

// Sentinel errors for pass ordering.
var (
	ErrAlreadyNumbered = errors.New("equations already numbered")
	ErrNotNumbered     = errors.New("equations not numbered yet")
)

// State is the traversal context shared by the passes of one document.
type State struct {
	Format format.Format
	Config *config.Config
	Table  *target.Table

	logger  *zap.Logger
	counter *target.Counter
	section int

	// cleverefUsed records that a LaTeX \cref or \Cref was emitted.
	cleverefUsed bool

	newID func() string
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger receiving warnings. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator replaces the generator of placeholder label bodies.
func WithIDGenerator(gen func() string) Option {
	return func(s *State) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewState returns the context for one document. A nil cfg means defaults.
func NewState(f format.Format, cfg *config.Config, opts ...Option) *State {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &State{
		Format: f,
		Config: cfg,
		Table:  target.NewTable(),
		logger: zap.NewNop(),
		// Formats numbering by section natively get plain numbers; the
		// typesetter restarts them.
		counter: target.NewCounter(cfg.NumberBySection && !f.NativeSectionNumbering()),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// hardCodesSections reports whether section numbers must be written into
// equation tags.
func (s *State) hardCodesSections() bool {
	return s.Config.NumberBySection && !s.Format.NativeSectionNumbering()
}

// placeholderID returns a label that no user label or earlier placeholder
// can equal.
func (s *State) placeholderID() string {
	for {
		id := label.Prefix + s.newID()
		if _, taken := s.Table.Get(id); !taken {
			return id
		}
	}
}

// trackSection advances the section number on numbered level-1 headers.
func (s *State) trackSection(b ast.Block) {
	if h, ok := b.(*ast.Header); ok && h.Level == 1 && !h.Attr.HasClass("unnumbered") {
		s.section++
	}
}
