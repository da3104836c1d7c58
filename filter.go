package eqnos

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/config"
	"github.com/alnah/go-eqnos/internal/format"
	"github.com/alnah/go-eqnos/internal/logging"
	"github.com/alnah/go-eqnos/internal/pandoc"
	"github.com/alnah/go-eqnos/internal/pipeline"
)

// Compile-time interface implementation checks.
var _ pandoc.CommandRunner = (*pandoc.ExecRunner)(nil)

// Filter processes pandoc documents. A Filter holds no per-document state
// and may be reused.
type Filter struct {
	stderr        io.Writer
	logger        *zap.Logger
	warningLevel  *int
	defaults      ast.Meta
	optErr        error
	pandocVersion string
	getenv        func(string) string
	runner        pandoc.CommandRunner
	newID         func() string
}

// New creates a Filter. Without options it writes diagnostics to standard
// error and detects the pandoc version from the environment.
func New(opts ...Option) *Filter {
	f := &Filter{
		stderr: os.Stderr,
		getenv: os.Getenv,
		runner: &pandoc.ExecRunner{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Process reads a document from r, numbers its equations, resolves its
// references for the output format named by formatToken and writes the
// result to w.
func (f *Filter) Process(ctx context.Context, r io.Reader, w io.Writer, formatToken string) error {
	if f.optErr != nil {
		return f.optErr
	}
	if formatToken == "" {
		return ErrUnsupportedFormat
	}

	version, err := pandoc.Detect(f.pandocVersion, f.getenv, f.runner)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPandocVersion, err)
	}

	doc, err := ast.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg, issues := config.Parse(config.Merge(f.defaults, doc.Meta))
	if f.warningLevel != nil {
		cfg.WarningLevel = *f.warningLevel
	}
	logger := f.logger
	if logger == nil {
		logger = logging.New(f.stderr, cfg.WarningLevel)
	}
	defer func() { _ = logger.Sync() }()

	for _, issue := range issues {
		logger.Warn("ignoring option", zap.String("option", issue.Name), zap.Error(issue.Err))
	}

	out := format.Parse(formatToken)
	logger.Debug("processing document",
		zap.Stringer("format", out),
		zap.Stringer("pandoc", version))

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if f.newID != nil {
		opts = append(opts, pipeline.WithIDGenerator(f.newID))
	}
	state := pipeline.NewState(out, cfg, opts...)

	blocks, err := state.Number(doc.Blocks)
	if err != nil {
		return err
	}
	if dups := state.Table.Duplicates(); len(dups) > 0 {
		logger.Warn("references to duplicated labels point at their first definition",
			zap.Strings("labels", dups))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if blocks, err = state.Repair(blocks); err != nil {
		return err
	}
	if blocks, err = state.Resolve(blocks); err != nil {
		return err
	}
	doc.Blocks = blocks
	doc.Meta = state.AddHeaders(doc.Meta, version)

	if err := ast.Encode(w, doc); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteDocument, err)
	}
	return nil
}
