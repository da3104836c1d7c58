package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	eqnos "github.com/alnah/go-eqnos"
	"github.com/alnah/go-eqnos/internal/config"
	"github.com/alnah/go-eqnos/internal/hints"
)

// runMain runs the filter and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(env.Stdout)
			return ExitSuccess
		}
		hint := ""
		if errors.Is(err, ErrMissingFormat) {
			hint = hints.ForMissingFormat()
		}
		fmt.Fprintf(env.Stderr, "pandoc-eqnos: %v%s\n\n", err, hint)
		printUsage(env.Stderr)
		return ExitUsage
	}
	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "pandoc-eqnos %s\n", Version)
		return ExitSuccess
	}

	if err := run(ctx, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "pandoc-eqnos: %v%s\n", err, hintFor(err, flags))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run processes one document from env.Stdin to env.Stdout.
func run(ctx context.Context, flags *filterFlags, env *Environment) error {
	opts := []eqnos.Option{
		eqnos.WithStderr(env.Stderr),
		eqnos.WithPandocVersion(flags.pandocVersion),
		eqnos.WithGetenv(env.Getenv),
		eqnos.WithCommandRunner(env.Runner),
	}
	if flags.common.config != "" {
		opts = append(opts, eqnos.WithDefaultsFile(flags.common.config))
	}
	if flags.common.verbose {
		opts = append(opts, eqnos.WithWarningLevel(config.WarnAll))
	}

	return eqnos.New(opts...).Process(ctx, env.Stdin, env.Stdout, flags.format)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, flags *filterFlags) string {
	switch {
	case errors.Is(err, eqnos.ErrPandocVersion):
		return hints.ForPandocVersion()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(flags.common.config)
	case errors.Is(err, eqnos.ErrMalformedDocument):
		return hints.ForMalformedDocument()
	default:
		return ""
	}
}
