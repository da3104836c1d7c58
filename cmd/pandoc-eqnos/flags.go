package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for command-line usage.
var (
	ErrMissingFormat = errors.New("missing output format argument")
	ErrTooManyArgs   = errors.New("too many arguments")
)

// commonFlags holds flags shared with the other xnos filters.
type commonFlags struct {
	config  string
	verbose bool
}

// filterFlags holds everything parsed from the command line.
type filterFlags struct {
	common        commonFlags
	pandocVersion string
	version       bool
	help          bool
	format        string
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "option defaults file or config name")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "report all warnings and notes")
}

// parseFlags parses os.Args style arguments: the program name, flags and
// the output format pandoc passes as the first positional argument.
func parseFlags(args []string) (*filterFlags, error) {
	if len(args) > 0 {
		args = args[1:]
	}

	fs := flag.NewFlagSet("pandoc-eqnos", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &filterFlags{}

	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.pandocVersion, "pandocversion", "", "pandoc version (detected when omitted)")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "print usage and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.version || f.help {
		return f, nil
	}

	switch rest := fs.Args(); {
	case len(rest) == 0:
		return nil, ErrMissingFormat
	case len(rest) > 1:
		return nil, fmt.Errorf("%w: %v", ErrTooManyArgs, rest[1:])
	default:
		f.format = rest[0]
	}
	return f, nil
}
