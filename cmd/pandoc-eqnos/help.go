package main

import (
	"fmt"
	"io"
)

const usageText = `Usage: pandoc-eqnos [flags] FORMAT

Numbers equations and resolves references to them in a pandoc JSON
document read from standard input. Run it as a pandoc filter:

  pandoc --filter pandoc-eqnos input.md -o output.html

Flags:
  -c, --config string         option defaults file or config name
  -v, --verbose               report all warnings and notes
      --pandocversion string  pandoc version (detected when omitted)
      --version               print version and exit
  -h, --help                  print usage and exit

Exit codes:
  0  success
  1  unexpected error
  2  usage or configuration error
  3  malformed document or I/O error
  4  pandoc version could not be determined
`

func printUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}
