// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-eqnos/internal/fileutil"
)

// IsTerminal reports whether standard input is a terminal, which means the
// filter was started by hand rather than by pandoc.
var IsTerminal = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// ForPandocVersion returns hints for an undeterminable pandoc version.
func ForPandocVersion() string {
	hints := []string{"pass --pandocversion or set PANDOC_VERSION"}
	if os.Getenv("PATH") == "" {
		hints = append(hints, "PATH is empty so pandoc cannot be found")
	}
	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config with a path and the user config location.
func ForConfigNotFound(name string) string {
	hint := "use --config /path/to/file.yaml"
	if name != "" && !fileutil.IsFilePath(name) {
		hint += " or create ~/.config/go-eqnos/" + name + ".yaml"
	}
	return format(hint)
}

// ForMalformedDocument returns hints for input that is not a pandoc JSON
// document.
func ForMalformedDocument() string {
	hints := []string{"run through pandoc: pandoc --filter pandoc-eqnos"}
	if IsTerminal() {
		hints = append(hints, "standard input is a terminal")
	}
	return formatHints(hints)
}

// ForMissingFormat returns a hint for a missing output format argument.
func ForMissingFormat() string {
	return format("pandoc passes the output format as the first argument, e.g. pandoc-eqnos html")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
