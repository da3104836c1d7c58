// Package pandoc finds out which pandoc runs the filter.
package pandoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Sentinel errors for version detection.
var (
	ErrVersionUnknown = errors.New("cannot determine pandoc version")
	ErrInvalidVersion = errors.New("invalid pandoc version")
)

// EnvVersion is set by pandoc 2.x and later when it runs a filter.
const EnvVersion = "PANDOC_VERSION"

var versionLine = regexp.MustCompile(`(?m)^pandoc(?:\.exe)?\s+(\d+(?:\.\d+)*)`)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// Version is a dotted pandoc version such as 2.9.2.1.
type Version struct {
	parts []int
}

// ParseVersion parses a dotted version string.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty", ErrInvalidVersion)
	}
	fields := strings.Split(s, ".")
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		parts = append(parts, n)
	}
	return Version{parts: parts}, nil
}

// MustParseVersion is ParseVersion for constants.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	strs := make([]string, len(v.parts))
	for i, p := range v.parts {
		strs[i] = strconv.Itoa(p)
	}
	return strings.Join(strs, ".")
}

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool { return len(v.parts) == 0 }

// semver renders the first three components in semver form; pandoc's
// fourth component is compared separately.
func (v Version) semver() string {
	p := [3]int{}
	copy(p[:], v.parts)
	return fmt.Sprintf("v%d.%d.%d", p[0], p[1], p[2])
}

func (v Version) part(i int) int {
	if i < len(v.parts) {
		return v.parts[i]
	}
	return 0
}

// Compare returns -1, 0 or +1 as v is older than, equal to or newer than o.
func (v Version) Compare(o Version) int {
	if c := semver.Compare(v.semver(), o.semver()); c != 0 {
		return c
	}
	for i := 3; i < max(len(v.parts), len(o.parts)); i++ {
		switch a, b := v.part(i), o.part(i); {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// Detect resolves the pandoc version from, in order: the explicit value
// (command-line argument), the PANDOC_VERSION environment variable, and the
// output of `pandoc --version`.
func Detect(explicit string, getenv func(string) string, runner CommandRunner) (Version, error) {
	if explicit != "" {
		return ParseVersion(explicit)
	}
	if getenv != nil {
		if env := getenv(EnvVersion); env != "" {
			return ParseVersion(env)
		}
	}
	if runner == nil {
		return Version{}, ErrVersionUnknown
	}

	stdout, stderr, err := runner.Run("pandoc", "--version")
	if err != nil {
		return Version{}, fmt.Errorf("%w: running pandoc: %s: %v", ErrVersionUnknown, strings.TrimSpace(stderr), err)
	}
	m := versionLine.FindStringSubmatch(stdout)
	if m == nil {
		return Version{}, fmt.Errorf("%w: unexpected `pandoc --version` output", ErrVersionUnknown)
	}
	return ParseVersion(m[1])
}
