package pandoc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type MockRunner struct {
	Stdout     string
	Stderr     string
	Err        error
	CalledWith []string
}

func (m *MockRunner) Run(name string, args ...string) (string, string, error) {
	m.CalledWith = append([]string{name}, args...)
	return m.Stdout, m.Stderr, m.Err
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2.9.2.1", "2.9.2.1", false},
		{"3.1", "3.1", false},
		{"v1.18", "1.18", false},
		{" 2.0 ", "2.0", false},
		{"", "", true},
		{"2.x", "", true},
		{"2..1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			v, err := ParseVersion(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("ParseVersion(%q) error = %v, want ErrInvalidVersion", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if v.String() != tt.want {
				t.Errorf("String() = %q, want %q", v.String(), tt.want)
			}
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"1.19", "2.0", -1},
		{"2.0", "2", 0},
		{"2.9.2.1", "2.9.2", 1},
		{"2.9.2", "2.9.2.1", -1},
		{"3.1.9", "2.19.2", 1},
		{"2.10", "2.9", 1},
	}

	for _, tt := range tests {
		if got := MustParseVersion(tt.a).Compare(MustParseVersion(tt.b)); got != tt.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if !MustParseVersion("1.19").Less(MustParseVersion("2.0")) {
		t.Error("1.19 should be less than 2.0")
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	env := func(value string) func(string) string {
		return func(key string) string {
			if key == EnvVersion {
				return value
			}
			return ""
		}
	}

	tests := []struct {
		name       string
		explicit   string
		getenv     func(string) string
		runner     *MockRunner
		want       string
		wantErr    error
		wantCalled []string
	}{
		{
			name:     "explicit argument wins",
			explicit: "2.11",
			getenv:   env("3.0"),
			runner:   &MockRunner{Stdout: "pandoc 3.1"},
			want:     "2.11",
		},
		{
			name:   "environment variable",
			getenv: env("3.1.9"),
			runner: &MockRunner{},
			want:   "3.1.9",
		},
		{
			name:       "pandoc --version output",
			getenv:     env(""),
			runner:     &MockRunner{Stdout: "pandoc 2.19.2\nCompiled with pandoc-types 1.22.2.1\n"},
			want:       "2.19.2",
			wantCalled: []string{"pandoc", "--version"},
		},
		{
			name:       "windows executable name",
			runner:     &MockRunner{Stdout: "pandoc.exe 2.9.2.1\n"},
			want:       "2.9.2.1",
			wantCalled: []string{"pandoc", "--version"},
		},
		{
			name:       "pandoc missing",
			runner:     &MockRunner{Stderr: "not found", Err: errors.New("exit status 127")},
			wantErr:    ErrVersionUnknown,
			wantCalled: []string{"pandoc", "--version"},
		},
		{
			name:       "unexpected output",
			runner:     &MockRunner{Stdout: "something else"},
			wantErr:    ErrVersionUnknown,
			wantCalled: []string{"pandoc", "--version"},
		},
		{
			name:     "invalid explicit value",
			explicit: "latest",
			runner:   &MockRunner{},
			wantErr:  ErrInvalidVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, err := Detect(tt.explicit, tt.getenv, tt.runner)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Detect() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("Detect() unexpected error: %v", err)
				}
				if v.String() != tt.want {
					t.Errorf("Detect() = %s, want %s", v, tt.want)
				}
			}
			if diff := cmp.Diff(tt.wantCalled, tt.runner.CalledWith); diff != "" {
				t.Errorf("runner calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetect_NoRunner(t *testing.T) {
	t.Parallel()

	if _, err := Detect("", nil, nil); !errors.Is(err, ErrVersionUnknown) {
		t.Errorf("Detect() error = %v, want ErrVersionUnknown", err)
	}
}
