package ast

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAttrBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Attr
		wantErr bool
	}{
		{
			name:  "identifier only",
			input: "#eq:1",
			want:  Attr{ID: "eq:1"},
		},
		{
			name:  "identifier class and quoted tag",
			input: `#eq:a .wide tag="B 1"`,
			want:  Attr{ID: "eq:a", Classes: []string{"wide"}, KeyVals: []KeyVal{{"tag", `"B 1"`}}},
		},
		{
			name:  "single quoted value keeps quotes",
			input: `tag='x' env=align`,
			want:  Attr{KeyVals: []KeyVal{{"tag", "'x'"}, {"env", "align"}}},
		},
		{
			name:  "dash means unnumbered",
			input: "#eq:2 -",
			want:  Attr{ID: "eq:2", Classes: []string{"unnumbered"}},
		},
		{
			name:  "empty block",
			input: "  ",
			want:  Attr{},
		},
		{
			name:    "unterminated quote",
			input:   `tag="oops`,
			wantErr: true,
		},
		{
			name:    "bare word",
			input:   "#eq:1 word",
			wantErr: true,
		},
		{
			name:    "empty class",
			input:   ".",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAttrBlock(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrAttrSyntax) {
					t.Fatalf("ParseAttrBlock(%q) error = %v, want ErrAttrSyntax", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAttrBlock(%q) unexpected error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseAttrBlock(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestAttr_SetReplacesExisting(t *testing.T) {
	t.Parallel()

	a := Attr{KeyVals: []KeyVal{{"tag", "1"}}}
	a.Set("tag", "2")
	a.Set("env", "align")

	want := []KeyVal{{"tag", "2"}, {"env", "align"}}
	if diff := cmp.Diff(want, a.KeyVals); diff != "" {
		t.Errorf("KeyVals mismatch (-want +got):\n%s", diff)
	}
	if v, ok := a.Get("env"); !ok || v != "align" {
		t.Errorf("Get(env) = %q, %v", v, ok)
	}
	if _, ok := a.Get("missing"); ok {
		t.Error("Get(missing) ok = true, want false")
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	in := []Inline{
		&Str{Text: "tag="},
		&Quoted{Type: DoubleQuote, Content: []Inline{&Str{Text: "a"}, &Space{}, &Str{Text: "b"}}},
		&SoftBreak{},
		&Quoted{Type: SingleQuote, Content: []Inline{&Str{Text: "c"}}},
		&GenericInline{Tag: "Emph", Content: []any{&Str{Text: "d"}}, HasContent: true},
	}
	if got, want := Stringify(in), `tag="a b" 'c'd`; got != want {
		t.Errorf("Stringify() = %q, want %q", got, want)
	}
}

func TestMetaText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  MetaValue
		want   string
		wantOK bool
	}{
		{"string", &MetaString{Text: "align"}, "align", true},
		{"inlines", &MetaInlines{Content: []Inline{&Str{Text: "Eq."}, &Space{}, &Str{Text: "no."}}}, "Eq. no.", true},
		{"blocks", &MetaBlocks{Content: []Block{&Plain{Content: []Inline{&Str{Text: "x"}}}}}, "x", true},
		{"bool", &MetaBool{Value: true}, "", false},
		{"list", &MetaList{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := MetaText(tt.value)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("MetaText() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
