package pipeline

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/config"
	"github.com/alnah/go-eqnos/internal/format"
	"github.com/alnah/go-eqnos/internal/target"
)

// equation returns a paragraph holding display math followed by an
// attribute block, as pandoc parses $$body$$ {attrs}.
func equation(body, attrs string) *ast.Para {
	return &ast.Para{Content: []ast.Inline{
		&ast.Math{Type: ast.DisplayMath, Text: body},
		&ast.Space{},
		&ast.Str{Text: "{" + attrs + "}"},
	}}
}

func cite(ids ...string) *ast.Cite {
	c := &ast.Cite{}
	for _, id := range ids {
		c.Citations = append(c.Citations, ast.Citation{ID: id, Mode: ast.AuthorInText})
		c.Content = append(c.Content, &ast.Str{Text: "@" + id})
	}
	return c
}

func para(in ...ast.Inline) *ast.Para {
	return &ast.Para{Content: in}
}

func header(title string) *ast.Header {
	return &ast.Header{Level: 1, Content: []ast.Inline{&ast.Str{Text: title}}}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("placeholder-%d", n)
	}
}

// run applies the three passes in order.
func run(t *testing.T, s *State, blocks []ast.Block) []ast.Block {
	t.Helper()

	blocks, err := s.Number(blocks)
	if err != nil {
		t.Fatalf("Number() error = %v", err)
	}
	blocks, err = s.Repair(blocks)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	blocks, err = s.Resolve(blocks)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return blocks
}

func content(t *testing.T, b ast.Block) []ast.Inline {
	t.Helper()
	p, ok := b.(*ast.Para)
	if !ok {
		t.Fatalf("block is %T, want *ast.Para", b)
	}
	return p.Content
}

// diffAST compares trees; the walker turns nil sequences into empty ones.
func diffAST(want, got any) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

func displayMath(text string) *ast.Math {
	return &ast.Math{Type: ast.DisplayMath, Text: text}
}

// ---------------------------------------------------------------------------
// End-to-end scenarios
// ---------------------------------------------------------------------------

func TestPipeline_PlainNumbersAndReference(t *testing.T) {
	t.Parallel()

	s := NewState(format.Plain, nil)
	out := run(t, s, []ast.Block{
		equation("a", "#eq:1"),
		equation("b", "#eq:2"),
		para(&ast.Str{Text: "See"}, &ast.Space{}, cite("eq:1"), &ast.Str{Text: "."}),
	})

	if diff := diffAST([]ast.Inline{displayMath(`a\qquad (1)`)}, content(t, out[0])); diff != "" {
		t.Errorf("first equation mismatch (-want +got):\n%s", diff)
	}
	if diff := diffAST([]ast.Inline{displayMath(`b\qquad (2)`)}, content(t, out[1])); diff != "" {
		t.Errorf("second equation mismatch (-want +got):\n%s", diff)
	}
	if got := ast.Stringify(content(t, out[2])); got != "See 1." {
		t.Errorf("reference = %q, want %q", got, "See 1.")
	}
}

func TestPipeline_LaTeXTagUsesCrossReference(t *testing.T) {
	t.Parallel()

	s := NewState(format.LaTeX, nil)
	out := run(t, s, []ast.Block{
		equation("a", `#eq:a tag="★"`),
		para(cite("eq:a")),
	})

	wantEq := []ast.Inline{&ast.RawInline{Format: "tex", Text: `\begin{equation}a\tag{★}\label{eq:a}\end{equation}`}}
	if diff := diffAST(wantEq, content(t, out[0])); diff != "" {
		t.Errorf("equation mismatch (-want +got):\n%s", diff)
	}
	wantRef := []ast.Inline{&ast.RawInline{Format: "tex", Text: `\ref{eq:a}`}}
	if diff := diffAST(wantRef, content(t, out[1])); diff != "" {
		t.Errorf("reference mismatch (-want +got):\n%s", diff)
	}
	if got, _ := s.Table.Get("eq:a"); got.Value != target.TagValue("★") {
		t.Errorf("stored value = %+v, want tag ★", got.Value)
	}
}

func TestPipeline_SectionTagsWithOffset(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.NumberBySection = true
	cfg.SectionOffset = 5

	s := NewState(format.Plain, cfg)
	out := run(t, s, []ast.Block{
		header("One"), header("Two"), header("Three"),
		equation("x", "#eq:x"),
		equation("y", "#eq:y"),
		header("Four"),
		equation("z", "#eq:z"),
		para(cite("eq:y")),
	})

	tests := []struct {
		block int
		want  string
	}{
		{3, `x\qquad (\text{8.1})`},
		{4, `y\qquad (\text{8.2})`},
		{6, `z\qquad (\text{9.1})`},
	}
	for _, tt := range tests {
		if diff := diffAST([]ast.Inline{displayMath(tt.want)}, content(t, out[tt.block])); diff != "" {
			t.Errorf("block %d mismatch (-want +got):\n%s", tt.block, diff)
		}
	}
	if got := ast.Stringify(content(t, out[7])); got != "8.2" {
		t.Errorf("reference = %q, want 8.2", got)
	}
	if got, _ := s.Table.Get("eq:z"); got.Section != 4 {
		t.Errorf("eq:z section = %d, want 4", got.Section)
	}
}

func TestPipeline_LaTeXLeavesSectionNumberingToTypesetter(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.NumberBySection = true

	s := NewState(format.LaTeX, cfg)
	run(t, s, []ast.Block{
		header("One"), equation("a", "#eq:a"),
		header("Two"), equation("b", "#eq:b"),
	})

	if got, _ := s.Table.Get("eq:b"); got.Value != target.NumberValue(2) {
		t.Errorf("eq:b = %+v, want number 2 (no reset, no hard-coded tag)", got.Value)
	}
}

func TestPipeline_UnnumberedHeaderKeepsSection(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.NumberBySection = true

	unnumbered := header("Preface")
	unnumbered.Attr.Classes = []string{"unnumbered"}

	s := NewState(format.HTML, cfg)
	run(t, s, []ast.Block{
		header("One"), equation("a", "#eq:a"),
		unnumbered, equation("b", "#eq:b"),
	})

	if got, _ := s.Table.Get("eq:b"); got.Value != target.TagValue("1.2") {
		t.Errorf("eq:b = %+v, want tag 1.2", got.Value)
	}
}

// ---------------------------------------------------------------------------
// Counter policy for tagged equations
// ---------------------------------------------------------------------------

func TestPipeline_TaggedEquationsAndCounter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		consumes bool
		attrs    []string
		want     map[string]target.Value
	}{
		{
			name:  "tagged then numbered",
			attrs: []string{"#eq:t1 tag=A", "#eq:n1", "#eq:t2 tag='B'", "#eq:n2"},
			want: map[string]target.Value{
				"eq:t1": target.TagValue("A"), "eq:n1": target.NumberValue(1),
				"eq:t2": target.TagValue("B"), "eq:n2": target.NumberValue(2),
			},
		},
		{
			name:  "numbered then tagged",
			attrs: []string{"#eq:n1", `#eq:t1 tag="A"`, "#eq:n2"},
			want: map[string]target.Value{
				"eq:n1": target.NumberValue(1), "eq:t1": target.TagValue("A"), "eq:n2": target.NumberValue(2),
			},
		},
		{
			name:     "tagged then numbered, tags consume numbers",
			consumes: true,
			attrs:    []string{"#eq:t1 tag=A", "#eq:n1", "#eq:t2 tag=B", "#eq:n2"},
			want: map[string]target.Value{
				"eq:t1": target.TagValue("A"), "eq:n1": target.NumberValue(2),
				"eq:t2": target.TagValue("B"), "eq:n2": target.NumberValue(4),
			},
		},
		{
			name:     "numbered then tagged, tags consume numbers",
			consumes: true,
			attrs:    []string{"#eq:n1", "#eq:t1 tag=A", "#eq:n2"},
			want: map[string]target.Value{
				"eq:n1": target.NumberValue(1), "eq:t1": target.TagValue("A"), "eq:n2": target.NumberValue(3),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			cfg.TagConsumesNumber = tt.consumes

			var blocks []ast.Block
			for i, attrs := range tt.attrs {
				blocks = append(blocks, equation(fmt.Sprintf("e%d", i), attrs))
			}
			s := NewState(format.Plain, cfg)
			run(t, s, blocks)

			got := make(map[string]target.Value)
			for id := range tt.want {
				if tg, ok := s.Table.Get(id); ok {
					got[id] = tg.Value
				}
			}
			if s.Table.Len() != len(tt.want) {
				t.Errorf("table holds %d targets, want %d", s.Table.Len(), len(tt.want))
			}
			if diff := diffAST(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Labels
// ---------------------------------------------------------------------------

func TestPipeline_BarePrefixIsUnreferenceable(t *testing.T) {
	t.Parallel()

	s := NewState(format.HTML, nil, WithIDGenerator(sequentialIDs()))
	out := run(t, s, []ast.Block{
		equation("a", "#eq:"),
		equation("b", "#eq:b"),
		para(cite("eq:")),
	})

	var buf bytes.Buffer
	if err := ast.Encode(&buf, &ast.Document{APIVersion: []int{1, 23}, Blocks: out}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("placeholder-1")) {
		t.Errorf("placeholder identifier leaked into output:\n%s", buf.String())
	}

	tg, ok := s.Table.Get("eq:placeholder-1")
	if !ok || !tg.Unreferenceable || tg.Value != target.NumberValue(1) {
		t.Errorf("placeholder target = %+v, %v", tg, ok)
	}
	if got, _ := s.Table.Get("eq:b"); got.Value != target.NumberValue(2) {
		t.Errorf("eq:b = %+v, want 2", got.Value)
	}
	if diff := diffAST([]ast.Inline{cite("eq:")}, content(t, out[2])); diff != "" {
		t.Errorf("reference to eq: was rewritten (-want +got):\n%s", diff)
	}
}

func TestPipeline_MalformedAndMissingLabels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	s := NewState(format.Plain, nil, WithLogger(zap.New(core)))
	out := run(t, s, []ast.Block{
		equation("a", "#eq:a.b"),
		equation("b", ".wide"),
		equation("c", "#fig:c"),
		equation("d", "#eq:d"),
	})

	for i, body := range []string{"a", "b", "c"} {
		if diff := diffAST([]ast.Inline{displayMath(body)}, content(t, out[i])); diff != "" {
			t.Errorf("block %d should be plain math (-want +got):\n%s", i, diff)
		}
	}
	if got, _ := s.Table.Get("eq:d"); got.Value != target.NumberValue(1) {
		t.Errorf("eq:d = %+v, want 1", got.Value)
	}
	if n := logs.FilterMessageSnippet("malformed").Len(); n != 2 {
		t.Errorf("malformed label warnings = %d, want 2", n)
	}
}

func TestPipeline_DuplicateLabelFirstWins(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	s := NewState(format.HTML, nil, WithLogger(zap.New(core)))
	out := run(t, s, []ast.Block{
		equation("a", "#eq:x"),
		equation("b", "#eq:x"),
		para(cite("eq:x")),
	})

	if got, _ := s.Table.Get("eq:x"); got.Value != target.NumberValue(1) {
		t.Errorf("eq:x = %+v, want the first definition", got.Value)
	}
	second := content(t, out[1])[0].(*ast.RawInline)
	if second.Text != `<span class="eqnos">` {
		t.Errorf("duplicate equation outer span = %q, want no id", second.Text)
	}
	ref := content(t, out[2])[0].(*ast.Link)
	if ref.Target.URL != "#eq:x" || ast.Stringify(ref.Content) != "1" {
		t.Errorf("reference = %+v", ref)
	}
	if n := logs.FilterMessageSnippet("duplicate").Len(); n != 1 {
		t.Errorf("duplicate warnings = %d, want 1", n)
	}
}

func TestPipeline_EnvironmentAttribute(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.DefaultEnv = "align"

	s := NewState(format.LaTeX, cfg)
	out := run(t, s, []ast.Block{
		equation("a", "#eq:a"),
		equation("b", "#eq:b env=alignat.2"),
	})

	want := []string{
		`\begin{align}a\label{eq:a}\end{align}`,
		`\begin{alignat}{2}b\label{eq:b}\end{alignat}`,
	}
	for i, w := range want {
		raw := content(t, out[i])[0].(*ast.RawInline)
		if raw.Text != w {
			t.Errorf("equation %d = %q, want %q", i, raw.Text, w)
		}
	}
}

// ---------------------------------------------------------------------------
// Pass ordering
// ---------------------------------------------------------------------------

func TestState_PassOrder(t *testing.T) {
	t.Parallel()

	s := NewState(format.Plain, nil)
	if _, err := s.Resolve(nil); err != ErrNotNumbered {
		t.Errorf("Resolve() before Number error = %v, want ErrNotNumbered", err)
	}
	if _, err := s.Repair(nil); err != ErrNotNumbered {
		t.Errorf("Repair() before Number error = %v, want ErrNotNumbered", err)
	}
	if _, err := s.Number(nil); err != nil {
		t.Fatalf("Number() error = %v", err)
	}
	if _, err := s.Number(nil); err != ErrAlreadyNumbered {
		t.Errorf("second Number() error = %v, want ErrAlreadyNumbered", err)
	}
}

func TestPipeline_ForwardReference(t *testing.T) {
	t.Parallel()

	s := NewState(format.Plain, nil)
	out := run(t, s, []ast.Block{
		para(cite("eq:later")),
		equation("a", "#eq:later"),
	})
	if got := ast.Stringify(content(t, out[0])); got != "1" {
		t.Errorf("forward reference = %q, want 1", got)
	}
}

func TestPipeline_MathTagFromMarkdown(t *testing.T) {
	t.Parallel()

	// {#eq:a tag="$\alpha$"} as pandoc's reader delivers it with smart
	// quotes on, and $\beta$ unquoted with smart quotes off.
	blocks := []ast.Block{
		para(
			displayMath("E=mc^2"), &ast.Space{},
			&ast.Str{Text: "{#eq:a"}, &ast.Space{}, &ast.Str{Text: "tag="},
			&ast.Quoted{Type: ast.DoubleQuote, Content: []ast.Inline{&ast.Math{Type: ast.InlineMath, Text: `\alpha`}}},
			&ast.Str{Text: "}"},
		),
		para(
			displayMath("F=ma"), &ast.Space{},
			&ast.Str{Text: "{#eq:b"}, &ast.Space{}, &ast.Str{Text: "tag="},
			&ast.Math{Type: ast.InlineMath, Text: `\beta`},
			&ast.Str{Text: "}"},
		),
		para(cite("eq:a"), &ast.Space{}, cite("eq:b")),
	}

	s := NewState(format.HTML5, nil)
	out := run(t, s, blocks)

	for i, tc := range []struct{ id, body string }{{"eq:a", `\alpha`}, {"eq:b", `\beta`}} {
		got, ok := s.Table.Get(tc.id)
		if !ok || !got.Value.IsMath() || got.Value.MathBody() != tc.body {
			t.Errorf("%s stored value = %+v, want math tag %s", tc.id, got.Value, tc.body)
		}
		number := content(t, out[i])[3]
		want := &ast.Math{Type: ast.InlineMath, Text: "(" + tc.body + ")"}
		if diff := diffAST(want, number); diff != "" {
			t.Errorf("%s number mismatch (-want +got):\n%s", tc.id, diff)
		}
	}

	wantRefs := []ast.Inline{
		&ast.Link{Content: []ast.Inline{&ast.Math{Type: ast.InlineMath, Text: `\alpha`}}, Target: ast.LinkTarget{URL: "#eq:a"}},
		&ast.Space{},
		&ast.Link{Content: []ast.Inline{&ast.Math{Type: ast.InlineMath, Text: `\beta`}}, Target: ast.LinkTarget{URL: "#eq:b"}},
	}
	if diff := diffAST(wantRefs, content(t, out[2])); diff != "" {
		t.Errorf("references mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_LabelWithInternalPunctuation(t *testing.T) {
	t.Parallel()

	s := NewState(format.Plain, nil)
	out := run(t, s, []ast.Block{
		equation("a", "#eq:einstein.1"),
		para(&ast.Str{Text: "See"}, &ast.Space{}, cite("eq:einstein.1"), &ast.Str{Text: "."}),
		para(&ast.Str{Text: "and"}, &ast.Space{}, brokenLink("{@eq"), &ast.Str{Text: ":einstein.1}."}),
	})

	if diff := diffAST([]ast.Inline{displayMath(`a\qquad (1)`)}, content(t, out[0])); diff != "" {
		t.Errorf("equation mismatch (-want +got):\n%s", diff)
	}
	if got := ast.Stringify(content(t, out[1])); got != "See 1." {
		t.Errorf("reference = %q, want %q", got, "See 1.")
	}
	if got := ast.Stringify(content(t, out[2])); got != "and 1." {
		t.Errorf("split braced reference = %q, want %q", got, "and 1.")
	}
}
