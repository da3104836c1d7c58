// Package eqnos numbers equations and resolves references to them in
// pandoc documents. It runs as a pandoc JSON filter.
//
// # Quick Start
//
// Read a document from pandoc, process it for an output format and write
// it back:
//
//	f := eqnos.New()
//	if err := f.Process(ctx, os.Stdin, os.Stdout, "html5"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Markup
//
// An equation gets a label with an attribute block written right after the
// math:
//
//	$$ E = mc^2 $$ {#eq:energy}
//	$$ a^2 + b^2 = c^2 $$ {#eq:pythagoras tag="P"}
//
// References use citation syntax: @eq:energy, [@eq:energy; @eq:pythagoras],
// or {@eq:energy} when text follows immediately. A leading +, * or ! picks
// the mid-sentence name, the sentence-initial name or no name.
//
// # Processing
//
// Processing runs these stages in order:
//
//  1. Option snapshot from defaults and document metadata
//  2. Numbering: labels are checked, numbers or tags assigned, equations
//     rewritten for the output format
//  3. Repair of references broken by auto-linking
//  4. Resolution of references to numbers, names or LaTeX commands
//  5. Header includes (cleveref, section numbering, HTML style)
//
// # Configuration
//
// Options come from document metadata (eqnos-cleveref, xnos-number-by-section,
// eqnos-plus-name, ...). Defaults can be supplied with WithDefaults; the
// document's own metadata overrides them.
//
//	f := eqnos.New(
//	    eqnos.WithStderr(os.Stderr),
//	    eqnos.WithPandocVersion("3.1"),
//	)
package eqnos
