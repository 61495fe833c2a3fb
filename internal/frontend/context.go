// Package frontend wires the Preprocessor, Scanner, Parser, and Arena into
// the single "compile one file" entry point a caller actually drives.
package frontend

import (
	"context"
	"errors"

	"github.com/amykhaylyshyn/gta3sc/internal/ast"
	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/parser"
	"github.com/amykhaylyshyn/gta3sc/internal/preprocessor"
	"github.com/amykhaylyshyn/gta3sc/internal/scanner"
	"github.com/amykhaylyshyn/gta3sc/internal/source"
)

// ParseContext owns everything needed to parse one compilation unit: the
// SourceFile, the Arena the IR is allocated into, and a Reporter wrapped in
// a Counter so a batch driver can cap a run on accumulated diagnostics.
type ParseContext struct {
	File     *source.File
	Arena    *ast.Arena
	Reporter diag.Reporter
	Counter  *diag.Counter

	// MaxDiagnostics aborts Run once this many diagnostics have been
	// reported. Zero means unlimited.
	MaxDiagnostics int
}

// NewParseContext returns a ParseContext reading file, reporting through
// reporter (wrapped behind a Counter), capped at maxDiagnostics.
func NewParseContext(file *source.File, reporter diag.Reporter, maxDiagnostics int) *ParseContext {
	counter := &diag.Counter{Next: reporter}
	return &ParseContext{
		File:           file,
		Arena:          ast.NewArena(),
		Reporter:       counter,
		Counter:        counter,
		MaxDiagnostics: maxDiagnostics,
	}
}

// Run drives Preprocessor -> Scanner -> Parser to exhaustion, calling
// ParseStatement in a loop and flattening every resulting Sequence into one
// ordered slice. Per-statement failures are already reported by the parser
// itself; Run resynchronizes past them with SkipCurrentLine and continues.
// A *diag.FatalError aborts Run early, carrying whatever IR was produced up
// to that point.
func (c *ParseContext) Run(ctx context.Context) ([]*ast.Node, error) {
	pp := preprocessor.New(c.File, c.Reporter)
	sc := scanner.New(pp, c.Reporter)
	p := parser.New(sc, c.Arena, c.Reporter)

	var nodes []*ast.Node
	for {
		if err := ctx.Err(); err != nil {
			return nodes, err
		}
		if c.MaxDiagnostics > 0 && c.diagnosticCount() >= c.MaxDiagnostics {
			return nodes, nil
		}

		seq, err := p.ParseStatement()
		if err != nil {
			if errors.Is(err, parser.ErrEOF) {
				return nodes, nil
			}
			var fatal *diag.FatalError
			if errors.As(err, &fatal) {
				c.Reporter.Report(fatal.Diagnostic)
				return nodes, fatal
			}
			// parser.ErrFailed: already reported; resynchronize and keep
			// producing IR for the rest of the file.
			p.SkipCurrentLine()
			continue
		}
		nodes = append(nodes, seq...)
	}
}

func (c *ParseContext) diagnosticCount() int {
	return c.Counter.Warnings + c.Counter.Errors + c.Counter.Fatals
}
