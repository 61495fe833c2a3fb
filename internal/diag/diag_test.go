package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amykhaylyshyn/gta3sc/internal/source"
)

func TestCounterTally(t *testing.T) {
	c := &Counter{}
	c.Report(Diagnostic{Severity: Warning})
	c.Report(Diagnostic{Severity: Error})
	c.Report(Diagnostic{Severity: Error})
	c.Report(Diagnostic{Severity: Fatal})

	if c.Warnings != 1 || c.Errors != 2 || c.Fatals != 1 {
		t.Errorf("tally = %+v, want {1 2 1}", c)
	}
	if !c.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
}

func TestCounterForwards(t *testing.T) {
	var got []Diagnostic
	next := reporterFunc(func(d Diagnostic) { got = append(got, d) })
	c := &Counter{Next: next}
	c.Report(Diagnostic{Message: "x"})
	if len(got) != 1 || got[0].Message != "x" {
		t.Errorf("forwarded = %v, want one diagnostic with Message=x", got)
	}
}

func TestWriterReporterRendersCaret(t *testing.T) {
	f := source.New("test.sc", []byte("WAIT bogus\n"))
	var buf bytes.Buffer
	w := &WriterReporter{File: f, Out: &buf}

	w.Report(Diagnostic{Severity: Error, Kind: TokenError, Span: f.Span(5, 10), Message: "bad token"})

	out := buf.String()
	if !strings.Contains(out, "test.sc:1:6: error: bad token") {
		t.Errorf("output missing rendered header, got %q", out)
	}
	if !strings.Contains(out, "^^^^^") {
		t.Errorf("output missing caret underline, got %q", out)
	}
}

func TestFatalErrorMessage(t *testing.T) {
	err := &FatalError{Diagnostic: Diagnostic{Message: "unterminated block comment"}}
	if err.Error() != "fatal: unterminated block comment" {
		t.Errorf("Error() = %q", err.Error())
	}
}

type reporterFunc func(d Diagnostic)

func (f reporterFunc) Report(d Diagnostic) { f(d) }
