package frontend

import (
	"context"
	"testing"

	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/source"
)

type recordingReporter struct {
	diags []diag.Diagnostic
}

func (r *recordingReporter) Report(d diag.Diagnostic) { r.diags = append(r.diags, d) }

func TestRunProducesIR(t *testing.T) {
	file := source.New("t.sc", []byte("WAIT 0\nx = y + z\n"))
	reporter := &recordingReporter{}
	pc := NewParseContext(file, reporter, 0)

	nodes, err := pc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("nodes = %d, want 3 (WAIT, SET, ADD_THING_TO_THING)", len(nodes))
	}
	if pc.Counter.Errors != 0 {
		t.Errorf("unexpected errors: %+v", reporter.diags)
	}
}

func TestRunStopsOnFatal(t *testing.T) {
	file := source.New("t.sc", []byte("IF x = y\n  WAIT 0\n"))
	reporter := &recordingReporter{}
	pc := NewParseContext(file, reporter, 0)

	_, err := pc.Run(context.Background())
	var fatal *diag.FatalError
	if err == nil {
		t.Fatal("expected a fatal error for a missing ENDIF")
	}
	_ = fatal
	if pc.Counter.Fatals == 0 {
		t.Error("expected the fatal diagnostic to be counted")
	}
}

func TestRunRespectsMaxDiagnostics(t *testing.T) {
	file := source.New("t.sc", []byte("SET_VAR IF\nSET_VAR IF\nSET_VAR IF\n"))
	reporter := &recordingReporter{}
	pc := NewParseContext(file, reporter, 1)

	_, err := pc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pc.Counter.Errors+pc.Counter.Warnings+pc.Counter.Fatals > 1 {
		t.Errorf("diagnostic cap not respected: %d", pc.Counter.Errors)
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	file := source.New("t.sc", []byte("WAIT 0\nWAIT 0\n"))
	reporter := &recordingReporter{}
	pc := NewParseContext(file, reporter, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pc.Run(ctx)
	if err == nil {
		t.Fatal("expected a context-cancellation error")
	}
}
