package preprocessor

import (
	"testing"

	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/source"
)

func lines(t *testing.T, src string) []string {
	t.Helper()
	f := source.New("t.sc", []byte(src))
	p := New(f, nil)
	var out []string
	for {
		text, _, ok := p.NextLine()
		if !ok {
			break
		}
		out = append(out, text)
	}
	return out
}

func TestLineComment(t *testing.T) {
	got := lines(t, "WAIT 0 // stop here\nGOTO x\n")
	want := []string{"WAIT 0", "GOTO x"}
	assertLines(t, got, want)
}

func TestBlockCommentSpansLines(t *testing.T) {
	got := lines(t, "WAIT 0 /* comment\nspanning lines */ GOTO x\n")
	want := []string{"WAIT 0", "GOTO x"}
	assertLines(t, got, want)
}

func TestStringLiteralHidesCommentStarts(t *testing.T) {
	got := lines(t, `PRINT_HELP "// not a comment"` + "\n")
	want := []string{`PRINT_HELP "// not a comment"`}
	assertLines(t, got, want)
}

func TestTrimsLeadingTrailingSpace(t *testing.T) {
	got := lines(t, "   WAIT 0   \n")
	want := []string{"WAIT 0"}
	assertLines(t, got, want)
}

// TestOffsetsMapToActualSourceBytes guards the invariant every token span
// downstream depends on: offsets[i] must name the source.File byte that
// text[i] actually came from, even when leading whitespace or an inline
// comment sits between them.
func TestOffsetsMapToActualSourceBytes(t *testing.T) {
	src := "WAIT 0 /* c */ GOTO x\n"
	f := source.New("t.sc", []byte(src))
	p := New(f, nil)

	text, offsets, ok := p.NextLine()
	if !ok {
		t.Fatal("NextLine failed")
	}
	if want := "WAIT 0 GOTO x"; text != want {
		t.Fatalf("text = %q, want %q", text, want)
	}
	if len(offsets) != len(text)+1 {
		t.Fatalf("len(offsets) = %d, want %d", len(offsets), len(text)+1)
	}
	for i, off := range offsets[:len(text)] {
		if got := f.Slice(f.Span(off, off+1))[0]; got != text[i] {
			t.Errorf("offsets[%d] = %d points at %q in the source, want %q", i, off, got, text[i])
		}
	}
}

func TestOffsetsSkipLeadingWhitespace(t *testing.T) {
	src := "   WAIT 0\n"
	f := source.New("t.sc", []byte(src))
	p := New(f, nil)

	text, offsets, ok := p.NextLine()
	if !ok {
		t.Fatal("NextLine failed")
	}
	if offsets[0] != 3 {
		t.Errorf("offsets[0] = %d, want 3 (first non-space byte)", offsets[0])
	}
	if f.Slice(f.Span(offsets[0], offsets[0]+1))[0] != text[0] {
		t.Error("offsets[0] does not point at text[0] in the source")
	}
}

func TestUnterminatedBlockCommentIsFatal(t *testing.T) {
	f := source.New("t.sc", []byte("WAIT 0 /* never closed\n"))
	var reported []string
	p := New(f, reporterFunc(func(d diag.Diagnostic) { reported = append(reported, d.Message) }))

	_, _, ok := p.NextLine()
	if !ok {
		t.Fatal("first NextLine should still yield the line before the comment closes")
	}
	_, _, ok = p.NextLine()
	if ok {
		t.Fatal("NextLine should report EOF once the stream hits an unterminated block comment")
	}
	if !p.Fatal() {
		t.Error("Fatal() = false, want true")
	}
	if len(reported) != 1 {
		t.Errorf("expected exactly one diagnostic, got %d", len(reported))
	}
}

// TestUnterminatedBlockCommentWithNoTrailingNewline guards the sibling
// path to TestUnterminatedBlockCommentIsFatal: a file whose very last
// byte opens the comment and never supplies a trailing '\n' at all must
// still be caught fatal on the first call, not just once a later call
// finds the file exhausted.
func TestUnterminatedBlockCommentWithNoTrailingNewline(t *testing.T) {
	f := source.New("t.sc", []byte("WAIT 0 /* never closed"))
	var reported []string
	p := New(f, reporterFunc(func(d diag.Diagnostic) { reported = append(reported, d.Message) }))

	_, _, ok := p.NextLine()
	if ok {
		t.Fatal("NextLine should report EOF on the same call that hits the unterminated comment")
	}
	if !p.Fatal() {
		t.Error("Fatal() = false, want true")
	}
	if len(reported) != 1 {
		t.Errorf("expected exactly one diagnostic, got %d", len(reported))
	}
}

// TestCommentElisionCollapsesSurroundingWhitespace guards against a comment
// eliding to a double space instead of the single separator the
// surrounding whitespace collapses to.
func TestCommentElisionCollapsesSurroundingWhitespace(t *testing.T) {
	got := lines(t, "WAIT 0 /* c */ GOTO x\n")
	want := []string{"WAIT 0 GOTO x"}
	assertLines(t, got, want)
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d lines %v, want %d lines %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

type reporterFunc func(d diag.Diagnostic)

func (f reporterFunc) Report(d diag.Diagnostic) { f(d) }
