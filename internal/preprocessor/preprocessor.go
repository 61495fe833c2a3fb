// Package preprocessor turns a source.File into a stream of logical lines:
// comments stripped, trailing '\r' dropped, leading/trailing space trimmed.
// It is the leaf-most stage that understands comment syntax; everything
// downstream only ever sees already-cleaned text.
package preprocessor

import (
	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/source"
)

// Preprocessor yields one logical line per call to NextLine. It holds only
// the minimal state needed to resume at the next physical line: the byte
// cursor and whether a block comment opened on an earlier line is still
// open.
type Preprocessor struct {
	file     *source.File
	reporter diag.Reporter

	pos int // offset of the next unread byte

	inBlockComment bool
	commentOpenAt  source.Span // span of the currently open "/*", for the unterminated-comment diagnostic

	fatal bool
}

// New returns a Preprocessor reading from the start of file. Diagnostics
// for unterminated block comments are sent to reporter.
func New(file *source.File, reporter diag.Reporter) *Preprocessor {
	return &Preprocessor{file: file, reporter: reporter}
}

// Fatal reports whether the stream ended early because of an unrecoverable
// error (currently: an unterminated block comment).
func (p *Preprocessor) Fatal() bool { return p.fatal }

// NextLine returns the next logical line, or ok=false once the file is
// exhausted (or a fatal preprocessing error was hit). Comments strip bytes
// out of the middle of a physical line, so text is not a contiguous slice
// of the source; offsets records, for every byte of text plus one trailing
// sentinel, the absolute source.File offset that byte came from. A caller
// building a span over text[begin:end] should use offsets[begin] as Begin
// and offsets[end] as End, never the line's raw start offset directly.
func (p *Preprocessor) NextLine() (text string, offsets []int, ok bool) {
	if p.fatal {
		return "", nil, false
	}
	if p.pos >= p.file.Size() {
		// A block comment opened on an earlier, newline-terminated line and
		// never closed doesn't trip the no-trailing-newline check below on
		// the line it was opened on; catch it here once there is no more
		// source left to find the closing "*/" in.
		if p.inBlockComment {
			p.fatal = true
			if p.reporter != nil {
				p.reporter.Report(diag.Diagnostic{
					Severity: diag.Fatal,
					Kind:     diag.LexicalError,
					Span:     p.commentOpenAt,
					Message:  "unterminated block comment",
				})
			}
		}
		return "", nil, false
	}

	rawStart := p.pos
	i := p.pos
	size := p.file.Size()
	for i < size && p.file.Byte(i) != '\n' {
		i++
	}
	hasNL := i < size
	rawEnd := i // exclusive of '\n'

	lineEnd := rawEnd
	if lineEnd > rawStart && p.file.Byte(lineEnd-1) == '\r' {
		lineEnd--
	}

	var out []byte
	var offs []int
	inString := false
	afterComment := false // a block comment just closed and no non-space byte has followed it yet
	j := rawStart
	for j < lineEnd {
		if p.inBlockComment {
			if p.file.Byte(j) == '*' && j+1 < lineEnd && p.file.Byte(j+1) == '/' {
				p.inBlockComment = false
				afterComment = true
				j += 2
				continue
			}
			j++
			continue
		}

		b := p.file.Byte(j)

		if inString {
			out = append(out, b)
			offs = append(offs, j)
			if b == '"' {
				inString = false
			}
			j++
			continue
		}

		switch {
		case b == '"':
			inString = true
			afterComment = false
			out = append(out, b)
			offs = append(offs, j)
			j++
		case b == '/' && j+1 < lineEnd && p.file.Byte(j+1) == '/':
			j = lineEnd // rest of the physical line is a line comment
		case b == '/' && j+1 < lineEnd && p.file.Byte(j+1) == '*':
			p.inBlockComment = true
			p.commentOpenAt = p.file.Span(j, j+2)
			j += 2
		default:
			// A comment elides to nothing, not to the whitespace bracketing
			// it: whitespace that follows a removed block comment is
			// dropped when whitespace already precedes the comment, so
			// "a /* x */ b" reads as "a b", not "a  b". Whitespace with no
			// comment inside it is kept verbatim.
			if isSpaceByte(b) && afterComment && len(out) > 0 && isSpaceByte(out[len(out)-1]) {
				j++
				continue
			}
			if !isSpaceByte(b) {
				afterComment = false
			}
			out = append(out, b)
			offs = append(offs, j)
			j++
		}
	}

	if hasNL {
		p.pos = rawEnd + 1
	} else {
		p.pos = rawEnd
	}

	if !hasNL && p.inBlockComment {
		p.fatal = true
		if p.reporter != nil {
			p.reporter.Report(diag.Diagnostic{
				Severity: diag.Fatal,
				Kind:     diag.LexicalError,
				Span:     p.commentOpenAt,
				Message:  "unterminated block comment",
			})
		}
		return "", nil, false
	}

	lo, hi := 0, len(out)
	for lo < hi && isSpaceByte(out[lo]) {
		lo++
	}
	for hi > lo && isSpaceByte(out[hi-1]) {
		hi--
	}
	out, offs = out[lo:hi], offs[lo:hi]

	// One trailing sentinel offset for the position just past the last kept
	// byte, so a caller addressing text[begin:end] with end == len(text)
	// still has an offsets[end] to read.
	end := lineEnd
	if len(offs) > 0 {
		end = offs[len(offs)-1] + 1
	}
	offs = append(offs, end)

	return string(out), offs, true
}

func isSpaceByte(b byte) bool { return b == ' ' || b == '\t' }
