// Package scanner tokenizes one logical line at a time, pulling lines from
// a preprocessor.Preprocessor on demand. It never looks ahead across a
// line boundary: AdvanceLine must be called explicitly to move on.
package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/preprocessor"
	"github.com/amykhaylyshyn/gta3sc/internal/source"
	"github.com/amykhaylyshyn/gta3sc/internal/token"
)

// operators is the fixed multi-character operator lexeme set, longest
// lexemes first so a greedy scan is also the longest match.
var operators = []string{
	"+=@", "-=@",
	"+@", "-@", "+=", "-=", "*=", "/=", "=#", "<=", ">=", "++", "--",
	"=", "<", ">", "+", "-", "*", "/",
}

// Scanner turns the preprocessor's logical lines into Tokens.
type Scanner struct {
	pp       *preprocessor.Preprocessor
	reporter diag.Reporter

	line        string
	lineOffsets []int // absolute source offset of each byte of line, plus one trailing sentinel
	pos         int   // byte offset within line
	atEOF       bool

	peeked     *token.Token
	eolEmitted bool
}

// New returns a Scanner reading from pp. The caller must call AdvanceLine
// once before the first NextToken/PeekToken call to load the first line.
func New(pp *preprocessor.Preprocessor, reporter diag.Reporter) *Scanner {
	return &Scanner{pp: pp, reporter: reporter}
}

// AdvanceLine discards any unread tokens on the current line and pulls the
// next logical line from the preprocessor. It returns false once the
// source is exhausted.
func (s *Scanner) AdvanceLine() bool {
	s.peeked = nil
	s.eolEmitted = false
	text, offsets, ok := s.pp.NextLine()
	if !ok {
		s.atEOF = true
		s.line = ""
		s.lineOffsets = nil
		return false
	}
	s.line = text
	s.lineOffsets = offsets
	s.pos = 0
	return true
}

// AtEOF reports whether the underlying preprocessor has no more lines.
func (s *Scanner) AtEOF() bool { return s.atEOF }

// LineSpan returns the span of the current logical line, for statement
// level diagnostics that have no narrower span available.
func (s *Scanner) LineSpan() source.Span {
	if s.lineOffsets == nil {
		return source.Span{}
	}
	return s.absSpan(0, len(s.line))
}

// PeekToken returns the next token without consuming it.
func (s *Scanner) PeekToken() token.Token {
	if s.peeked == nil {
		t := s.scan()
		s.peeked = &t
	}
	return *s.peeked
}

// NextToken consumes and returns the next token of the current line.
func (s *Scanner) NextToken() token.Token {
	if s.peeked != nil {
		t := *s.peeked
		s.peeked = nil
		return t
	}
	return s.scan()
}

func (s *Scanner) report(kind diag.Kind, span source.Span, msg string) {
	if s.reporter != nil {
		s.reporter.Report(diag.Diagnostic{Severity: diag.Error, Kind: kind, Span: span, Message: msg})
	}
}

func (s *Scanner) skipSpaces() {
	for s.pos < len(s.line) && (s.line[s.pos] == ' ' || s.line[s.pos] == '\t') {
		s.pos++
	}
}

// absSpan translates a [begin,end) range of byte offsets into s.line into
// the corresponding absolute source.Span, via the per-byte offset mapping
// the preprocessor provides. Comments strip bytes out of the middle of a
// physical line, so this is not simple addition against a line-start
// offset: s.lineOffsets[i] is the real source.File offset of s.line[i],
// with one trailing sentinel entry at lineOffsets[len(s.line)].
func (s *Scanner) absSpan(begin, end int) source.Span {
	return source.Span{Begin: s.lineOffsets[begin], End: s.lineOffsets[end]}
}

// scan produces the single next token, performing the actual lexical
// analysis. It assumes peeked is nil.
func (s *Scanner) scan() token.Token {
	s.skipSpaces()

	if s.pos >= len(s.line) {
		if s.eolEmitted {
			// Calling NextToken again past Eol just keeps returning Eol;
			// callers are expected to call AdvanceLine instead.
			return token.Token{Category: token.Eol, Span: s.absSpan(s.pos, s.pos)}
		}
		s.eolEmitted = true
		return token.Token{Category: token.Eol, Span: s.absSpan(s.pos, s.pos)}
	}

	start := s.pos
	c := s.line[s.pos]

	switch {
	case c == '"':
		return s.scanString()

	case c == '{' || c == '}':
		s.pos++
		return token.Token{Category: token.Word, Payload: string(c), Span: s.absSpan(start, s.pos)}

	case c == '-' && s.pos+1 < len(s.line) && isDigit(s.line[s.pos+1]):
		return s.scanWord()

	case c == '.' && s.pos+1 < len(s.line) && isDigit(s.line[s.pos+1]):
		// The '.' D+ float form, e.g. ".5".
		return s.scanWord()

	case c == '+' && s.pos+1 < len(s.line) && isDigit(s.line[s.pos+1]):
		// The grammar's Integer/Float rules only allow a leading '-', never
		// a leading '+'; "+39" is a malformed literal, not operator-plus-int.
		s.pos++ // the '+' itself is not a word character
		for s.pos < len(s.line) && isWordCont(s.line[s.pos]) {
			s.pos++
		}
		sp := s.absSpan(start, s.pos)
		s.report(diag.LexicalError, sp, fmt.Sprintf("invalid numeric literal %q: a numeric literal may not begin with '+'", s.line[start:s.pos]))
		return token.Token{Category: token.Invalid, Payload: s.line[start:s.pos], Span: sp}

	case isOperatorStart(c):
		return s.scanOperator()

	case isWordStart(c):
		return s.scanWord()

	default:
		s.pos++
		sp := s.absSpan(start, s.pos)
		s.report(diag.LexicalError, sp, fmt.Sprintf("unexpected character %q", c))
		return token.Token{Category: token.Invalid, Payload: string(c), Span: sp}
	}
}

func (s *Scanner) scanString() token.Token {
	start := s.pos
	s.pos++ // opening quote
	contentStart := s.pos
	for s.pos < len(s.line) && s.line[s.pos] != '"' {
		s.pos++
	}
	if s.pos >= len(s.line) {
		sp := s.absSpan(start, s.pos)
		s.report(diag.LexicalError, sp, "unterminated string literal")
		return token.Token{Category: token.Invalid, Payload: s.line[contentStart:s.pos], Span: sp}
	}
	content := s.line[contentStart:s.pos]
	s.pos++ // closing quote
	return token.Token{Category: token.StringLiteral, Payload: content, Span: s.absSpan(start, s.pos)}
}

func (s *Scanner) scanOperator() token.Token {
	start := s.pos
	rest := s.line[s.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			s.pos += len(op)
			return token.Token{Category: token.Operator, Payload: op, Span: s.absSpan(start, s.pos)}
		}
	}
	// Unreachable given the callers' guard, but fail safe rather than loop.
	s.pos++
	sp := s.absSpan(start, s.pos)
	s.report(diag.LexicalError, sp, fmt.Sprintf("unrecognized operator starting with %q", rest[:1]))
	return token.Token{Category: token.Invalid, Payload: rest[:1], Span: sp}
}

func (s *Scanner) scanWord() token.Token {
	start := s.pos
	if s.line[s.pos] == '-' {
		s.pos++
	}
	for s.pos < len(s.line) && isWordCont(s.line[s.pos]) {
		s.pos++
	}
	// A '-' trailing a digit run and glued to nothing after it is never
	// part of the number: "1-" on its own means nothing. Back off one byte
	// so it is rescanned as a standalone '-' operator, which is what lets
	// "x = 1- -1" resolve as y=1, op=-, z=-1 instead of swallowing the
	// operator into a bogus word "1-".
	if s.pos-1 > start && s.line[s.pos-1] == '-' && isDigit(s.line[s.pos-2]) {
		s.pos--
	}
	lexeme := strings.ToUpper(s.line[start:s.pos])
	span := s.absSpan(start, s.pos)

	if cat, ok := classifyNumber(lexeme); ok {
		return token.Token{Category: cat, Payload: lexeme, Span: span}
	}
	return token.Token{Category: token.Word, Payload: lexeme, Span: span}
}

// classifyNumber reports whether lexeme matches the Integer or Float
// grammar verbatim, leaving any other lexeme (including malformed numeric
// look-alikes such as "0X10") to be classified as a Word and rejected, if
// appropriate, by the parser.
func classifyNumber(lexeme string) (token.Category, bool) {
	body := lexeme
	if strings.HasPrefix(body, "-") {
		body = body[1:]
	}
	if body == "" {
		return token.Invalid, false
	}

	if isAllDigits(body) {
		return token.Integer, true
	}

	// Float forms: D+ '.' D* 'F'?  |  D+ 'F'  |  '.' D+ 'F'?
	f := body
	f = strings.TrimSuffix(f, "F")
	switch {
	case strings.Contains(f, "."):
		dot := strings.IndexByte(f, '.')
		whole, frac := f[:dot], f[dot+1:]
		// A dangling extra '.' in the fractional part is tolerated, e.g.
		// "1.." and "1." both mean 1.0.
		frac = strings.TrimRight(frac, ".")
		if whole == "" && frac != "" && isAllDigits(frac) {
			return token.Float, true // ".5"
		}
		if whole != "" && isAllDigits(whole) && (frac == "" || isAllDigits(frac)) {
			return token.Float, true // "1.", "1.5", "1.."
		}
	case f != body && isAllDigits(f):
		// body had a trailing 'F' stripped and the rest is all digits: "10F"
		return token.Float, true
	}
	return token.Invalid, false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isOperatorStart(b byte) bool {
	switch b {
	case '=', '+', '-', '*', '/', '<', '>':
		return true
	default:
		return false
	}
}

func isWordStart(b byte) bool {
	return isLetter(b) || isDigit(b) || b == '$' || b == '@' || b == '_' || b == '-'
}

func isWordCont(b byte) bool {
	return isLetter(b) || isDigit(b) || b == '$' || b == '@' || b == '_' || b == ':' || b == '.' || b == '-'
}

// ParseInt32 parses a canonical Integer payload into an int32 and returns
// an error for a value outside the signed 32-bit range; it reports no
// diagnostic itself. It is exported for the parser to reuse when building
// Argument values.
func ParseInt32(payload string) (int32, error) {
	v, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return 0, err
	}
	if v > 2147483647 || v < -2147483648 {
		return 0, fmt.Errorf("integer literal %s out of signed 32-bit range", payload)
	}
	return int32(v), nil
}

// ParseFloat32 parses a canonical Float payload (already upper-cased, with
// an optional trailing 'F') into a float32.
func ParseFloat32(payload string) (float32, error) {
	s := strings.TrimSuffix(payload, "F")
	if strings.HasSuffix(s, ".") {
		// A dangling extra '.' is tolerated by classifyNumber ("1.." means
		// 1.0 same as "1."), so collapse every trailing dot before adding
		// back the single fractional zero strconv needs.
		s = strings.TrimRight(s, ".") + ".0"
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}
