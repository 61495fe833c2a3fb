// Package parser recognizes one logical line at a time as a statement,
// lowers syntactic sugar (operators, block headers, one-line conditional
// gotos) into command form, and links the result into an ast.Sequence
// rooted in the caller's ast.Arena.
package parser

import (
	"errors"
	"strings"

	"github.com/amykhaylyshyn/gta3sc/internal/ast"
	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/scanner"
	"github.com/amykhaylyshyn/gta3sc/internal/source"
	"github.com/amykhaylyshyn/gta3sc/internal/token"
)

// ErrEOF is returned by ParseStatement once the scanner has no more
// logical lines to offer. It is not a parse failure.
var ErrEOF = errors.New("parser: end of input")

// ErrFailed is the per-statement failure indication. The caller should
// call SkipCurrentLine (optional — ParseStatement resynchronizes on its
// own on the next call regardless) and keep driving the loop.
var ErrFailed = errors.New("parser: statement parse failed")

type blockKind int

const (
	blockBrace blockKind = iota
	blockIf
	blockWhile
	blockRepeat
)

type blockFrame struct {
	kind     blockKind
	elseSeen bool
}

// Parser recognizes statements from sc and allocates their IR into arena,
// reporting diagnostics to reporter. It holds the block-nesting stack; it
// is not safe for concurrent use.
type Parser struct {
	sc       *scanner.Scanner
	arena    *ast.Arena
	reporter diag.Reporter

	blocks     []blockFrame
	lineLoaded bool
}

// New returns a Parser reading tokens from sc, allocating into arena, and
// reporting through reporter.
func New(sc *scanner.Scanner, arena *ast.Arena, reporter diag.Reporter) *Parser {
	return &Parser{sc: sc, arena: arena, reporter: reporter}
}

// SkipCurrentLine discards whatever remains of the current line and loads
// the next one. Calling it is optional: ParseStatement resynchronizes to a
// fresh line on its own at the start of its next call either way.
func (p *Parser) SkipCurrentLine() bool {
	ok := p.sc.AdvanceLine()
	p.lineLoaded = ok
	return ok
}

func (p *Parser) report(severity diag.Severity, kind diag.Kind, span source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(diag.Diagnostic{Severity: severity, Kind: kind, Span: span, Message: msg})
	}
}

func (p *Parser) errorf(kind diag.Kind, span source.Span, msg string) {
	p.report(diag.Error, kind, span, msg)
}

// ParseStatement produces the next IR sequence: a non-empty Sequence on a
// successful statement, an empty Sequence for a blank line, ErrEOF once
// input is exhausted, ErrFailed for an ordinary per-statement failure, or
// a *diag.FatalError for a condition that aborts the whole file (a block
// left open at EOF).
func (p *Parser) ParseStatement() (ast.Sequence, error) {
	if !p.lineLoaded {
		if !p.sc.AdvanceLine() {
			return nil, ErrEOF
		}
		p.lineLoaded = true
	}
	seq, err := p.parseCurrentLine()
	p.lineLoaded = false
	return seq, err
}

// parseCurrentLine dispatches on the current line's leading tokens. A
// line is already loaded in p.sc when this is called.
func (p *Parser) parseCurrentLine() (ast.Sequence, error) {
	var label *ast.Label

	if t := p.sc.PeekToken(); t.Category == token.Word && strings.HasSuffix(t.Payload, ":") {
		p.sc.NextToken()
		name := strings.TrimSuffix(t.Payload, ":")
		label = p.arena.NewLabel(name, t.Span)
	}

	next := p.sc.PeekToken()

	if next.Category == token.Eol {
		p.sc.NextToken()
		if label == nil {
			return nil, nil // blank line
		}
		node := p.arena.NewNode(label, nil, label.Span)
		return ast.Sequence{node}, nil
	}

	switch {
	case next.IsWord("{"):
		return p.parseBraceOpen(label)
	case next.IsWord("}"):
		return p.parseBraceClose(label)
	case next.IsWord("IF"), next.IsWord("IFNOT"):
		return p.parseIfBlock(label, next.Payload)
	case next.IsWord("WHILE"), next.IsWord("WHILENOT"):
		return p.parseWhileBlock(label, next.Payload)
	case next.IsWord("REPEAT"):
		return p.parseRepeatBlock(label)
	case next.IsWord("ENDIF"), next.IsWord("ELSE"), next.IsWord("ENDWHILE"), next.IsWord("ENDREPEAT"):
		return p.parseCloser(label, next.Payload)
	case next.IsWord("AND"), next.IsWord("OR"):
		p.errorf(diag.ConditionError, next.Span, next.Payload+" is only legal as a condition-chain continuation")
		return nil, ErrFailed
	}

	if next.Category == token.Operator && (next.Payload == "++" || next.Payload == "--") {
		return p.parsePrefixIncDec(label)
	}

	return p.parseWordStatement(label)
}

// parseCommandFrom handles statement form 8 (WORD args...) for a command
// name token already consumed by the caller. It also rejects a bare
// reserved word used as a command name, since none of them name a real
// opcode.
func (p *Parser) parseCommandFrom(label *ast.Label, nameTok token.Token) (ast.Sequence, error) {
	if nameTok.Category != token.Word {
		p.errorf(diag.TokenError, nameTok.Span, "expected a command name")
		return nil, ErrFailed
	}
	if reservedCommandNames[nameTok.Payload] {
		p.errorf(diag.TokenError, nameTok.Span, nameTok.Payload+" is a reserved word and may not be used as a command name")
		return nil, ErrFailed
	}
	if looksLikeMalformedNumber(nameTok.Payload) {
		p.errorf(diag.LexicalError, nameTok.Span, "invalid numeric literal "+nameTok.Payload)
		return nil, ErrFailed
	}

	args, span, err := p.parseArgs(nameTok)
	if err != nil {
		return nil, err
	}
	cmd := p.arena.NewCommand(nameTok.Payload, args, false, span)
	node := p.arena.NewNode(label, cmd, span)
	return ast.Sequence{node}, nil
}

// parseArgs consumes tokens up to Eol as a flat argument list, applying
// the filename-argument rule for the commands that take one.
func (p *Parser) parseArgs(nameTok token.Token) ([]ast.Argument, source.Span, error) {
	span := nameTok.Span
	var args []ast.Argument

	filenameArg := -1
	switch nameTok.Payload {
	case "LAUNCH_MISSION", "LOAD_AND_LAUNCH_MISSION":
		filenameArg = 0
	case "GOSUB_FILE":
		filenameArg = 1
	}

	for i := 0; ; i++ {
		t := p.sc.PeekToken()
		if t.Category == token.Eol {
			break
		}
		p.sc.NextToken()
		span = span.Join(t.Span)

		arg, ok := p.tokenToArgument(t, i == filenameArg)
		if !ok {
			return nil, span, ErrFailed
		}
		args = append(args, arg)
	}
	p.sc.NextToken() // consume Eol
	return args, span, nil
}

// tokenToArgument converts a scanner token into an Argument, validating
// identifiers and, when wantFilename is set, the filename suffix rule.
func (p *Parser) tokenToArgument(t token.Token, wantFilename bool) (ast.Argument, bool) {
	switch t.Category {
	case token.Integer:
		v, err := scanner.ParseInt32(t.Payload)
		if err != nil {
			p.errorf(diag.LexicalError, t.Span, err.Error())
			return ast.Argument{}, false
		}
		return ast.Argument{Kind: ast.Integer, Int: v, Span: t.Span}, true
	case token.Float:
		v, err := scanner.ParseFloat32(t.Payload)
		if err != nil {
			p.errorf(diag.LexicalError, t.Span, err.Error())
			return ast.Argument{}, false
		}
		return ast.Argument{Kind: ast.Float, Float: v, Span: t.Span}, true
	case token.StringLiteral:
		if wantFilename {
			p.errorf(diag.TokenError, t.Span, "filename argument must not be a quoted string")
			return ast.Argument{}, false
		}
		return ast.Argument{Kind: ast.StringLit, Str: t.Payload, Span: t.Span}, true
	case token.Word:
		if reservedWords[t.Payload] {
			p.errorf(diag.TokenError, t.Span, t.Payload+" is a reserved word and may not be used as an identifier")
			return ast.Argument{}, false
		}
		if wantFilename {
			if !isFilename(t.Payload) {
				p.errorf(diag.TokenError, t.Span, "expected a filename argument ending in .SC")
				return ast.Argument{}, false
			}
			return ast.Argument{Kind: ast.Filename, Str: t.Payload, Span: t.Span}, true
		}
		if looksLikeMalformedNumber(t.Payload) {
			p.errorf(diag.LexicalError, t.Span, "invalid numeric literal "+t.Payload)
			return ast.Argument{}, false
		}
		if !validIdentifier(t.Payload) {
			p.errorf(diag.TokenError, t.Span, "invalid identifier "+t.Payload)
			return ast.Argument{}, false
		}
		return ast.Argument{Kind: ast.Identifier, Str: t.Payload, Span: t.Span}, true
	default:
		p.errorf(diag.TokenError, t.Span, "unexpected token in argument position")
		return ast.Argument{}, false
	}
}

// isFilename reports whether a canonicalized word ends in ".SC" with at
// least one character before it.
func isFilename(word string) bool {
	return strings.HasSuffix(word, ".SC") && len(word) > len(".SC")
}

// looksLikeMalformedNumber flags words that the scanner could not classify
// as Integer/Float but that begin with a digit (after an optional '-') —
// the "0x10" family of rejected literals.
func looksLikeMalformedNumber(word string) bool {
	body := word
	if strings.HasPrefix(body, "-") {
		body = body[1:]
	}
	if body == "" || !isDigitByte(body[0]) {
		return false
	}
	// A legitimate word never starts with a digit unless it is a number;
	// since the scanner already classifies true numbers as Integer/Float,
	// anything of Word category starting with a digit is malformed, e.g.
	// "0X10".
	return true
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// validIdentifier enforces the identifier-argument character rule: must
// start with a letter or '$', must not start with '_', '@', or a digit.
func validIdentifier(word string) bool {
	if word == "" {
		return false
	}
	c := word[0]
	if c == '$' {
		return true
	}
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
