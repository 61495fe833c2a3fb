package parser

import (
	"github.com/amykhaylyshyn/gta3sc/internal/ast"
	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/token"
)

// parseBraceOpen handles the bare "{" scope opener (statement form 4).
func (p *Parser) parseBraceOpen(label *ast.Label) (ast.Sequence, error) {
	tok := p.sc.NextToken() // "{"
	if label != nil {
		p.errorf(diag.StructureError, tok.Span, "{ may not carry a label")
		return nil, ErrFailed
	}
	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, "{ takes no arguments")
		return nil, ErrFailed
	}
	if p.topIs(blockBrace) {
		p.errorf(diag.StructureError, tok.Span, "nested { scope blocks are not allowed")
		return nil, ErrFailed
	}

	depth0 := len(p.blocks)
	p.blocks = append(p.blocks, blockFrame{kind: blockBrace})

	header := p.arena.NewNode(nil, p.arena.NewCommand("{", nil, false, tok.Span), tok.Span)
	body, err := p.collectBody(depth0)
	if err != nil {
		p.blocks = p.blocks[:depth0]
		return nil, err
	}

	seq := ast.Sequence{header}
	seq = append(seq, body...)
	return seq, nil
}

// parseBraceClose handles the bare "}" closer (statement form 4), which
// unlike every other closer lives outside the ENDIF/ELSE/ENDWHILE/ENDREPEAT
// family and so is dispatched separately.
func (p *Parser) parseBraceClose(label *ast.Label) (ast.Sequence, error) {
	tok := p.sc.NextToken() // "}"
	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, "} takes no arguments")
		return nil, ErrFailed
	}
	if !p.topIs(blockBrace) {
		p.errorf(diag.StructureError, tok.Span, "} has no matching {")
		return nil, ErrFailed
	}
	p.blocks = p.blocks[:len(p.blocks)-1]

	node := p.arena.NewNode(label, p.arena.NewCommand("}", nil, false, tok.Span), tok.Span)
	return ast.Sequence{node}, nil
}

// parseIfBlock handles IF/IFNOT, both the block form and the one-line
// "IF ... GOTO label" form (statement form 9).
func (p *Parser) parseIfBlock(label *ast.Label, openWord string) (ast.Sequence, error) {
	ifTok := p.sc.NextToken() // IF / IFNOT

	first, gotoTarget, err := p.parseConditionSlot(true)
	if err != nil {
		return nil, err
	}

	if gotoTarget != "" {
		return p.buildGotoSequence(label, ifTok, first, gotoTarget, openWord == "IF")
	}

	conditions, condCount, err := p.parseCondChain(first)
	if err != nil {
		return nil, err
	}

	depth0 := len(p.blocks)
	p.blocks = append(p.blocks, blockFrame{kind: blockIf})

	seq := p.buildConditionHeader(label, ifTok, condCount, conditions)
	body, err := p.collectBody(depth0)
	if err != nil {
		p.blocks = p.blocks[:depth0]
		return nil, err
	}
	seq = append(seq, body...)
	return seq, nil
}

// parseWhileBlock handles WHILE/WHILENOT.
func (p *Parser) parseWhileBlock(label *ast.Label, openWord string) (ast.Sequence, error) {
	whileTok := p.sc.NextToken() // WHILE / WHILENOT

	first, _, err := p.parseConditionSlot(false)
	if err != nil {
		return nil, err
	}

	conditions, condCount, err := p.parseCondChain(first)
	if err != nil {
		return nil, err
	}

	depth0 := len(p.blocks)
	p.blocks = append(p.blocks, blockFrame{kind: blockWhile})

	seq := p.buildConditionHeader(label, whileTok, condCount, conditions)
	body, err := p.collectBody(depth0)
	if err != nil {
		p.blocks = p.blocks[:depth0]
		return nil, err
	}
	seq = append(seq, body...)
	return seq, nil
}

// parseRepeatBlock handles "REPEAT N VAR ... ENDREPEAT".
func (p *Parser) parseRepeatBlock(label *ast.Label) (ast.Sequence, error) {
	repeatTok := p.sc.NextToken() // REPEAT

	countTok := p.sc.NextToken()
	if countTok.Category != token.Integer {
		p.errorf(diag.TokenError, countTok.Span, "REPEAT expects an integer repeat count")
		return nil, ErrFailed
	}
	varTok := p.sc.NextToken()
	if varTok.Category != token.Word || reservedWords[varTok.Payload] {
		p.errorf(diag.TokenError, varTok.Span, "REPEAT expects an identifier counter variable")
		return nil, ErrFailed
	}
	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, "REPEAT takes exactly two arguments")
		return nil, ErrFailed
	}

	countArg, ok := p.tokenToArgument(countTok, false)
	if !ok {
		return nil, ErrFailed
	}
	varArg, ok := p.tokenToArgument(varTok, false)
	if !ok {
		return nil, ErrFailed
	}

	depth0 := len(p.blocks)
	p.blocks = append(p.blocks, blockFrame{kind: blockRepeat})

	span := repeatTok.Span.Join(varTok.Span)
	cmd := p.arena.NewCommand("REPEAT", []ast.Argument{countArg, varArg}, false, span)
	header := p.arena.NewNode(label, cmd, span)

	body, err := p.collectBody(depth0)
	if err != nil {
		p.blocks = p.blocks[:depth0]
		return nil, err
	}

	seq := ast.Sequence{header}
	seq = append(seq, body...)
	return seq, nil
}

// parseCloser handles ENDIF, ELSE, ENDWHILE, and ENDREPEAT (statement
// form 6). ELSE is the only one of the four that does not close its
// frame: it just toggles elseSeen and leaves the IF block open.
func (p *Parser) parseCloser(label *ast.Label, word string) (ast.Sequence, error) {
	tok := p.sc.NextToken()
	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, word+" takes no arguments")
		return nil, ErrFailed
	}

	if len(p.blocks) == 0 {
		p.errorf(diag.StructureError, tok.Span, word+" has no matching opening block")
		return nil, ErrFailed
	}
	top := &p.blocks[len(p.blocks)-1]

	switch word {
	case "ELSE":
		if top.kind != blockIf {
			p.errorf(diag.StructureError, tok.Span, "ELSE outside of an IF block")
			return nil, ErrFailed
		}
		if top.elseSeen {
			p.errorf(diag.StructureError, tok.Span, "duplicate ELSE")
			return nil, ErrFailed
		}
		top.elseSeen = true
	case "ENDIF":
		if top.kind != blockIf {
			p.errorf(diag.StructureError, tok.Span, "ENDIF without a matching IF")
			return nil, ErrFailed
		}
		p.blocks = p.blocks[:len(p.blocks)-1]
	case "ENDWHILE":
		if top.kind != blockWhile {
			p.errorf(diag.StructureError, tok.Span, "ENDWHILE without a matching WHILE")
			return nil, ErrFailed
		}
		p.blocks = p.blocks[:len(p.blocks)-1]
	case "ENDREPEAT":
		if top.kind != blockRepeat {
			p.errorf(diag.StructureError, tok.Span, "ENDREPEAT without a matching REPEAT")
			return nil, ErrFailed
		}
		p.blocks = p.blocks[:len(p.blocks)-1]
	}

	node := p.arena.NewNode(label, p.arena.NewCommand(word, nil, false, tok.Span), tok.Span)
	return ast.Sequence{node}, nil
}

// collectBody drives the statement loop for a block's body, flattening
// each nested statement's sequence in source order. depth0 is the block
// stack depth just before the caller pushed its own frame; collectBody
// knows it has reached its own closer once the stack drops back to depth0
// (ELSE does not pop, so it is folded into the body like any other node).
func (p *Parser) collectBody(depth0 int) (ast.Sequence, error) {
	var body ast.Sequence
	for {
		// A condition chain (IF/WHILE) leaves its terminating non-AND/OR
		// line already loaded for us. REPEAT and { have fully spent their
		// own line, which is still marked loaded: the first pass reads
		// only its Eol and yields nothing. Only call AdvanceLine when
		// nothing is already loaded.
		if !p.lineLoaded {
			if !p.sc.AdvanceLine() {
				return nil, &diag.FatalError{Diagnostic: diag.Diagnostic{
					Severity: diag.Fatal,
					Kind:     diag.StructureError,
					Message:  "unexpected end of file: missing block closer",
				}}
			}
			p.lineLoaded = true
		}
		seq, err := p.parseCurrentLine()
		p.lineLoaded = false
		if err != nil {
			return nil, err
		}
		body = append(body, seq...)
		if len(p.blocks) < depth0+1 {
			return body, nil
		}
	}
}

// topIs reports whether the innermost open block frame has kind k.
func (p *Parser) topIs(k blockKind) bool {
	return len(p.blocks) > 0 && p.blocks[len(p.blocks)-1].kind == k
}

// buildConditionHeader allocates the IF/WHILE header node carrying the
// cond-count, followed by one node per condition in the chain.
func (p *Parser) buildConditionHeader(label *ast.Label, headTok token.Token, condCount int, conditions []condition) ast.Sequence {
	headerCmd := p.arena.NewCommand(headTok.Payload, []ast.Argument{{Kind: ast.Integer, Int: int32(condCount), Span: headTok.Span}}, false, headTok.Span)
	seq := ast.Sequence{p.arena.NewNode(label, headerCmd, headTok.Span)}
	for _, c := range conditions {
		cmd := p.arena.NewCommand(c.name, c.args, c.not, c.span)
		seq = append(seq, p.arena.NewNode(nil, cmd, c.span))
	}
	return seq
}

// buildGotoSequence builds the three-node lowering of "IF x = y GOTO label"
// (statement form 9): ANDOR 0, the condition command, GOTO_IF_TRUE/FALSE.
func (p *Parser) buildGotoSequence(label *ast.Label, ifTok token.Token, cond condition, target string, positiveSense bool) (ast.Sequence, error) {
	andorCmd := p.arena.NewCommand("ANDOR", []ast.Argument{{Kind: ast.Integer, Int: 0, Span: ifTok.Span}}, false, ifTok.Span)
	condCmd := p.arena.NewCommand(cond.name, cond.args, cond.not, cond.span)

	gotoName := "GOTO_IF_TRUE"
	if !positiveSense {
		gotoName = "GOTO_IF_FALSE"
	}
	gotoCmd := p.arena.NewCommand(gotoName, []ast.Argument{{Kind: ast.Identifier, Str: target}}, false, cond.span)

	seq := ast.Sequence{
		p.arena.NewNode(label, andorCmd, ifTok.Span),
		p.arena.NewNode(nil, condCmd, cond.span),
		p.arena.NewNode(nil, gotoCmd, cond.span),
	}
	return seq, nil
}
