package parser

import (
	"github.com/amykhaylyshyn/gta3sc/internal/ast"
	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/token"
)

// parseWordStatement dispatches a line that begins with an ordinary word:
// it may turn out to be a plain command (statement form 8), an increment or
// decrement, an assignment in one of its several operator forms, or a bare
// relational comparison used as a statement rather than a condition. A
// second token of lookahead (the scanner only offers one) is unavoidable
// here, so the leading word is always consumed before the shape is known.
func (p *Parser) parseWordStatement(label *ast.Label) (ast.Sequence, error) {
	tok1 := p.sc.NextToken()
	if tok1.Category != token.Word {
		p.errorf(diag.TokenError, tok1.Span, "expected a command or an expression")
		return nil, ErrFailed
	}

	peek := p.sc.PeekToken()
	if peek.Category == token.Operator {
		switch {
		case peek.Payload == "++" || peek.Payload == "--":
			if reservedWords[tok1.Payload] {
				p.errorf(diag.TokenError, tok1.Span, tok1.Payload+" is a reserved word and may not be used as an identifier")
				return nil, ErrFailed
			}
			opTok := p.sc.NextToken()
			if eol := p.sc.NextToken(); eol.Category != token.Eol {
				p.errorf(diag.StructureError, eol.Span, "unexpected tokens after "+tok1.Payload+opTok.Payload)
				return nil, ErrFailed
			}
			return p.buildIncDec(label, opTok, tok1)

		case peek.Payload == "=":
			if reservedWords[tok1.Payload] {
				p.errorf(diag.TokenError, tok1.Span, tok1.Payload+" is a reserved word and may not be used as an identifier")
				return nil, ErrFailed
			}
			return p.parseAssignment(label, tok1)

		case peek.Payload == "=#":
			if reservedWords[tok1.Payload] {
				p.errorf(diag.TokenError, tok1.Span, tok1.Payload+" is a reserved word and may not be used as an identifier")
				return nil, ErrFailed
			}
			return p.parseCSet(label, tok1)

		case isAssignOp(peek.Payload):
			if reservedWords[tok1.Payload] {
				p.errorf(diag.TokenError, tok1.Span, tok1.Payload+" is a reserved word and may not be used as an identifier")
				return nil, ErrFailed
			}
			return p.parseCompoundAssign(label, tok1, peek)

		case isRelationalOp(peek.Payload):
			if reservedWords[tok1.Payload] {
				p.errorf(diag.TokenError, tok1.Span, tok1.Payload+" is a reserved word and may not be used as an identifier")
				return nil, ErrFailed
			}
			return p.parseRelationalStatement(label, tok1, peek)
		}
	}

	return p.parseCommandFrom(label, tok1)
}

func isAssignOp(lexeme string) bool {
	_, ok := assignOps[lexeme]
	return ok
}

// isRelationalOp reports whether lexeme is one of the ordering comparisons
// usable as a bare statement. "=" is deliberately excluded: outside a
// condition it always means assignment.
func isRelationalOp(lexeme string) bool {
	switch lexeme {
	case "<", "<=", ">", ">=":
		return true
	default:
		return false
	}
}

// parsePrefixIncDec handles the "++x" / "--x" forms.
func (p *Parser) parsePrefixIncDec(label *ast.Label) (ast.Sequence, error) {
	opTok := p.sc.NextToken() // ++ or --
	xTok := p.sc.NextToken()
	if xTok.Category != token.Word || reservedWords[xTok.Payload] {
		p.errorf(diag.TokenError, xTok.Span, "expected an identifier after "+opTok.Payload)
		return nil, ErrFailed
	}
	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, "unexpected tokens after "+opTok.Payload+xTok.Payload)
		return nil, ErrFailed
	}
	return p.buildIncDec(label, opTok, xTok)
}

// buildIncDec lowers either the prefix or postfix increment/decrement form
// to a single ADD_THING_TO_THING/SUB_THING_FROM_THING node.
func (p *Parser) buildIncDec(label *ast.Label, opTok, xTok token.Token) (ast.Sequence, error) {
	xArg, ok := p.tokenToArgument(xTok, false)
	if !ok {
		return nil, ErrFailed
	}
	span := opTok.Span.Join(xTok.Span)
	one := ast.Argument{Kind: ast.Integer, Int: 1, Span: span}

	cmdName := "ADD_THING_TO_THING"
	if opTok.Payload == "--" {
		cmdName = "SUB_THING_FROM_THING"
	}
	cmd := p.arena.NewCommand(cmdName, []ast.Argument{xArg, one}, false, span)
	return ast.Sequence{p.arena.NewNode(label, cmd, span)}, nil
}

// parseAssignment handles "x = ..." once the leading "=" has been spotted.
// It covers the plain "x = y" form, the "x = ABS y" form, and the ternary
// "x = y OP z" form.
func (p *Parser) parseAssignment(label *ast.Label, lhsTok token.Token) (ast.Sequence, error) {
	p.sc.NextToken() // '='

	if w := p.sc.PeekToken(); w.IsWord("ABS") {
		return p.parseAbsAssignment(label, lhsTok)
	}

	yTok := p.sc.NextToken()
	if !isOperand(yTok) {
		p.errorf(diag.ExpressionError, yTok.Span, "expected an operand after =")
		return nil, ErrFailed
	}

	opTok := p.sc.PeekToken()
	if op, ok := ternaryOps[opTok.Payload]; ok && opTok.Category == token.Operator {
		p.sc.NextToken() // operator
		zTok := p.sc.NextToken()
		if !isOperand(zTok) {
			p.errorf(diag.ExpressionError, zTok.Span, "expected an operand after "+opTok.Payload)
			return nil, ErrFailed
		}
		if eol := p.sc.NextToken(); eol.Category != token.Eol {
			p.errorf(diag.StructureError, eol.Span, "unexpected tokens after expression")
			return nil, ErrFailed
		}
		return p.buildTernary(label, lhsTok, yTok, opTok, zTok, op)
	}

	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, "unexpected tokens after assignment")
		return nil, ErrFailed
	}
	// "x = x" is CSET, not SET: a same-operand plain assignment canonically
	// means "recast in place" rather than an identity copy.
	if sameOperand(lhsTok, yTok) {
		return p.buildSimpleAssign(label, "CSET", lhsTok, yTok)
	}
	return p.buildSimpleAssign(label, "SET", lhsTok, yTok)
}

// parseAbsAssignment handles "x = ABS y", with the one-node shortcut when y
// is written as x itself.
func (p *Parser) parseAbsAssignment(label *ast.Label, lhsTok token.Token) (ast.Sequence, error) {
	p.sc.NextToken() // ABS
	yTok := p.sc.NextToken()
	if !isOperand(yTok) {
		p.errorf(diag.ExpressionError, yTok.Span, "expected an operand after ABS")
		return nil, ErrFailed
	}
	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, "unexpected tokens after ABS expression")
		return nil, ErrFailed
	}

	xArg, ok1 := p.tokenToArgument(lhsTok, false)
	yArg, ok2 := p.tokenToArgument(yTok, false)
	if !ok1 || !ok2 {
		return nil, ErrFailed
	}
	span := lhsTok.Span.Join(yTok.Span)

	if sameOperand(lhsTok, yTok) {
		cmd := p.arena.NewCommand("ABS", []ast.Argument{xArg}, false, span)
		return ast.Sequence{p.arena.NewNode(label, cmd, span)}, nil
	}

	setCmd := p.arena.NewCommand("SET", []ast.Argument{xArg, yArg}, false, span)
	absCmd := p.arena.NewCommand("ABS", []ast.Argument{xArg}, false, span)
	return ast.Sequence{
		p.arena.NewNode(label, setCmd, span),
		p.arena.NewNode(nil, absCmd, span),
	}, nil
}

// parseCSet handles "x =# y", the explicit int/float cast assignment.
func (p *Parser) parseCSet(label *ast.Label, lhsTok token.Token) (ast.Sequence, error) {
	p.sc.NextToken() // '=#'
	yTok := p.sc.NextToken()
	if !isOperand(yTok) {
		p.errorf(diag.ExpressionError, yTok.Span, "expected an operand after =#")
		return nil, ErrFailed
	}
	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, "unexpected tokens after assignment")
		return nil, ErrFailed
	}
	return p.buildSimpleAssign(label, "CSET", lhsTok, yTok)
}

// parseCompoundAssign handles the +=, -=, *=, /=, +=@, -=@ family, all of
// which lower to a single two-argument command.
func (p *Parser) parseCompoundAssign(label *ast.Label, lhsTok, opTok token.Token) (ast.Sequence, error) {
	p.sc.NextToken() // operator
	cmdName := assignOps[opTok.Payload]

	yTok := p.sc.NextToken()
	if !isOperand(yTok) {
		p.errorf(diag.ExpressionError, yTok.Span, "expected an operand after "+opTok.Payload)
		return nil, ErrFailed
	}
	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, "unexpected tokens after assignment")
		return nil, ErrFailed
	}
	return p.buildSimpleAssign(label, cmdName, lhsTok, yTok)
}

// parseRelationalStatement handles a bare "x < y" (etc.) used as a
// statement rather than a condition; it lowers through the same
// IS_THING_* table and operand-swap rule conditions.go uses.
func (p *Parser) parseRelationalStatement(label *ast.Label, lhsTok, opTok token.Token) (ast.Sequence, error) {
	p.sc.NextToken() // operator
	rhsTok := p.sc.NextToken()
	if !isOperand(rhsTok) {
		p.errorf(diag.ExpressionError, rhsTok.Span, "expected an operand after "+opTok.Payload)
		return nil, ErrFailed
	}
	if eol := p.sc.NextToken(); eol.Category != token.Eol {
		p.errorf(diag.StructureError, eol.Span, "unexpected tokens after comparison")
		return nil, ErrFailed
	}

	lhsArg, ok1 := p.tokenToArgument(lhsTok, false)
	rhsArg, ok2 := p.tokenToArgument(rhsTok, false)
	if !ok1 || !ok2 {
		return nil, ErrFailed
	}

	var args []ast.Argument
	switch opTok.Payload {
	case "<", "<=":
		args = []ast.Argument{rhsArg, lhsArg}
	default:
		args = []ast.Argument{lhsArg, rhsArg}
	}
	span := lhsTok.Span.Join(rhsTok.Span)
	cmd := p.arena.NewCommand(relational[opTok.Payload], args, false, span)
	return ast.Sequence{p.arena.NewNode(label, cmd, span)}, nil
}

// buildTernary lowers "x = y OP z". When z repeats x and OP is commutative
// the two statements collapse into the single-node "x = x OP y" shortcut
// (written here as OP x y); a non-commutative OP in that position cannot be
// represented and is rejected.
func (p *Parser) buildTernary(label *ast.Label, xTok, yTok, opTok, zTok token.Token, op ternaryOp) (ast.Sequence, error) {
	xArg, ok1 := p.tokenToArgument(xTok, false)
	yArg, ok2 := p.tokenToArgument(yTok, false)
	zArg, ok3 := p.tokenToArgument(zTok, false)
	if !ok1 || !ok2 || !ok3 {
		return nil, ErrFailed
	}
	span := xTok.Span.Join(zTok.Span)

	if sameOperand(zTok, xTok) {
		if !op.commutative {
			p.errorf(diag.ExpressionError, span, "cannot lower "+opTok.Payload+" when the right operand repeats the assignment target")
			return nil, ErrFailed
		}
		cmd := p.arena.NewCommand(op.command, []ast.Argument{xArg, yArg}, false, span)
		return ast.Sequence{p.arena.NewNode(label, cmd, span)}, nil
	}

	setCmd := p.arena.NewCommand("SET", []ast.Argument{xArg, yArg}, false, span)
	opCmd := p.arena.NewCommand(op.command, []ast.Argument{xArg, zArg}, false, span)
	return ast.Sequence{
		p.arena.NewNode(label, setCmd, span),
		p.arena.NewNode(nil, opCmd, span),
	}, nil
}

// buildSimpleAssign lowers a two-operand "x OP y" assignment form to a
// single command node.
func (p *Parser) buildSimpleAssign(label *ast.Label, cmdName string, xTok, yTok token.Token) (ast.Sequence, error) {
	xArg, ok1 := p.tokenToArgument(xTok, false)
	yArg, ok2 := p.tokenToArgument(yTok, false)
	if !ok1 || !ok2 {
		return nil, ErrFailed
	}
	span := xTok.Span.Join(yTok.Span)
	cmd := p.arena.NewCommand(cmdName, []ast.Argument{xArg, yArg}, false, span)
	return ast.Sequence{p.arena.NewNode(label, cmd, span)}, nil
}

func isOperand(t token.Token) bool {
	return t.Category == token.Word || t.Category == token.Integer || t.Category == token.Float
}

// sameOperand reports whether two operand tokens denote the same operand
// textually, which is how the grammar recognizes the "repeats the
// assignment target" shortcut forms.
func sameOperand(a, b token.Token) bool {
	return a.Category == b.Category && a.Payload == b.Payload
}
