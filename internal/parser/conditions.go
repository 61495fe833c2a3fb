package parser

import (
	"github.com/amykhaylyshyn/gta3sc/internal/ast"
	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/source"
	"github.com/amykhaylyshyn/gta3sc/internal/token"
)

// condition is one resolved IF/WHILE/AND/OR condition slot, not yet
// allocated into the arena.
type condition struct {
	name string
	args []ast.Argument
	not  bool
	span source.Span
}

// parseConditionSlot parses one condition: an optional leading NOT, then
// either a relational "x OP y" comparison (lowered to the matching
// IS_THING_* command, with operand order swapped for '<'/'<=') or a bare
// command condition. When allowGoto is set and the condition is
// relational, a trailing "GOTO label" is recognized and the label's name
// is returned as gotoTarget.
func (p *Parser) parseConditionSlot(allowGoto bool) (cond condition, gotoTarget string, err error) {
	notFlag := false
	if t := p.sc.PeekToken(); t.IsWord("NOT") {
		p.sc.NextToken()
		notFlag = true
	}

	lhsTok := p.sc.NextToken()
	if lhsTok.Category == token.Word && reservedWords[lhsTok.Payload] {
		p.errorf(diag.TokenError, lhsTok.Span, lhsTok.Payload+" is a reserved word and may not start a condition")
		return condition{}, "", ErrFailed
	}
	if lhsTok.Category != token.Word && lhsTok.Category != token.Integer && lhsTok.Category != token.Float {
		p.errorf(diag.ConditionError, lhsTok.Span, "expected a command or a relational condition")
		return condition{}, "", ErrFailed
	}

	opTok := p.sc.PeekToken()
	if cmdName, ok := relational[opTok.Payload]; ok && opTok.Category == token.Operator {
		p.sc.NextToken() // operator
		rhsTok := p.sc.NextToken()
		if rhsTok.Category != token.Word && rhsTok.Category != token.Integer && rhsTok.Category != token.Float {
			p.errorf(diag.ExpressionError, rhsTok.Span, "expected an operand after "+opTok.Payload)
			return condition{}, "", ErrFailed
		}

		lhsArg, ok1 := p.tokenToArgument(lhsTok, false)
		rhsArg, ok2 := p.tokenToArgument(rhsTok, false)
		if !ok1 || !ok2 {
			return condition{}, "", ErrFailed
		}

		var args []ast.Argument
		switch opTok.Payload {
		case "<", "<=":
			args = []ast.Argument{rhsArg, lhsArg}
		default:
			args = []ast.Argument{lhsArg, rhsArg}
		}
		cond = condition{name: cmdName, args: args, not: notFlag, span: lhsTok.Span.Join(rhsTok.Span)}

		if allowGoto {
			if g := p.sc.PeekToken(); g.IsWord("GOTO") {
				p.sc.NextToken()
				target := p.sc.NextToken()
				if target.Category != token.Word || reservedWords[target.Payload] {
					p.errorf(diag.TokenError, target.Span, "expected a label after GOTO")
					return condition{}, "", ErrFailed
				}
				if eol := p.sc.NextToken(); eol.Category != token.Eol {
					p.errorf(diag.StructureError, eol.Span, "unexpected tokens after GOTO target")
					return condition{}, "", ErrFailed
				}
				return cond, target.Payload, nil
			}
		}

		if eol := p.sc.NextToken(); eol.Category != token.Eol {
			p.errorf(diag.ConditionError, eol.Span, "unexpected tokens after condition")
			return condition{}, "", ErrFailed
		}
		return cond, "", nil
	}

	// Bare command condition: lhsTok is the command name.
	if lhsTok.Category != token.Word {
		p.errorf(diag.ConditionError, lhsTok.Span, "expected a command or a relational condition")
		return condition{}, "", ErrFailed
	}
	args, span, aerr := p.parseArgs(lhsTok)
	if aerr != nil {
		return condition{}, "", aerr
	}
	return condition{name: lhsTok.Payload, args: args, not: notFlag, span: span}, "", nil
}

// parseCondChain parses the continuation lines (AND/OR) following an
// already-parsed first condition. It returns the full ordered list of
// conditions and the computed cond-count encoding described in §4.3. On
// return the scanner has a line loaded that is either the next
// continuation already consumed, or the first line of the block body
// (left loaded for the caller's body loop to consume).
func (p *Parser) parseCondChain(first condition) ([]condition, int, error) {
	conditions := []condition{first}
	axis := ""

	for {
		if !p.sc.AdvanceLine() {
			return conditions, 0, &diag.FatalError{Diagnostic: diag.Diagnostic{
				Severity: diag.Fatal,
				Kind:     diag.StructureError,
				Message:  "unexpected end of file inside a condition chain",
			}}
		}
		p.lineLoaded = true

		peek := p.sc.PeekToken()
		if !peek.IsWord("AND") && !peek.IsWord("OR") {
			break // chain over; this line belongs to the block body
		}

		kw := peek.Payload
		if axis == "" {
			axis = kw
		} else if axis != kw {
			p.sc.NextToken()
			p.errorf(diag.ConditionError, peek.Span, "cannot mix AND and OR in one condition chain")
			return nil, 0, ErrFailed
		}
		p.sc.NextToken() // consume AND/OR

		if eol := p.sc.PeekToken(); eol.Category == token.Eol {
			p.errorf(diag.ConditionError, eol.Span, kw+" with no condition")
			return nil, 0, ErrFailed
		}

		cond, _, err := p.parseConditionSlot(false)
		if err != nil {
			return nil, 0, err
		}
		conditions = append(conditions, cond)

		if axis == "AND" && len(conditions) > 8 {
			p.errorf(diag.ConditionError, cond.span, "too many AND conditions")
			return nil, 0, ErrFailed
		}
		if axis == "OR" && len(conditions) > 6 {
			p.errorf(diag.ConditionError, cond.span, "too many OR conditions")
			return nil, 0, ErrFailed
		}
	}

	condCount := 0
	switch axis {
	case "AND":
		condCount = len(conditions) - 1
	case "OR":
		condCount = 20 + len(conditions) - 1
	}
	return conditions, condCount, nil
}
