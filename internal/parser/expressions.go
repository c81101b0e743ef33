package parser

import (
	"strconv"

	"github.com/cwbudde/waslang/internal/ast"
	"github.com/cwbudde/waslang/internal/token"
)

// parseExpression implements Pratt-style precedence climbing: parse a
// prefix expression, then repeatedly fold in infix operators whose
// precedence exceeds the caller's floor (spec.md §4.2).
func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefix, ok := p.prefixParseFns[p.cur.Type]
	if !ok {
		return nil, p.errorf(p.cur.Start, p.curTokenLen(), "Unexpected token in expression: %s", describeToken(p.cur))
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	// Prefix parsers consume their own tokens, so the operator (if any) is
	// now the current token; infix parsers consume it themselves.
	for precedence < precedences[p.cur.Type] {
		infix, ok := p.infixParseFns[p.cur.Type]
		if !ok {
			return left, nil
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseNumberLiteral() (ast.Expression, error) {
	start := p.cur.Start
	v, err := strconv.ParseFloat(p.cur.Text, 64)
	if err != nil {
		return nil, p.errorf(start, p.curTokenLen(), "Invalid number literal %q", p.cur.Text)
	}
	end := p.cur.End
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.NumberLiteral{Value: v, Loc_: loc(start, end)}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.StringLiteral{Value: tok.Text, Loc_: loc(tok.Start, tok.End)}, nil
}

func (p *Parser) parseBooleanLiteral() (ast.Expression, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.BooleanLiteral{Value: tok.Type == token.TRUE, Loc_: loc(tok.Start, tok.End)}, nil
}

func (p *Parser) parseIdentifierOrCall() (ast.Expression, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	if !p.curIs(token.LPAREN) {
		return &ast.Identifier{Name: tok.Text, Loc_: loc(tok.Start, tok.End)}, nil
	}

	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	var args []ast.Expression
	if err := p.separatedList(token.RPAREN, func() error {
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return err
		}
		args = append(args, arg)
		return nil
	}); err != nil {
		return nil, err
	}
	end := p.cur.End
	if err := p.expect(token.RPAREN, "function call"); err != nil {
		return nil, err
	}
	return &ast.FunctionCall{Name: tok.Text, Args: args, Loc_: loc(tok.Start, end)}, nil
}

func (p *Parser) parseGrouping() (ast.Expression, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	inner, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	end := p.cur.End
	if err := p.expect(token.RPAREN, "grouping"); err != nil {
		return nil, err
	}
	return &ast.Grouping{Inner: inner, Loc_: loc(start, end)}, nil
}

// parseUnary handles the right-recursive unary forms: unary ::= ('+'|'-'|'~') unary | pow_expr.
func (p *Parser) parseUnary() (ast.Expression, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseExpression(UNARY)
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Op: tok.Text, Operand: operand, Loc_: loc(tok.Start, operand.Loc().End)}, nil
}

func (p *Parser) parseBinary(left ast.Expression) (ast.Expression, error) {
	opTok := p.cur
	precedence := precedences[opTok.Type]
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: opTok.Text, Left: left, Right: right, Loc_: loc(left.Loc().Start, right.Loc().End)}, nil
}

// parseModulo implements `mod_expr ::= unary ('%' unary)?`: the right
// operand is parsed at UNARY precedence (not LOWEST), and a second '%'
// immediately following is rejected since modulo is non-associative
// (spec.md §4.2).
func (p *Parser) parseModulo(left ast.Expression) (ast.Expression, error) {
	opTok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression(UNARY)
	if err != nil {
		return nil, err
	}
	if p.curIs(token.PERCENT) {
		return nil, p.errorf(p.cur.Start, p.curTokenLen(), "'%%' is non-associative; use parentheses to chain modulo")
	}
	return &ast.Binary{Op: opTok.Text, Left: left, Right: right, Loc_: loc(left.Loc().Start, right.Loc().End)}, nil
}

// parsePower implements `pow_expr ::= primary ('^' primary)*`: the
// exponent is restricted to a primary, never a unary or another full
// expression (spec.md §4.2).
func (p *Parser) parsePower(left ast.Expression) (ast.Expression, error) {
	opTok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	prefix, ok := p.prefixParseFns[p.cur.Type]
	if !ok || p.curIs(token.PLUS) || p.curIs(token.MINUS) || p.curIs(token.TILDE) {
		return nil, p.errorf(p.cur.Start, p.curTokenLen(), "Expected primary expression after '^', found %s", describeToken(p.cur))
	}
	right, err := prefix()
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: opTok.Text, Left: left, Right: right, Loc_: loc(left.Loc().Start, right.Loc().End)}, nil
}
