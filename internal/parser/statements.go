package parser

import (
	"github.com/cwbudde/waslang/internal/ast"
	"github.com/cwbudde/waslang/internal/token"
)

// blockTerminators are the keywords that close a statement block:
// 'end' closes if/while/for/func, 'elif'/'else' close an if's then-branch.
func isBlockTerminator(t token.Type) bool {
	switch t {
	case token.END, token.ELIF, token.ELSE, token.EOF:
		return true
	default:
		return false
	}
}

// parseBlock parses statements until a block terminator is reached,
// skipping comment tokens (spec.md §4.2: "Comment tokens are silently
// skipped between statements").
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	var stmts []ast.Statement
	stop := func() bool { return isBlockTerminator(p.cur.Type) }
	err := p.many(stop, func() error {
		if p.curIs(token.COMMENT) {
			return p.advance()
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return err
		}
		stmts = append(stmts, stmt)
		return nil
	})
	return stmts, err
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Type {
	case token.PRINT:
		return p.parsePrint()
	case token.PRINTLN:
		return p.parsePrintln()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.FUNC:
		return p.parseFuncDecl()
	case token.RET:
		return p.parseReturn()
	case token.LOCAL:
		return p.parseLocalAssign()
	case token.IDENT:
		if p.peekIs(token.ASSIGN) {
			return p.parseAssign()
		}
		return p.parseExpressionStmt()
	default:
		return p.parseExpressionStmt()
	}
}

func (p *Parser) parsePrint() (ast.Statement, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Value: value, Loc_: loc(start, value.Loc().End)}, nil
}

func (p *Parser) parsePrintln() (ast.Statement, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.PrintlnStmt{Value: value, Loc_: loc(start, value.Loc().End)}, nil
}

func (p *Parser) parseAssign() (ast.Statement, error) {
	name := p.cur
	if err := p.advance(); err != nil { // consume identifier
		return nil, err
	}
	if err := p.advance(); err != nil { // consume ':='
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{Name: name.Text, Value: value, Loc_: loc(name.Start, value.Loc().End)}, nil
}

func (p *Parser) parseLocalAssign() (ast.Statement, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume 'local'
		return nil, err
	}
	if !p.curIs(token.IDENT) {
		return nil, p.errorf(p.cur.Start, p.curTokenLen(), "Expected identifier after 'local'")
	}
	name := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(token.ASSIGN, "local assignment"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.LocalAssignStmt{Name: name.Text, Value: value, Loc_: loc(start, value.Loc().End)}, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.THEN, "if"); err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{Condition: cond, ThenBranch: thenBody}

	for p.curIs(token.ELIF) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elifCond, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.THEN, "elif"); err != nil {
			return nil, err
		}
		elifBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.ElifBranches = append(stmt.ElifBranches, ast.ElifBranch{Condition: elifCond, Body: elifBody})
	}

	if p.curIs(token.ELSE) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.ElseBranch = elseBody
	}

	end := p.cur.End
	if err := p.expect(token.END, "if"); err != nil {
		return nil, err
	}
	stmt.Loc_ = loc(start, end)
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume 'while'
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.DO, "while"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end := p.cur.End
	if err := p.expect(token.END, "while"); err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: cond, Body: body, Loc_: loc(start, end)}, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume 'for'
		return nil, err
	}
	if !p.curIs(token.IDENT) {
		return nil, p.errorf(p.cur.Start, p.curTokenLen(), "Expected identifier after 'for'")
	}
	name := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(token.ASSIGN, "for"); err != nil {
		return nil, err
	}
	from, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.COMMA, "for"); err != nil {
		return nil, err
	}
	to, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	var step ast.Expression
	hasStep, err := p.optional(token.COMMA)
	if err != nil {
		return nil, err
	}
	if hasStep {
		step, err = p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
	}
	if err := p.expect(token.DO, "for"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end := p.cur.End
	if err := p.expect(token.END, "for"); err != nil {
		return nil, err
	}
	return &ast.ForStmt{Name: name, Start: from, End: to, Step: step, Body: body, Loc_: loc(start, end)}, nil
}

func (p *Parser) parseFuncDecl() (ast.Statement, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume 'func'
		return nil, err
	}
	if !p.curIs(token.IDENT) {
		return nil, p.errorf(p.cur.Start, p.curTokenLen(), "Expected function name after 'func'")
	}
	name := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN, "function declaration"); err != nil {
		return nil, err
	}
	var params []string
	if err := p.separatedList(token.RPAREN, func() error {
		if !p.curIs(token.IDENT) {
			return p.errorf(p.cur.Start, p.curTokenLen(), "Expected parameter name")
		}
		params = append(params, p.cur.Text)
		return p.advance()
	}); err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN, "function declaration"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end := p.cur.End
	if err := p.expect(token.END, "func"); err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Name: name, Params: params, Body: body, Loc_: loc(start, end)}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume 'ret'
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: value, Loc_: loc(start, value.Loc().End)}, nil
}

func (p *Parser) parseExpressionStmt() (ast.Statement, error) {
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expr: expr, Loc_: expr.Loc()}, nil
}
