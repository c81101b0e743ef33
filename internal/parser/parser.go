// Package parser implements a recursive-descent parser with Pratt-style
// precedence climbing for expressions (spec.md §4.2), grounded on the
// teacher's prefix/infix-function-table parser design.
package parser

import (
	"fmt"

	"github.com/cwbudde/waslang/internal/ast"
	"github.com/cwbudde/waslang/internal/lexer"
	"github.com/cwbudde/waslang/internal/token"
)

// Error is a parse error carrying the point of failure and the partial
// AST parsed so far (spec.md §4.2).
type Error struct {
	Message        string
	Pos            token.Position
	TokenLength    int
	PartialProgram *ast.Program
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

// Precedence levels, lowest to highest (spec.md §6).
const (
	LOWEST = iota
	OR
	AND
	EQUALITY
	COMPARISON
	SUM
	PRODUCT
	MODULO
	UNARY
	POWER
)

var precedences = map[token.Type]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALITY,
	token.NOT_EQ:   EQUALITY,
	token.GT:       COMPARISON,
	token.LT:       COMPARISON,
	token.GE:       COMPARISON,
	token.LE:       COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  MODULO,
	token.CARET:    POWER,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(left ast.Expression) (ast.Expression, error)
)

// Parser consumes a token stream and builds an AST.
type Parser struct {
	lex *lexer.Lexer

	cur  token.Token
	peek token.Token

	source string

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser over source, tokenizing lazily one token ahead.
func New(source string) (*Parser, error) {
	p := &Parser{lex: lexer.New(source), source: source}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.NUMBER:   p.parseNumberLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBooleanLiteral,
		token.FALSE:    p.parseBooleanLiteral,
		token.IDENT:    p.parseIdentifierOrCall,
		token.LPAREN:   p.parseGrouping,
		token.PLUS:     p.parseUnary,
		token.MINUS:    p.parseUnary,
		token.TILDE:    p.parseUnary,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.OR:       p.parseBinary,
		token.AND:      p.parseBinary,
		token.EQ:       p.parseBinary,
		token.NOT_EQ:   p.parseBinary,
		token.GT:       p.parseBinary,
		token.LT:       p.parseBinary,
		token.GE:       p.parseBinary,
		token.LE:       p.parseBinary,
		token.PLUS:     p.parseBinary,
		token.MINUS:    p.parseBinary,
		token.ASTERISK: p.parseBinary,
		token.SLASH:    p.parseBinary,
		token.PERCENT:  p.parseModulo,
		token.CARET:    p.parsePower,
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek.Type]; ok {
		return prec
	}
	return LOWEST
}

func loc(start, end token.Position) ast.Location {
	return ast.Location{Start: start, End: end}
}

// Parse tokenizes and parses source into a Program. When a grammar rule
// fails, err is a *Error carrying the partial program parsed so far
// (spec.md §4.2); when the lexer fails, err is the *lexer.Error itself and
// carries no partial program.
func Parse(source string) (*ast.Program, error) {
	p, err := New(source)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// ParseProgram parses a full program: zero or more statements up to EOF.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	startPos := p.cur.Start

	for !p.curIs(token.EOF) {
		if p.curIs(token.COMMENT) {
			if err := p.advance(); err != nil {
				return prog, err
			}
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			prog.Loc_ = loc(startPos, p.cur.Start)
			if perr, ok := err.(*Error); ok {
				perr.PartialProgram = prog
				return prog, perr
			}
			return prog, err
		}
		prog.Body = append(prog.Body, stmt)
	}
	prog.Loc_ = loc(startPos, p.cur.End)
	return prog, nil
}

func (p *Parser) errorf(pos token.Position, tokenLen int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos, TokenLength: tokenLen}
}

func (p *Parser) curTokenLen() int {
	if n := len(p.cur.Text); n > 0 {
		return n
	}
	return 1
}

// expect verifies the current token has type t, then advances past it.
func (p *Parser) expect(t token.Type, context string) error {
	if !p.curIs(t) {
		return p.errorf(p.cur.Start, p.curTokenLen(), "Expected %s, found %s", t, describeToken(p.cur))
	}
	return p.advance()
}

func describeToken(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	if tok.Text != "" {
		return fmt.Sprintf("%q", tok.Text)
	}
	return tok.Type.String()
}
