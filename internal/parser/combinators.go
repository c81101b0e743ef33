package parser

import "github.com/cwbudde/waslang/internal/token"

// optional consumes the current token if it matches tt, reporting whether
// it matched. Adapted from the teacher's Optional combinator
// (go-dws/internal/parser/combinators.go), translated from its peek-token/
// bool-only style to this parser's current-token/error-returning style.
func (p *Parser) optional(tt token.Type) (bool, error) {
	if !p.curIs(tt) {
		return false, nil
	}
	return true, p.advance()
}

// many repeatedly calls parseFn while stop() is false and the parser
// hasn't hit EOF, adapted from the teacher's ManyUntil combinator
// (go-dws/internal/parser/combinators.go) to this parser's error-returning
// style in place of a bool ParserFunc.
func (p *Parser) many(stop func() bool, parseFn func() error) error {
	for !stop() && !p.curIs(token.EOF) {
		if err := parseFn(); err != nil {
			return err
		}
	}
	return nil
}

// separatedList parses zero or more comma-separated items up to (but not
// consuming) term, adapted from the teacher's SeparatedList/SeparatorConfig
// combinator, narrowed to the one shape every call site here needs: a
// single comma separator, an optional empty list, no trailing separator.
func (p *Parser) separatedList(term token.Type, parseItem func() error) error {
	if p.curIs(term) {
		return nil
	}
	for {
		if err := parseItem(); err != nil {
			return err
		}
		if !p.curIs(token.COMMA) {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}
