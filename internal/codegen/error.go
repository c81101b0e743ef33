package codegen

import (
	"fmt"

	"github.com/cwbudde/waslang/internal/token"
)

// Error is a compile-time diagnostic: unknown identifier, duplicate local,
// function redefinition, arity mismatch, or an operator applied to an
// unsupported expression kind (spec.md §7).
type Error struct {
	Message  string
	Pos      token.Position
	TokenLen int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func errAt(pos token.Position, tokenLen int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos, TokenLen: tokenLen}
}
