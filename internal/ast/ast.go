// Package ast defines the Abstract Syntax Tree node types produced by the
// parser (spec.md §3).
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cwbudde/waslang/internal/token"
)

// Location is the source span a node occupies; start/end are 1-indexed
// line/column pairs, per spec.md §3.
type Location struct {
	Start token.Position
	End   token.Position
}

// Node is the base interface every AST node implements.
type Node interface {
	Loc() Location
	String() string
}

// Statement is any of the statement forms in spec.md §3.
type Statement interface {
	Node
	statementNode()
}

// Expression is any of the expression forms in spec.md §3.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: an ordered sequence of statements.
type Program struct {
	Body []Statement
	Loc_ Location
}

func (p *Program) Loc() Location { return p.Loc_ }
func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Body {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// ---- statements ----

type PrintStmt struct {
	Value Expression
	Loc_  Location
}

func (s *PrintStmt) statementNode() {}
func (s *PrintStmt) Loc() Location  { return s.Loc_ }
func (s *PrintStmt) String() string { return "print " + s.Value.String() }

type PrintlnStmt struct {
	Value Expression
	Loc_  Location
}

func (s *PrintlnStmt) statementNode() {}
func (s *PrintlnStmt) Loc() Location  { return s.Loc_ }
func (s *PrintlnStmt) String() string { return "println " + s.Value.String() }

// AssignStmt is a non-local assignment `x := e`, which creates the
// binding in the innermost scope if it does not already exist anywhere
// in an enclosing frame (spec.md §3, Scope invariant 2).
type AssignStmt struct {
	Name  string
	Value Expression
	Loc_  Location
}

func (s *AssignStmt) statementNode() {}
func (s *AssignStmt) Loc() Location  { return s.Loc_ }
func (s *AssignStmt) String() string { return s.Name + " := " + s.Value.String() }

// LocalAssignStmt is `local x := e`, which declares x fresh in the
// current frame; redeclaring within the same frame is a compile error.
type LocalAssignStmt struct {
	Name  string
	Value Expression
	Loc_  Location
}

func (s *LocalAssignStmt) statementNode() {}
func (s *LocalAssignStmt) Loc() Location  { return s.Loc_ }
func (s *LocalAssignStmt) String() string { return "local " + s.Name + " := " + s.Value.String() }

// ElifBranch is one `elif cond then body` clause of an If.
type ElifBranch struct {
	Condition Expression
	Body      []Statement
}

type IfStmt struct {
	Condition    Expression
	ThenBranch   []Statement
	ElifBranches []ElifBranch
	ElseBranch   []Statement // nil if absent
	Loc_         Location
}

func (s *IfStmt) statementNode() {}
func (s *IfStmt) Loc() Location  { return s.Loc_ }
func (s *IfStmt) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "if %s then ...", s.Condition.String())
	return sb.String()
}

type WhileStmt struct {
	Condition Expression
	Body      []Statement
	Loc_      Location
}

func (s *WhileStmt) statementNode() {}
func (s *WhileStmt) Loc() Location  { return s.Loc_ }
func (s *WhileStmt) String() string { return "while " + s.Condition.String() + " do ... end" }

// ForStmt is `for name := start, end[, step] do body end`; Step is nil
// when the surface program omits it (spec.md §4.3 defaults it to 1).
type ForStmt struct {
	Name  string
	Start Expression
	End   Expression
	Step  Expression
	Body  []Statement
	Loc_  Location
}

func (s *ForStmt) statementNode() {}
func (s *ForStmt) Loc() Location  { return s.Loc_ }
func (s *ForStmt) String() string {
	return fmt.Sprintf("for %s := %s, %s do ... end", s.Name, s.Start.String(), s.End.String())
}

type FunctionDecl struct {
	Name   string
	Params []string
	Body   []Statement
	Loc_   Location
}

func (s *FunctionDecl) statementNode() {}
func (s *FunctionDecl) Loc() Location  { return s.Loc_ }
func (s *FunctionDecl) String() string {
	return "func " + s.Name + "(" + strings.Join(s.Params, ", ") + ") ... end"
}

type ReturnStmt struct {
	Value Expression
	Loc_  Location
}

func (s *ReturnStmt) statementNode() {}
func (s *ReturnStmt) Loc() Location  { return s.Loc_ }
func (s *ReturnStmt) String() string { return "ret " + s.Value.String() }

type ExpressionStmt struct {
	Expr Expression
	Loc_ Location
}

func (s *ExpressionStmt) statementNode() {}
func (s *ExpressionStmt) Loc() Location  { return s.Loc_ }
func (s *ExpressionStmt) String() string { return s.Expr.String() }

// ---- expressions ----

type NumberLiteral struct {
	Value float64
	Loc_  Location
}

func (e *NumberLiteral) expressionNode() {}
func (e *NumberLiteral) Loc() Location   { return e.Loc_ }
func (e *NumberLiteral) String() string  { return fmt.Sprintf("%g", e.Value) }

type StringLiteral struct {
	Value string
	Loc_  Location
}

func (e *StringLiteral) expressionNode() {}
func (e *StringLiteral) Loc() Location   { return e.Loc_ }
func (e *StringLiteral) String() string  { return fmt.Sprintf("%q", e.Value) }

type BooleanLiteral struct {
	Value bool
	Loc_  Location
}

func (e *BooleanLiteral) expressionNode() {}
func (e *BooleanLiteral) Loc() Location   { return e.Loc_ }
func (e *BooleanLiteral) String() string  { return fmt.Sprintf("%t", e.Value) }

type Identifier struct {
	Name string
	Loc_ Location
}

func (e *Identifier) expressionNode() {}
func (e *Identifier) Loc() Location   { return e.Loc_ }
func (e *Identifier) String() string  { return e.Name }

type Grouping struct {
	Inner Expression
	Loc_  Location
}

func (e *Grouping) expressionNode() {}
func (e *Grouping) Loc() Location   { return e.Loc_ }
func (e *Grouping) String() string  { return "(" + e.Inner.String() + ")" }

// Unary is one of +, -, ~ applied to an operand (spec.md §3).
type Unary struct {
	Op      string
	Operand Expression
	Loc_    Location
}

func (e *Unary) expressionNode() {}
func (e *Unary) Loc() Location   { return e.Loc_ }
func (e *Unary) String() string  { return e.Op + e.Operand.String() }

// Binary is a two-operand operator application.
type Binary struct {
	Op    string
	Left  Expression
	Right Expression
	Loc_  Location
}

func (e *Binary) expressionNode() {}
func (e *Binary) Loc() Location   { return e.Loc_ }
func (e *Binary) String() string {
	var sb bytes.Buffer
	fmt.Fprintf(&sb, "(%s %s %s)", e.Left.String(), e.Op, e.Right.String())
	return sb.String()
}

type FunctionCall struct {
	Name string
	Args []Expression
	Loc_ Location
}

func (e *FunctionCall) expressionNode() {}
func (e *FunctionCall) Loc() Location   { return e.Loc_ }
func (e *FunctionCall) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Name + "(" + strings.Join(parts, ", ") + ")"
}
