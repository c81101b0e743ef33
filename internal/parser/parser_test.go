package parser

import (
	"testing"

	"github.com/cwbudde/waslang/internal/ast"
)

func parseOrFatal(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := parseOrFatal(t, "x := 1 + 2 * 3")
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	assign, ok := prog.Body[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt, got %T", prog.Body[0])
	}
	bin, ok := assign.Value.(*ast.Binary)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %#v", assign.Value)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected '*' nested under '+', got %#v", bin.Right)
	}
}

func TestParsePowerParsesSingleApplication(t *testing.T) {
	prog := parseOrFatal(t, "x := 2 ^ 3")
	assign := prog.Body[0].(*ast.AssignStmt)
	bin, ok := assign.Value.(*ast.Binary)
	if !ok || bin.Op != "^" {
		t.Fatalf("expected '^', got %#v", assign.Value)
	}
}

// TestParsePowerIsLeftAssociative confirms chained '^' folds left
// (2^3^2 parses as (2^3)^2), matching spec.md's left-associative '^' and
// parsePower's comment describing the same.
func TestParsePowerIsLeftAssociative(t *testing.T) {
	prog := parseOrFatal(t, "x := 2 ^ 3 ^ 2")
	assign := prog.Body[0].(*ast.AssignStmt)
	outer, ok := assign.Value.(*ast.Binary)
	if !ok || outer.Op != "^" {
		t.Fatalf("expected top-level '^', got %#v", assign.Value)
	}
	outerRight, ok := outer.Right.(*ast.NumberLiteral)
	if !ok || outerRight.Value != 2 {
		t.Fatalf("expected outer right operand to be the literal 2, got %#v", outer.Right)
	}
	inner, ok := outer.Left.(*ast.Binary)
	if !ok || inner.Op != "^" {
		t.Fatalf("expected '(2^3)' nested under the left operand, got %#v", outer.Left)
	}
	innerLeft, ok := inner.Left.(*ast.NumberLiteral)
	if !ok || innerLeft.Value != 2 {
		t.Fatalf("expected inner left operand to be the literal 2, got %#v", inner.Left)
	}
	innerRight, ok := inner.Right.(*ast.NumberLiteral)
	if !ok || innerRight.Value != 3 {
		t.Fatalf("expected inner right operand to be the literal 3, got %#v", inner.Right)
	}
}

// TestParsePowerRejectsNonPrimaryRightOperand confirms the exponent is
// restricted to a primary: a leading unary +, -, or ~ on the right of '^'
// is a parse error, not silently accepted as a unary expression.
func TestParsePowerRejectsNonPrimaryRightOperand(t *testing.T) {
	for _, src := range []string{"x := 2 ^ -3", "x := 2 ^ +3", "x := 2 ^ ~3"} {
		if _, err := Parse(src); err == nil {
			t.Errorf("expected error for %q (unary right of '^' is not a primary)", src)
		}
	}
}

func TestParseChainedModuloIsRejected(t *testing.T) {
	_, err := Parse("x := 1 % 2 % 3")
	if err == nil {
		t.Fatal("expected error for chained '%'")
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := `if x == 1 then
  println "one"
elif x == 2 then
  println "two"
else
  println "other"
end`
	prog := parseOrFatal(t, src)
	ifStmt, ok := prog.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Body[0])
	}
	if len(ifStmt.ElifBranches) != 1 {
		t.Fatalf("expected 1 elif branch, got %d", len(ifStmt.ElifBranches))
	}
	if len(ifStmt.ElseBranch) != 1 {
		t.Fatalf("expected else branch with 1 statement, got %d", len(ifStmt.ElseBranch))
	}
}

func TestParseForLoopWithOptionalStep(t *testing.T) {
	prog := parseOrFatal(t, "for i := 1, 10, 2 do\n  println i\nend")
	forStmt, ok := prog.Body[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", prog.Body[0])
	}
	if forStmt.Name != "i" || forStmt.Step == nil {
		t.Fatalf("unexpected ForStmt: %#v", forStmt)
	}
}

func TestParseFunctionDeclAndCall(t *testing.T) {
	prog := parseOrFatal(t, "func add(a, b)\n  ret a + b\nend\nx := add(1, 2)")
	fn, ok := prog.Body[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %T", prog.Body[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected FunctionDecl: %#v", fn)
	}
	assign, ok := prog.Body[1].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt, got %T", prog.Body[1])
	}
	call, ok := assign.Value.(*ast.FunctionCall)
	if !ok || call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("unexpected call: %#v", assign.Value)
	}
}

func TestParseMissingEndReportsPartialProgram(t *testing.T) {
	_, err := Parse("x := 1\nif y then\n  z := 2")
	if err == nil {
		t.Fatal("expected error")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T", err)
	}
	if perr.PartialProgram == nil || len(perr.PartialProgram.Body) != 1 {
		t.Fatalf("expected partial program with 1 statement, got %#v", perr.PartialProgram)
	}
}
