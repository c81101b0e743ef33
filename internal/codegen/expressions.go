package codegen

import (
	"github.com/cwbudde/waslang/internal/ast"
	"github.com/cwbudde/waslang/internal/wasmbin"
)

// arithmeticOps map a binary operator to its native f64 opcode; the result
// is re-boxed as a number. comparisonOps likewise but the result is boxed
// as a bool. `+` is handled separately (it dispatches through add_values
// to support string concatenation) and so is neither.
var arithmeticOps = map[string]byte{
	"-": wasmbin.OpF64Sub,
	"*": wasmbin.OpF64Mul,
	"/": wasmbin.OpF64Div,
}

var comparisonOps = map[string]byte{
	"==": wasmbin.OpF64Eq,
	"~=": wasmbin.OpF64Ne,
	"<":  wasmbin.OpF64Lt,
	">":  wasmbin.OpF64Gt,
	"<=": wasmbin.OpF64Le,
	">=": wasmbin.OpF64Ge,
}

// compileExpr compiles e so that exactly one boxed i32 pointer is left on
// the stack (spec.md §4.3 "Expression compilation").
func (c *Compiler) compileExpr(e *emitter, scope *funcScope, expr ast.Expression) error {
	switch ex := expr.(type) {
	case *ast.NumberLiteral:
		e.f64Const(ex.Value)
		e.call(c.fnBoxNumber)
		return nil

	case *ast.StringLiteral:
		offset, length := c.strings.intern(ex.Value)
		e.i32Const(int32(offset))
		e.i32Const(int32(length))
		e.call(c.fnBoxString)
		return nil

	case *ast.BooleanLiteral:
		if ex.Value {
			e.i32Const(1)
		} else {
			e.i32Const(0)
		}
		e.call(c.fnBoxBool)
		return nil

	case *ast.Identifier:
		slot, ok := scope.resolve(ex.Name)
		if !ok {
			return errAt(ex.Loc().Start, len(ex.Name), "Unknown identifier '%s'", ex.Name)
		}
		e.localGet(slot)
		return nil

	case *ast.Grouping:
		return c.compileExpr(e, scope, ex.Inner)

	case *ast.Unary:
		return c.compileUnary(e, scope, ex)

	case *ast.Binary:
		return c.compileBinary(e, scope, ex)

	case *ast.FunctionCall:
		return c.compileCall(e, scope, ex)

	default:
		return errAt(expr.Loc().Start, 1, "Unsupported expression type %T", expr)
	}
}

func (c *Compiler) compileUnary(e *emitter, scope *funcScope, ex *ast.Unary) error {
	switch ex.Op {
	case "+":
		return c.compileExpr(e, scope, ex.Operand)
	case "-":
		if lit, ok := ex.Operand.(*ast.NumberLiteral); ok {
			e.f64Const(-lit.Value)
			e.call(c.fnBoxNumber)
			return nil
		}
		if err := c.compileExpr(e, scope, ex.Operand); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		e.op(wasmbin.OpF64Neg)
		e.call(c.fnBoxNumber)
		return nil
	case "~":
		if err := c.compileExpr(e, scope, ex.Operand); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		e.f64Const(0)
		e.op(wasmbin.OpF64Eq)
		e.call(c.fnBoxBool)
		return nil
	default:
		return errAt(ex.Loc().Start, 1, "Unsupported unary operator '%s'", ex.Op)
	}
}

func (c *Compiler) compileBinary(e *emitter, scope *funcScope, ex *ast.Binary) error {
	switch ex.Op {
	case "and":
		return c.compileAnd(e, scope, ex)
	case "or":
		return c.compileOr(e, scope, ex)
	case "+":
		if err := c.compileExpr(e, scope, ex.Left); err != nil {
			return err
		}
		if err := c.compileExpr(e, scope, ex.Right); err != nil {
			return err
		}
		e.call(c.fnAddValues)
		return nil
	case "%":
		if err := c.compileExpr(e, scope, ex.Left); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		if err := c.compileExpr(e, scope, ex.Right); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		e.call(c.fnMod)
		e.call(c.fnBoxNumber)
		return nil
	case "^":
		if err := c.compileExpr(e, scope, ex.Left); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		if err := c.compileExpr(e, scope, ex.Right); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		e.call(c.fnPow)
		e.call(c.fnBoxNumber)
		return nil
	}

	if op, ok := arithmeticOps[ex.Op]; ok {
		if err := c.compileExpr(e, scope, ex.Left); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		if err := c.compileExpr(e, scope, ex.Right); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		e.op(op)
		e.call(c.fnBoxNumber)
		return nil
	}

	if op, ok := comparisonOps[ex.Op]; ok {
		if err := c.compileExpr(e, scope, ex.Left); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		if err := c.compileExpr(e, scope, ex.Right); err != nil {
			return err
		}
		e.call(c.fnToNumber)
		e.op(op)
		e.call(c.fnBoxBool)
		return nil
	}

	return errAt(ex.Loc().Start, 1, "Unsupported binary operator '%s'", ex.Op)
}

// compileAnd spills the left operand to the function's scratch slot so
// either branch of the structured if/else can produce it, yielding the
// first falsy operand or the last operand (spec.md §4.3).
func (c *Compiler) compileAnd(e *emitter, scope *funcScope, ex *ast.Binary) error {
	scratch := scope.scratchSlot()
	if err := c.compileExpr(e, scope, ex.Left); err != nil {
		return err
	}
	e.localTee(scratch)
	e.call(c.fnIsTruthy)
	e.ifBlock(wasmbin.BlockI32)
	if err := c.compileExpr(e, scope, ex.Right); err != nil {
		return err
	}
	e.els()
	e.localGet(scratch)
	e.end()
	return nil
}

func (c *Compiler) compileOr(e *emitter, scope *funcScope, ex *ast.Binary) error {
	scratch := scope.scratchSlot()
	if err := c.compileExpr(e, scope, ex.Left); err != nil {
		return err
	}
	e.localTee(scratch)
	e.call(c.fnIsTruthy)
	e.ifBlock(wasmbin.BlockI32)
	e.localGet(scratch)
	e.els()
	if err := c.compileExpr(e, scope, ex.Right); err != nil {
		return err
	}
	e.end()
	return nil
}

func (c *Compiler) compileCall(e *emitter, scope *funcScope, ex *ast.FunctionCall) error {
	fi, ok := c.funcs[ex.Name]
	if !ok {
		return errAt(ex.Loc().Start, len(ex.Name), "Unknown function '%s'", ex.Name)
	}
	if len(ex.Args) != fi.arity {
		return errAt(ex.Loc().Start, len(ex.Name), "Function '%s' expects %d argument(s), got %d", ex.Name, fi.arity, len(ex.Args))
	}
	for _, arg := range ex.Args {
		if err := c.compileExpr(e, scope, arg); err != nil {
			return err
		}
	}
	e.call(fi.index)
	if !fi.hasReturn {
		e.call(c.fnBoxNil)
	}
	return nil
}
