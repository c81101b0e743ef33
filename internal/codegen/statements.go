package codegen

import (
	"github.com/cwbudde/waslang/internal/ast"
	"github.com/cwbudde/waslang/internal/wasmbin"
)

// compileMain compiles the program's top-level statements into the body
// of the exported `main` function.
func (c *Compiler) compileMain(stmts []ast.Statement) ([]byte, uint32, error) {
	scope := newFuncScope()
	e := newEmitter()
	if err := c.compileStatements(e, scope, stmts); err != nil {
		return nil, 0, err
	}
	return e.bytes(), scope.extraLocals(0), nil
}

// compileUserFunction compiles a pre-registered function declaration into
// its own fresh scope stack (spec.md §3 invariant 3: "function bodies
// open a fresh scope stack").
func (c *Compiler) compileUserFunction(fi *funcInfo) ([]byte, []wasmbin.LocalGroup, uint32, error) {
	scope := newFuncScope()
	for _, p := range fi.decl.Params {
		scope.declareParam(p)
	}
	e := newEmitter()
	if err := c.compileStatements(e, scope, fi.decl.Body); err != nil {
		return nil, nil, 0, err
	}
	if fi.hasReturn {
		e.op(wasmbin.OpUnreachable)
	}

	arity := uint32(fi.arity)
	params := make([]byte, arity)
	for i := range params {
		params[i] = wasmbin.ValI32
	}
	var results []byte
	if fi.hasReturn {
		results = []byte{wasmbin.ValI32}
	}
	typeIdx := c.module.AddType(wasmbin.FuncType{Params: params, Results: results})
	return e.bytes(), localsGroup(scope.extraLocals(arity)), typeIdx, nil
}

func (c *Compiler) compileStatements(e *emitter, scope *funcScope, stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := c.compileStatement(e, scope, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileStatement(e *emitter, scope *funcScope, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		if err := c.compileExpr(e, scope, s.Value); err != nil {
			return err
		}
		e.call(c.fnPrint)
		return nil
	case *ast.PrintlnStmt:
		if err := c.compileExpr(e, scope, s.Value); err != nil {
			return err
		}
		e.call(c.fnPrintln)
		return nil
	case *ast.AssignStmt:
		if err := c.compileExpr(e, scope, s.Value); err != nil {
			return err
		}
		slot := scope.resolveOrCreate(s.Name)
		e.localSet(slot)
		return nil
	case *ast.LocalAssignStmt:
		if err := c.compileExpr(e, scope, s.Value); err != nil {
			return err
		}
		slot, ok := scope.declareLocal(s.Name)
		if !ok {
			return errAt(s.Loc().Start, len(s.Name), "Variable '%s' already declared in this scope", s.Name)
		}
		e.localSet(slot)
		return nil
	case *ast.IfStmt:
		return c.compileIf(e, scope, s.Condition, s.ThenBranch, s.ElifBranches, s.ElseBranch)
	case *ast.WhileStmt:
		return c.compileWhile(e, scope, s)
	case *ast.ForStmt:
		return c.compileFor(e, scope, s)
	case *ast.FunctionDecl:
		// Already registered and compiled independently in the pre-pass;
		// encountering the statement in sequence emits nothing further.
		return nil
	case *ast.ReturnStmt:
		if err := c.compileExpr(e, scope, s.Value); err != nil {
			return err
		}
		e.op(wasmbin.OpReturn)
		return nil
	case *ast.ExpressionStmt:
		if err := c.compileExpr(e, scope, s.Expr); err != nil {
			return err
		}
		e.op(wasmbin.OpDrop)
		return nil
	default:
		return errAt(stmt.Loc().Start, 1, "Unsupported statement type %T", stmt)
	}
}

// compileIf folds the elif chain right-to-left into nested binary
// if/else, synthesizing the surface elif/else grammar from WebAssembly's
// structured if/else (spec.md §9 "If/elif synthesis").
func (c *Compiler) compileIf(e *emitter, scope *funcScope, cond ast.Expression, thenBody []ast.Statement, elifs []ast.ElifBranch, elseBody []ast.Statement) error {
	if err := c.compileExpr(e, scope, cond); err != nil {
		return err
	}
	e.call(c.fnIsTruthy)
	e.ifBlock(wasmbin.BlockVoid)

	scope.pushScope()
	if err := c.compileStatements(e, scope, thenBody); err != nil {
		return err
	}
	scope.popScope()

	e.els()

	if len(elifs) > 0 {
		if err := c.compileIf(e, scope, elifs[0].Condition, elifs[0].Body, elifs[1:], elseBody); err != nil {
			return err
		}
	} else {
		scope.pushScope()
		if err := c.compileStatements(e, scope, elseBody); err != nil {
			return err
		}
		scope.popScope()
	}

	e.end()
	return nil
}

func (c *Compiler) compileWhile(e *emitter, scope *funcScope, s *ast.WhileStmt) error {
	e.block(wasmbin.BlockVoid)
	e.loop(wasmbin.BlockVoid)

	if err := c.compileExpr(e, scope, s.Condition); err != nil {
		return err
	}
	e.call(c.fnIsTruthy)
	e.op(wasmbin.OpI32Eqz)
	e.brIf(1)

	scope.pushScope()
	if err := c.compileStatements(e, scope, s.Body); err != nil {
		return err
	}
	scope.popScope()

	e.br(0)
	e.end()
	e.end()
	return nil
}

// compileFor implements the ascending/descending loop described in
// spec.md §4.3 and §9: the step is evaluated once, its sign cached in a
// slot reserved for this loop alone, and the loop variable lives in its own
// nested frame so it shadows (rather than clobbers) any same-named
// outer binding (spec.md §8 scenario 4).
func (c *Compiler) compileFor(e *emitter, scope *funcScope, s *ast.ForStmt) error {
	scope.pushScope()
	defer scope.popScope()

	if err := c.compileExpr(e, scope, s.Start); err != nil {
		return err
	}
	iSlot, _ := scope.declareLocal(s.Name)
	e.localSet(iSlot)

	if err := c.compileExpr(e, scope, s.End); err != nil {
		return err
	}
	endSlot := scope.allocAnon()
	e.localSet(endSlot)

	if s.Step != nil {
		if err := c.compileExpr(e, scope, s.Step); err != nil {
			return err
		}
	} else {
		e.f64Const(1)
		e.call(c.fnBoxNumber)
	}
	stepSlot := scope.allocAnon()
	e.localSet(stepSlot)

	descSlot := scope.allocAnon()
	e.localGet(stepSlot)
	e.call(c.fnUnboxNumber)
	e.f64Const(0)
	e.op(wasmbin.OpF64Lt)
	e.localSet(descSlot)

	e.block(wasmbin.BlockVoid)
	e.loop(wasmbin.BlockVoid)

	e.localGet(descSlot)
	e.ifBlock(wasmbin.BlockI32)
	e.localGet(iSlot)
	e.call(c.fnUnboxNumber)
	e.localGet(endSlot)
	e.call(c.fnUnboxNumber)
	e.op(wasmbin.OpF64Lt)
	e.els()
	e.localGet(iSlot)
	e.call(c.fnUnboxNumber)
	e.localGet(endSlot)
	e.call(c.fnUnboxNumber)
	e.op(wasmbin.OpF64Gt)
	e.end()
	e.brIf(1)

	scope.pushScope()
	if err := c.compileStatements(e, scope, s.Body); err != nil {
		return err
	}
	scope.popScope()

	e.localGet(iSlot)
	e.call(c.fnUnboxNumber)
	e.localGet(stepSlot)
	e.call(c.fnUnboxNumber)
	e.op(wasmbin.OpF64Add)
	e.call(c.fnBoxNumber)
	e.localSet(iSlot)

	e.br(0)
	e.end()
	e.end()
	return nil
}
