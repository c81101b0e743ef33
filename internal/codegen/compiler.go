// Package codegen implements the single-pass code generator: it walks an
// AST once and emits a complete WebAssembly 1.0 module (spec.md §4.3),
// alongside the fixed library of runtime helper functions (boxing,
// truthiness, modulo, exponentiation) that every compiled module carries.
package codegen

import (
	"github.com/cwbudde/waslang/internal/ast"
	"github.com/cwbudde/waslang/internal/wasmbin"
)

// funcInfo records what the pre-pass learns about a user-declared function
// before its body is compiled, so call sites elsewhere in the single pass
// can resolve the callee's index, arity, and signature immediately.
type funcInfo struct {
	decl      *ast.FunctionDecl
	index     uint32
	arity     int
	hasReturn bool
}

// Compiler holds everything shared across one compile(program) invocation:
// the module under construction, the string table, and the fixed function
// indices assigned to imports and runtime helpers.
type Compiler struct {
	module  *wasmbin.Module
	strings *stringTable
	funcs   map[string]*funcInfo
	order   []string

	firstLocal uint32 // index of the first locally-defined function (after imports)

	// type indices
	tVoidFromI32   uint32 // (i32)->()
	tI32FromI32    uint32 // (i32)->i32
	tI32FromF64    uint32 // (f64)->i32
	tF64FromI32    uint32 // (i32)->f64
	tI32FromI32I32 uint32 // (i32,i32)->i32
	tI32FromVoid   uint32 // ()->i32
	tF64FromF64F64 uint32 // (f64,f64)->f64
	tVoidFromVoid  uint32 // ()->()

	// import indices
	fnPrint    uint32
	fnPrintln  uint32
	fnToString uint32

	// fixed helper indices
	fnMain          uint32
	fnBoxNumber     uint32
	fnUnboxNumber   uint32
	fnBoxBool       uint32
	fnBoxString     uint32
	fnBoxNil        uint32
	fnIsTruthy      uint32
	fnMod           uint32
	fnPow           uint32
	fnEnsureSpace   uint32
	fnToStringValue uint32
	fnConcatValues  uint32
	fnAddValues     uint32
	fnToNumber      uint32
	fnIsNumericTag  uint32
}

// CompileOptions carries the handful of module-level knobs that come from
// waslang.yaml / CLI flags rather than from the program text itself
// (SPEC_FULL.md "Configuration").
type CompileOptions struct {
	// MemoryPages is the module's initial linear memory page count (64KiB
	// each). Zero means "unset" and falls back to 1, matching
	// defaultConfig()'s compiled-in default.
	MemoryPages int
}

// Compile translates program into a complete binary WebAssembly module,
// matching the compile(program) -> (bytes, error?, stringData) contract.
func Compile(program *ast.Program, opts CompileOptions) ([]byte, []byte, error) {
	m, stringData, err := CompileModule(program, opts)
	if err != nil {
		return nil, nil, err
	}
	return m.Encode(), stringData, nil
}

// CompileModule is Compile without the final binary encoding step, so
// callers (the build CLI's --disassemble flag) can inspect the assembled
// module before serializing it.
func CompileModule(program *ast.Program, opts CompileOptions) (*wasmbin.Module, []byte, error) {
	memoryPages := opts.MemoryPages
	if memoryPages <= 0 {
		memoryPages = 1
	}
	c := &Compiler{
		module:  &wasmbin.Module{MemoryPages: uint32(memoryPages)},
		strings: newStringTable(),
		funcs:   make(map[string]*funcInfo),
	}
	c.registerTypes()
	c.registerImports()
	c.reserveFixedIndices()

	if err := c.collectFunctions(program.Body); err != nil {
		return nil, nil, err
	}

	total := c.firstLocal + uint32(fixedHelperCount) + uint32(len(c.order))
	c.module.Funcs = make([]wasmbin.Func, total-uint32(len(c.module.Imports)))

	c.compileRuntimeHelpers()

	mainBody, mainExtraLocals, err := c.compileMain(program.Body)
	if err != nil {
		return nil, nil, err
	}
	c.setFunc(c.fnMain, wasmbin.Func{TypeIdx: c.tVoidFromVoid, Body: mainBody, Locals: localsGroup(mainExtraLocals), Name: "main"})

	for _, name := range c.order {
		fi := c.funcs[name]
		body, locals, typeIdx, err := c.compileUserFunction(fi)
		if err != nil {
			return nil, nil, err
		}
		c.setFunc(fi.index, wasmbin.Func{TypeIdx: typeIdx, Body: body, Locals: locals, Name: name})
	}

	c.module.Data = c.strings.bytes()
	c.module.Globals = []wasmbin.Global{{Type: wasmbin.ValI32, Mutable: true, InitI32: int32(len(c.module.Data) + 1)}}
	c.module.Exports = []wasmbin.Export{
		{Name: "main", Kind: wasmbin.ExportFunc, Index: c.fnMain},
		{Name: "memory", Kind: wasmbin.ExportMemory, Index: 0},
	}

	return c.module, c.strings.bytes(), nil
}

const fixedHelperCount = 15 // main + box_number .. is_numeric_tag, see reserveFixedIndices

func (c *Compiler) setFunc(index uint32, f wasmbin.Func) {
	c.module.Funcs[index-uint32(len(c.module.Imports))] = f
}

func (c *Compiler) registerTypes() {
	i32 := []byte{wasmbin.ValI32}
	f64 := []byte{wasmbin.ValF64}
	i32i32 := []byte{wasmbin.ValI32, wasmbin.ValI32}
	f64f64 := []byte{wasmbin.ValF64, wasmbin.ValF64}
	var empty []byte

	c.tVoidFromI32 = c.module.AddType(wasmbin.FuncType{Params: i32, Results: empty})
	c.tI32FromI32 = c.module.AddType(wasmbin.FuncType{Params: i32, Results: i32})
	c.tI32FromF64 = c.module.AddType(wasmbin.FuncType{Params: f64, Results: i32})
	c.tF64FromI32 = c.module.AddType(wasmbin.FuncType{Params: i32, Results: f64})
	c.tI32FromI32I32 = c.module.AddType(wasmbin.FuncType{Params: i32i32, Results: i32})
	c.tI32FromVoid = c.module.AddType(wasmbin.FuncType{Params: empty, Results: i32})
	c.tF64FromF64F64 = c.module.AddType(wasmbin.FuncType{Params: f64f64, Results: f64})
	c.tVoidFromVoid = c.module.AddType(wasmbin.FuncType{Params: empty, Results: empty})
}

func (c *Compiler) registerImports() {
	c.module.Imports = []wasmbin.Import{
		{Module: "env", Name: "print", TypeIdx: c.tVoidFromI32},
		{Module: "env", Name: "println", TypeIdx: c.tVoidFromI32},
		{Module: "env", Name: "to_string", TypeIdx: c.tI32FromI32},
	}
	c.fnPrint, c.fnPrintln, c.fnToString = 0, 1, 2
}

// reserveFixedIndices assigns the function-index-space positions of main
// and every runtime helper, in the exact order spec.md §4.3 requires them
// to appear in the Function/Code sections.
func (c *Compiler) reserveFixedIndices() {
	base := uint32(len(c.module.Imports))
	c.firstLocal = base
	c.fnMain = base + 0
	c.fnBoxNumber = base + 1
	c.fnUnboxNumber = base + 2
	c.fnBoxBool = base + 3
	c.fnBoxString = base + 4
	c.fnBoxNil = base + 5
	c.fnIsTruthy = base + 6
	c.fnMod = base + 7
	c.fnPow = base + 8
	c.fnEnsureSpace = base + 9
	c.fnToStringValue = base + 10
	c.fnConcatValues = base + 11
	c.fnAddValues = base + 12
	c.fnToNumber = base + 13
	c.fnIsNumericTag = base + 14
}

// collectFunctions is the pre-pass that gives every user-declared function
// a stable index before any call site needs to resolve it, matching
// spec.md §9's "function names are looked up in a compile-time table...a
// call site records the callee's WebAssembly function index directly."
func (c *Compiler) collectFunctions(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			if _, exists := c.funcs[s.Name]; exists {
				return errAt(s.Loc().Start, len(s.Name), "Function '%s' already declared", s.Name)
			}
			fi := &funcInfo{
				decl:      s,
				index:     c.firstLocal + fixedHelperCount + uint32(len(c.order)),
				arity:     len(s.Params),
				hasReturn: containsReturn(s.Body),
			}
			c.funcs[s.Name] = fi
			c.order = append(c.order, s.Name)
			if err := c.collectFunctions(s.Body); err != nil {
				return err
			}
		case *ast.IfStmt:
			if err := c.collectFunctions(s.ThenBranch); err != nil {
				return err
			}
			for _, elif := range s.ElifBranches {
				if err := c.collectFunctions(elif.Body); err != nil {
					return err
				}
			}
			if err := c.collectFunctions(s.ElseBranch); err != nil {
				return err
			}
		case *ast.WhileStmt:
			if err := c.collectFunctions(s.Body); err != nil {
				return err
			}
		case *ast.ForStmt:
			if err := c.collectFunctions(s.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

// containsReturn reports whether stmts contains a ReturnStmt reachable
// without crossing into a nested function's own body.
func containsReturn(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			return true
		case *ast.IfStmt:
			if containsReturn(s.ThenBranch) || containsReturn(s.ElseBranch) {
				return true
			}
			for _, elif := range s.ElifBranches {
				if containsReturn(elif.Body) {
					return true
				}
			}
		case *ast.WhileStmt:
			if containsReturn(s.Body) {
				return true
			}
		case *ast.ForStmt:
			if containsReturn(s.Body) {
				return true
			}
		}
	}
	return false
}

func localsGroup(count uint32) []wasmbin.LocalGroup {
	if count == 0 {
		return nil
	}
	return []wasmbin.LocalGroup{{Count: count, Type: wasmbin.ValI32}}
}
