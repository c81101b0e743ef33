package codegen

import "github.com/cwbudde/waslang/internal/wasmbin"

// compileRuntimeHelpers builds the fixed library of WebAssembly functions
// compiled into every module: boxing/unboxing, truthiness, modulo,
// exponentiation, heap growth, and the string-concatenation path for `+`
// (spec.md §4.3 "Runtime helpers").
func (c *Compiler) compileRuntimeHelpers() {
	c.setFunc(c.fnBoxNumber, c.buildBoxNumber())
	c.setFunc(c.fnUnboxNumber, c.buildUnboxNumber())
	c.setFunc(c.fnBoxBool, c.buildBoxBool())
	c.setFunc(c.fnBoxString, c.buildBoxString())
	c.setFunc(c.fnBoxNil, c.buildBoxNil())
	c.setFunc(c.fnIsTruthy, c.buildIsTruthy())
	c.setFunc(c.fnMod, c.buildMod())
	c.setFunc(c.fnPow, c.buildPow())
	c.setFunc(c.fnEnsureSpace, c.buildEnsureSpace())
	c.setFunc(c.fnToStringValue, c.buildToStringValue())
	c.setFunc(c.fnConcatValues, c.buildConcatValues())
	c.setFunc(c.fnAddValues, c.buildAddValues())
	c.setFunc(c.fnToNumber, c.buildToNumber())
	c.setFunc(c.fnIsNumericTag, c.buildIsNumericTag())
}

// heap_ptr is the module's only global, always index 0.
const heapPtrGlobal = 0

// buildBoxNumber: (f64 v) -> i32 ptr. Allocates a 16-byte cell, tag=1,
// f64 payload at offset 8.
func (c *Compiler) buildBoxNumber() wasmbin.Func {
	e := newEmitter()
	e.i32Const(16)
	e.call(c.fnEnsureSpace)
	e.globalGet(heapPtrGlobal)
	e.localSet(1) // ptr
	e.localGet(1)
	e.i32Const(1) // tag=number
	e.storeI32(0)
	e.localGet(1)
	e.localGet(0) // v
	e.storeF64(8)
	e.globalGet(heapPtrGlobal)
	e.i32Const(16)
	e.op(wasmbin.OpI32Add)
	e.globalSet(heapPtrGlobal)
	e.localGet(1)
	return wasmbin.Func{TypeIdx: c.tI32FromF64, Body: e.bytes(), Locals: localsGroup(1), Name: "box_number"}
}

func (c *Compiler) buildUnboxNumber() wasmbin.Func {
	e := newEmitter()
	e.localGet(0)
	e.loadF64(8)
	return wasmbin.Func{TypeIdx: c.tF64FromI32, Body: e.bytes(), Name: "unbox_number"}
}

func (c *Compiler) buildBoxBool() wasmbin.Func {
	e := newEmitter()
	e.i32Const(16)
	e.call(c.fnEnsureSpace)
	e.globalGet(heapPtrGlobal)
	e.localSet(1)
	e.localGet(1)
	e.i32Const(3) // tag=bool
	e.storeI32(0)
	e.localGet(1)
	e.localGet(0)
	e.storeI32(4)
	e.globalGet(heapPtrGlobal)
	e.i32Const(16)
	e.op(wasmbin.OpI32Add)
	e.globalSet(heapPtrGlobal)
	e.localGet(1)
	return wasmbin.Func{TypeIdx: c.tI32FromI32, Body: e.bytes(), Locals: localsGroup(1), Name: "box_bool"}
}

// buildBoxString: (i32 offset, i32 length) -> i32 ptr.
func (c *Compiler) buildBoxString() wasmbin.Func {
	e := newEmitter()
	e.i32Const(16)
	e.call(c.fnEnsureSpace)
	e.globalGet(heapPtrGlobal)
	e.localSet(2)
	e.localGet(2)
	e.i32Const(2) // tag=string
	e.storeI32(0)
	e.localGet(2)
	e.localGet(0) // offset
	e.storeI32(4)
	e.localGet(2)
	e.localGet(1) // length
	e.storeI32(8)
	e.globalGet(heapPtrGlobal)
	e.i32Const(16)
	e.op(wasmbin.OpI32Add)
	e.globalSet(heapPtrGlobal)
	e.localGet(2)
	return wasmbin.Func{TypeIdx: c.tI32FromI32I32, Body: e.bytes(), Locals: localsGroup(1), Name: "box_string"}
}

func (c *Compiler) buildBoxNil() wasmbin.Func {
	e := newEmitter()
	e.i32Const(16)
	e.call(c.fnEnsureSpace)
	e.globalGet(heapPtrGlobal)
	e.localSet(0)
	e.localGet(0)
	e.i32Const(0) // tag=nil
	e.storeI32(0)
	e.globalGet(heapPtrGlobal)
	e.i32Const(16)
	e.op(wasmbin.OpI32Add)
	e.globalSet(heapPtrGlobal)
	e.localGet(0)
	return wasmbin.Func{TypeIdx: c.tI32FromVoid, Body: e.bytes(), Locals: localsGroup(1), Name: "box_nil"}
}

// buildIsTruthy: (i32 ptr) -> i32. nil -> 0; number -> value!=0; bool ->
// the stored 0/1; string -> length>0; anything else -> 0.
func (c *Compiler) buildIsTruthy() wasmbin.Func {
	e := newEmitter()
	e.localGet(0)
	e.loadI32(0)
	e.localSet(1) // tag

	e.localGet(1)
	e.i32Const(0)
	e.op(wasmbin.OpI32Eq)
	e.ifBlock(wasmbin.BlockI32)
	e.i32Const(0)
	e.els()
	e.localGet(1)
	e.i32Const(1)
	e.op(wasmbin.OpI32Eq)
	e.ifBlock(wasmbin.BlockI32)
	e.localGet(0)
	e.loadF64(8)
	e.f64Const(0)
	e.op(wasmbin.OpF64Ne)
	e.els()
	e.localGet(1)
	e.i32Const(3)
	e.op(wasmbin.OpI32Eq)
	e.ifBlock(wasmbin.BlockI32)
	e.localGet(0)
	e.loadI32(4)
	e.els()
	e.localGet(1)
	e.i32Const(2)
	e.op(wasmbin.OpI32Eq)
	e.ifBlock(wasmbin.BlockI32)
	e.localGet(0)
	e.loadI32(8)
	e.i32Const(0)
	e.op(wasmbin.OpI32GtS)
	e.els()
	e.i32Const(0)
	e.end()
	e.end()
	e.end()
	e.end()

	return wasmbin.Func{TypeIdx: c.tI32FromI32, Body: e.bytes(), Locals: localsGroup(1), Name: "is_truthy"}
}

// buildMod: (f64 a, f64 b) -> f64, Lua/JS semantics a - trunc(a/b)*b.
func (c *Compiler) buildMod() wasmbin.Func {
	e := newEmitter()
	e.localGet(0)
	e.localGet(1)
	e.op(wasmbin.OpF64Div)
	e.op(wasmbin.OpF64Trunc)
	e.localSet(2) // q
	e.localGet(0)
	e.localGet(2)
	e.localGet(1)
	e.op(wasmbin.OpF64Mul)
	e.op(wasmbin.OpF64Sub)
	return wasmbin.Func{TypeIdx: c.tF64FromF64F64, Body: e.bytes(), Locals: []wasmbin.LocalGroup{{Count: 1, Type: wasmbin.ValF64}}, Name: "mod"}
}

// buildPow: (f64 base, f64 exp) -> f64. The exponent is truncated to an
// integer (spec.md §9's documented fallback when no host math_pow is
// wired); negative exponents invert the base.
func (c *Compiler) buildPow() wasmbin.Func {
	e := newEmitter()
	// n = trunc_i32(exp)
	e.localGet(1)
	e.op(wasmbin.OpI32TruncF64S)
	e.localSet(2) // n
	// base local copy, mutable
	e.localGet(0)
	e.localSet(4) // base (mutable copy)

	e.localGet(2)
	e.i32Const(0)
	e.op(wasmbin.OpI32LtS)
	e.ifBlock(wasmbin.BlockVoid)
	e.f64Const(1)
	e.localGet(4)
	e.op(wasmbin.OpF64Div)
	e.localSet(4)
	e.i32Const(0)
	e.localGet(2)
	e.op(wasmbin.OpI32Sub)
	e.localSet(2)
	e.end()

	e.f64Const(1)
	e.localSet(3) // acc

	e.block(wasmbin.BlockVoid)
	e.loop(wasmbin.BlockVoid)
	e.localGet(2)
	e.op(wasmbin.OpI32Eqz)
	e.brIf(1)
	e.localGet(3)
	e.localGet(4)
	e.op(wasmbin.OpF64Mul)
	e.localSet(3)
	e.localGet(2)
	e.i32Const(1)
	e.op(wasmbin.OpI32Sub)
	e.localSet(2)
	e.br(0)
	e.end()
	e.end()

	e.localGet(3)
	// local 2 = n (i32); locals 3, 4 = acc, base (f64)
	locals := []wasmbin.LocalGroup{{Count: 1, Type: wasmbin.ValI32}, {Count: 2, Type: wasmbin.ValF64}}
	return wasmbin.Func{TypeIdx: c.tF64FromF64F64, Body: e.bytes(), Locals: locals, Name: "pow"}
}

// buildEnsureSpace: (i32 n) -> (). Grows linear memory by ceil(n/65536)
// pages whenever heap_ptr + n exceeds the current memory size in bytes.
func (c *Compiler) buildEnsureSpace() wasmbin.Func {
	e := newEmitter()
	e.globalGet(heapPtrGlobal)
	e.localGet(0)
	e.op(wasmbin.OpI32Add)
	e.localSet(1) // needed

	e.memorySize()
	e.i32Const(65536)
	e.op(wasmbin.OpI32Mul)
	e.localSet(2) // current bytes

	e.localGet(1)
	e.localGet(2)
	e.op(wasmbin.OpI32GtS)
	e.ifBlock(wasmbin.BlockVoid)
	e.localGet(0)
	e.i32Const(65535)
	e.op(wasmbin.OpI32Add)
	e.i32Const(65536)
	e.op(wasmbin.OpI32DivU)
	e.memoryGrow()
	e.op(wasmbin.OpDrop)
	e.end()

	return wasmbin.Func{TypeIdx: c.tVoidFromI32, Body: e.bytes(), Locals: localsGroup(2), Name: "ensure_space"}
}

// buildToStringValue: (i32 ptr) -> i32, the already-a-string fast path
// around the host-imported to_string conversion.
func (c *Compiler) buildToStringValue() wasmbin.Func {
	e := newEmitter()
	e.localGet(0)
	e.loadI32(0)
	e.i32Const(2)
	e.op(wasmbin.OpI32Eq)
	e.ifBlock(wasmbin.BlockI32)
	e.localGet(0)
	e.els()
	e.localGet(0)
	e.call(c.fnToString)
	e.end()
	return wasmbin.Func{TypeIdx: c.tI32FromI32, Body: e.bytes(), Name: "to_string_value"}
}

// buildConcatValues: (i32 l, i32 r) -> i32. Stringifies both operands
// (via to_string_value) and copies their bytes into a fresh heap
// allocation, byte at a time (WebAssembly 1.0 has no bulk memory.copy).
func (c *Compiler) buildConcatValues() wasmbin.Func {
	e := newEmitter()
	// locals: 2=lstr 3=rstr 4=loff 5=llen 6=roff 7=rlen 8=dest 9=i 10=total
	e.localGet(0)
	e.call(c.fnToStringValue)
	e.localSet(2)
	e.localGet(1)
	e.call(c.fnToStringValue)
	e.localSet(3)

	e.localGet(2)
	e.loadI32(4)
	e.localSet(4)
	e.localGet(2)
	e.loadI32(8)
	e.localSet(5)
	e.localGet(3)
	e.loadI32(4)
	e.localSet(6)
	e.localGet(3)
	e.loadI32(8)
	e.localSet(7)

	e.localGet(5)
	e.localGet(7)
	e.op(wasmbin.OpI32Add)
	e.localSet(10)

	e.localGet(10)
	e.i32Const(16)
	e.op(wasmbin.OpI32Add)
	e.call(c.fnEnsureSpace)

	e.globalGet(heapPtrGlobal)
	e.localSet(8) // dest

	// copy left[0..llen)
	e.i32Const(0)
	e.localSet(9)
	e.block(wasmbin.BlockVoid)
	e.loop(wasmbin.BlockVoid)
	e.localGet(9)
	e.localGet(5)
	e.op(wasmbin.OpI32GeS)
	e.brIf(1)
	e.localGet(8)
	e.localGet(9)
	e.op(wasmbin.OpI32Add)
	e.localGet(4)
	e.localGet(9)
	e.op(wasmbin.OpI32Add)
	e.loadByte(0)
	e.storeByte(0)
	e.localGet(9)
	e.i32Const(1)
	e.op(wasmbin.OpI32Add)
	e.localSet(9)
	e.br(0)
	e.end()
	e.end()

	// copy right[0..rlen) into dest+llen+i
	e.i32Const(0)
	e.localSet(9)
	e.block(wasmbin.BlockVoid)
	e.loop(wasmbin.BlockVoid)
	e.localGet(9)
	e.localGet(7)
	e.op(wasmbin.OpI32GeS)
	e.brIf(1)
	e.localGet(8)
	e.localGet(5)
	e.op(wasmbin.OpI32Add)
	e.localGet(9)
	e.op(wasmbin.OpI32Add)
	e.localGet(6)
	e.localGet(9)
	e.op(wasmbin.OpI32Add)
	e.loadByte(0)
	e.storeByte(0)
	e.localGet(9)
	e.i32Const(1)
	e.op(wasmbin.OpI32Add)
	e.localSet(9)
	e.br(0)
	e.end()
	e.end()

	e.globalGet(heapPtrGlobal)
	e.localGet(10)
	e.op(wasmbin.OpI32Add)
	e.globalSet(heapPtrGlobal)

	e.localGet(8)
	e.localGet(10)
	e.call(c.fnBoxString)

	return wasmbin.Func{TypeIdx: c.tI32FromI32I32, Body: e.bytes(), Locals: localsGroup(9), Name: "concat_values"}
}

// buildToNumber: (i32 ptr) -> f64. Numbers unbox directly; booleans coerce
// through their stored 0/1 via f64.convert_i32_s, so `true + 1` yields 2
// (spec.md §4.3 "Boolean arithmetic"); any other tag coerces to 0.0.
func (c *Compiler) buildToNumber() wasmbin.Func {
	e := newEmitter()
	e.localGet(0)
	e.loadI32(0)
	e.localSet(1) // tag

	e.localGet(1)
	e.i32Const(1)
	e.op(wasmbin.OpI32Eq)
	e.ifBlock(wasmbin.BlockF64)
	e.localGet(0)
	e.call(c.fnUnboxNumber)
	e.els()
	e.localGet(1)
	e.i32Const(3)
	e.op(wasmbin.OpI32Eq)
	e.ifBlock(wasmbin.BlockF64)
	e.localGet(0)
	e.loadI32(4)
	e.op(wasmbin.OpF64ConvertI32S)
	e.els()
	e.f64Const(0)
	e.end()
	e.end()

	return wasmbin.Func{TypeIdx: c.tF64FromI32, Body: e.bytes(), Locals: localsGroup(1), Name: "to_number"}
}

// isNumericTag: (i32 tag) -> i32, true for number (1) or bool (3) — the
// two tags `to_number` can coerce without loss (spec.md §4.3 "Boolean
// arithmetic").
func (c *Compiler) buildIsNumericTag() wasmbin.Func {
	e := newEmitter()
	e.localGet(0)
	e.i32Const(1)
	e.op(wasmbin.OpI32Eq)
	e.localGet(0)
	e.i32Const(3)
	e.op(wasmbin.OpI32Eq)
	e.op(wasmbin.OpI32Or)
	return wasmbin.Func{TypeIdx: c.tI32FromI32, Body: e.bytes(), Name: "is_numeric_tag"}
}

// buildAddValues: (i32 l, i32 r) -> i32, the runtime dispatch behind `+`:
// numeric addition when both operands are numbers or booleans (coerced via
// to_number), string concatenation otherwise (spec.md §4.3's "+ operator
// additionally has string concatenation semantics").
func (c *Compiler) buildAddValues() wasmbin.Func {
	e := newEmitter()
	e.localGet(0)
	e.loadI32(0)
	e.localSet(2) // ltag
	e.localGet(1)
	e.loadI32(0)
	e.localSet(3) // rtag

	e.localGet(2)
	e.call(c.fnIsNumericTag)
	e.localGet(3)
	e.call(c.fnIsNumericTag)
	e.op(wasmbin.OpI32And)
	e.ifBlock(wasmbin.BlockI32)
	e.localGet(0)
	e.call(c.fnToNumber)
	e.localGet(1)
	e.call(c.fnToNumber)
	e.op(wasmbin.OpF64Add)
	e.call(c.fnBoxNumber)
	e.els()
	e.localGet(0)
	e.localGet(1)
	e.call(c.fnConcatValues)
	e.end()

	return wasmbin.Func{TypeIdx: c.tI32FromI32I32, Body: e.bytes(), Locals: localsGroup(2), Name: "add_values"}
}
