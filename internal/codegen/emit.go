package codegen

import (
	"bytes"

	"github.com/cwbudde/waslang/internal/wasmbin"
)

// emitter accumulates the raw instruction bytes of a single function body.
// It is a thin convenience wrapper over wasmbin's encoding helpers; the
// section-level assembly itself lives in wasmbin.Module.
type emitter struct {
	buf bytes.Buffer
}

func newEmitter() *emitter { return &emitter{} }

func (e *emitter) op(b byte) { e.buf.WriteByte(b) }

func (e *emitter) u32(v uint32) { e.buf.Write(wasmbin.EncodeUint32(v)) }

func (e *emitter) i32(v int32) { e.buf.Write(wasmbin.EncodeInt32(v)) }

func (e *emitter) f64(v float64) { e.buf.Write(wasmbin.EncodeF64(v)) }

func (e *emitter) call(fnIdx uint32) {
	e.op(wasmbin.OpCall)
	e.u32(fnIdx)
}

func (e *emitter) localGet(slot uint32) {
	e.op(wasmbin.OpLocalGet)
	e.u32(slot)
}

func (e *emitter) localSet(slot uint32) {
	e.op(wasmbin.OpLocalSet)
	e.u32(slot)
}

func (e *emitter) localTee(slot uint32) {
	e.op(wasmbin.OpLocalTee)
	e.u32(slot)
}

func (e *emitter) globalGet(idx uint32) {
	e.op(wasmbin.OpGlobalGet)
	e.u32(idx)
}

func (e *emitter) globalSet(idx uint32) {
	e.op(wasmbin.OpGlobalSet)
	e.u32(idx)
}

func (e *emitter) i32Const(v int32) {
	e.op(wasmbin.OpI32Const)
	e.i32(v)
}

func (e *emitter) f64Const(v float64) {
	e.op(wasmbin.OpF64Const)
	e.f64(v)
}

func (e *emitter) loadI32(offset uint32) {
	e.op(wasmbin.OpI32Load)
	e.u32(0) // align
	e.u32(offset)
}

func (e *emitter) storeI32(offset uint32) {
	e.op(wasmbin.OpI32Store)
	e.u32(0)
	e.u32(offset)
}

func (e *emitter) loadF64(offset uint32) {
	e.op(wasmbin.OpF64Load)
	e.u32(0)
	e.u32(offset)
}

func (e *emitter) storeF64(offset uint32) {
	e.op(wasmbin.OpF64Store)
	e.u32(0)
	e.u32(offset)
}

func (e *emitter) loadByte(offset uint32) {
	e.op(wasmbin.OpI32Load8U)
	e.u32(0)
	e.u32(offset)
}

func (e *emitter) storeByte(offset uint32) {
	e.op(wasmbin.OpI32Store8)
	e.u32(0)
	e.u32(offset)
}

func (e *emitter) ifBlock(resultType byte) {
	e.op(wasmbin.OpIf)
	e.op(resultType)
}

func (e *emitter) block(resultType byte) {
	e.op(wasmbin.OpBlock)
	e.op(resultType)
}

func (e *emitter) loop(resultType byte) {
	e.op(wasmbin.OpLoop)
	e.op(resultType)
}

func (e *emitter) els() { e.op(wasmbin.OpElse) }

func (e *emitter) end() { e.op(wasmbin.OpEnd) }

func (e *emitter) brIf(label uint32) {
	e.op(wasmbin.OpBrIf)
	e.u32(label)
}

func (e *emitter) br(label uint32) {
	e.op(wasmbin.OpBr)
	e.u32(label)
}

// memorySize and memoryGrow each carry a reserved memory-index byte (always
// 0 until the multi-memory proposal) that the WebAssembly 1.0 binary format
// requires immediately after the opcode.
func (e *emitter) memorySize() {
	e.op(wasmbin.OpMemorySize)
	e.op(0x00)
}

func (e *emitter) memoryGrow() {
	e.op(wasmbin.OpMemoryGrow)
	e.op(0x00)
}

func (e *emitter) bytes() []byte { return e.buf.Bytes() }
