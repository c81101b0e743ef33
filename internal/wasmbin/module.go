package wasmbin

import (
	"bytes"
	"encoding/binary"
	"math"
)

// magic + version header every WebAssembly 1.0 module begins with.
var header = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

// FuncType is a (params)->(results) function signature.
type FuncType struct {
	Params  []byte
	Results []byte
}

func (t FuncType) equal(o FuncType) bool {
	return bytes.Equal(t.Params, o.Params) && bytes.Equal(t.Results, o.Results)
}

// Import is an imported function, always from the "env" namespace per
// spec.md §6.
type Import struct {
	Module  string
	Name    string
	TypeIdx uint32
}

// Global is the module's single mutable i32 heap_ptr global (spec.md §4.3).
type Global struct {
	Type    byte
	Mutable bool
	InitI32 int32
}

// Export names a function or the linear memory for the host (spec.md §6).
type Export struct {
	Name string
	Kind byte
	Index uint32
}

// LocalGroup is one run of same-typed locals in a function's prologue.
type LocalGroup struct {
	Count uint32
	Type  byte
}

// Func is one function body: its signature (by type index), its declared
// locals, and its instruction bytes (without the trailing function-end
// opcode, which Encode appends).
type Func struct {
	TypeIdx uint32
	Locals  []LocalGroup
	Body    []byte
	Name    string // not emitted; used by the disassembler
}

// Module accumulates the sections of a WebAssembly 1.0 module in the
// order spec.md §4.3 requires them to be written.
type Module struct {
	Types       []FuncType
	Imports     []Import
	Funcs       []Func
	MemoryPages uint32
	Globals     []Global
	Exports     []Export
	Data        []byte
}

// AddType interns t into the type section, returning its index. Distinct
// signatures are deduplicated, matching spec.md §4.3's "one function type
// per distinct signature".
func (m *Module) AddType(t FuncType) uint32 {
	for i, existing := range m.Types {
		if existing.equal(t) {
			return uint32(i)
		}
	}
	m.Types = append(m.Types, t)
	return uint32(len(m.Types) - 1)
}

// FuncIndex computes the WebAssembly function index for the nth
// locally-defined function (imports occupy the indices before it).
func (m *Module) FuncIndex(localIndex int) uint32 {
	return uint32(len(m.Imports) + localIndex)
}

// Encode assembles the complete binary module.
func (m *Module) Encode() []byte {
	var out bytes.Buffer
	out.Write(header)

	writeSection(&out, SecType, m.encodeTypeSection())
	if len(m.Imports) > 0 {
		writeSection(&out, SecImport, m.encodeImportSection())
	}
	writeSection(&out, SecFunction, m.encodeFunctionSection())
	writeSection(&out, SecMemory, m.encodeMemorySection())
	if len(m.Globals) > 0 {
		writeSection(&out, SecGlobal, m.encodeGlobalSection())
	}
	writeSection(&out, SecExport, m.encodeExportSection())
	writeSection(&out, SecCode, m.encodeCodeSection())
	if len(m.Data) > 0 {
		writeSection(&out, SecData, m.encodeDataSection())
	}

	return out.Bytes()
}

func writeSection(out *bytes.Buffer, id byte, payload []byte) {
	out.WriteByte(id)
	out.Write(EncodeUint32(uint32(len(payload))))
	out.Write(payload)
}

func vecPrefix(n int) []byte { return EncodeUint32(uint32(n)) }

func (m *Module) encodeTypeSection() []byte {
	var b bytes.Buffer
	b.Write(vecPrefix(len(m.Types)))
	for _, t := range m.Types {
		b.WriteByte(0x60)
		b.Write(vecPrefix(len(t.Params)))
		b.Write(t.Params)
		b.Write(vecPrefix(len(t.Results)))
		b.Write(t.Results)
	}
	return b.Bytes()
}

func (m *Module) encodeImportSection() []byte {
	var b bytes.Buffer
	b.Write(vecPrefix(len(m.Imports)))
	for _, imp := range m.Imports {
		writeName(&b, imp.Module)
		writeName(&b, imp.Name)
		b.WriteByte(0x00) // func import
		b.Write(EncodeUint32(imp.TypeIdx))
	}
	return b.Bytes()
}

func (m *Module) encodeFunctionSection() []byte {
	var b bytes.Buffer
	b.Write(vecPrefix(len(m.Funcs)))
	for _, f := range m.Funcs {
		b.Write(EncodeUint32(f.TypeIdx))
	}
	return b.Bytes()
}

func (m *Module) encodeMemorySection() []byte {
	var b bytes.Buffer
	b.Write(vecPrefix(1))
	b.WriteByte(0x00) // no maximum
	pages := m.MemoryPages
	if pages == 0 {
		pages = 1
	}
	b.Write(EncodeUint32(pages))
	return b.Bytes()
}

func (m *Module) encodeGlobalSection() []byte {
	var b bytes.Buffer
	b.Write(vecPrefix(len(m.Globals)))
	for _, g := range m.Globals {
		b.WriteByte(g.Type)
		if g.Mutable {
			b.WriteByte(0x01)
		} else {
			b.WriteByte(0x00)
		}
		b.WriteByte(OpI32Const)
		b.Write(EncodeInt32(g.InitI32))
		b.WriteByte(OpEnd)
	}
	return b.Bytes()
}

func (m *Module) encodeExportSection() []byte {
	var b bytes.Buffer
	b.Write(vecPrefix(len(m.Exports)))
	for _, e := range m.Exports {
		writeName(&b, e.Name)
		b.WriteByte(e.Kind)
		b.Write(EncodeUint32(e.Index))
	}
	return b.Bytes()
}

func (m *Module) encodeCodeSection() []byte {
	var b bytes.Buffer
	b.Write(vecPrefix(len(m.Funcs)))
	for _, f := range m.Funcs {
		var body bytes.Buffer
		body.Write(vecPrefix(len(f.Locals)))
		for _, lg := range f.Locals {
			body.Write(EncodeUint32(lg.Count))
			body.WriteByte(lg.Type)
		}
		body.Write(f.Body)
		body.WriteByte(OpEnd)

		b.Write(EncodeUint32(uint32(body.Len())))
		b.Write(body.Bytes())
	}
	return b.Bytes()
}

func (m *Module) encodeDataSection() []byte {
	var b bytes.Buffer
	b.Write(vecPrefix(1))
	b.WriteByte(0x00) // memory index 0
	b.WriteByte(OpI32Const)
	b.Write(EncodeInt32(0))
	b.WriteByte(OpEnd)
	b.Write(vecPrefix(len(m.Data)))
	b.Write(m.Data)
	return b.Bytes()
}

func writeName(b *bytes.Buffer, s string) {
	b.Write(vecPrefix(len(s)))
	b.WriteString(s)
}

// EncodeF64 renders v as the 8-byte little-endian payload of an f64.const
// immediate.
func EncodeF64(v float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}
