package wasmbin

import "testing"

// TestDisassembleLoadStoreAndMemoryOps exercises the operand-consuming
// cases disassembleBody must get right: align+offset pairs for the load/
// store family (including the byte-sized i32.load8_u/store8) and the
// reserved memory-index byte after memory.size/memory.grow.
func TestDisassembleLoadStoreAndMemoryOps(t *testing.T) {
	var body []byte
	body = append(body, OpI32Const)
	body = append(body, EncodeInt32(4)...)
	body = append(body, OpI32Load8U)
	body = append(body, EncodeUint32(0)...) // align
	body = append(body, EncodeUint32(8)...) // offset
	body = append(body, OpMemorySize, 0x00)
	body = append(body, OpMemoryGrow, 0x00)

	m := &Module{Funcs: []Func{{Name: "f", Body: body}}}
	out := Disassemble(m)

	want := "(func $f (type 0)\n" +
		"  i32.const 4\n" +
		"  i32.load8_u offset=8\n" +
		"  memory.size\n" +
		"  memory.grow\n" +
		")\n"
	if out != want {
		t.Errorf("disassembly mismatch:\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestDisassembleStructuredControlFlow(t *testing.T) {
	var body []byte
	body = append(body, OpBlock, BlockVoid)
	body = append(body, OpLoop, BlockVoid)
	body = append(body, OpI32Const)
	body = append(body, EncodeInt32(1)...)
	body = append(body, OpBrIf)
	body = append(body, EncodeUint32(1)...)
	body = append(body, OpEnd)
	body = append(body, OpEnd)

	m := &Module{Funcs: []Func{{Name: "loop_fn", Body: body}}}
	out := Disassemble(m)

	want := "(func $loop_fn (type 0)\n" +
		"  block\n" +
		"    loop\n" +
		"      i32.const 1\n" +
		"      br_if 1\n" +
		"    end\n" +
		"  end\n" +
		")\n"
	if out != want {
		t.Errorf("disassembly mismatch:\ngot:\n%s\nwant:\n%s", out, want)
	}
}
