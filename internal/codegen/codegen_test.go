package codegen

import (
	"testing"

	"github.com/cwbudde/waslang/internal/parser"
	"github.com/cwbudde/waslang/internal/wasmbin"
	"github.com/gkampitakis/go-snaps/snaps"
)

func compileOrFatal(t *testing.T, src string) ([]byte, []byte) {
	t.Helper()
	program, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	data, strData, err := Compile(program, CompileOptions{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return data, strData
}

func TestCompileEmitsValidHeader(t *testing.T) {
	data, _ := compileOrFatal(t, `println "hello"`)
	want := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	if len(data) < 8 {
		t.Fatalf("module too short: %d bytes", len(data))
	}
	for i, b := range want {
		if data[i] != b {
			t.Fatalf("header byte %d = %#x, want %#x", i, data[i], b)
		}
	}
}

func TestCompileInternsDuplicateStringLiteralsOnce(t *testing.T) {
	_, strData := compileOrFatal(t, `println "dup"
println "dup"`)
	// "dup" + NUL terminator is 4 bytes; if the literal were interned
	// twice the data segment would be 8 bytes.
	if len(strData) != 4 {
		t.Fatalf("expected a single 4-byte interned string, got %d bytes: %q", len(strData), strData)
	}
}

func TestCompileUnknownIdentifierIsCompileError(t *testing.T) {
	program, err := parser.Parse("println undefinedVar")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, _, err = Compile(program, CompileOptions{})
	if err == nil {
		t.Fatal("expected compile error for unknown identifier")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected *codegen.Error, got %T", err)
	}
}

func TestCompileDuplicateFunctionIsCompileError(t *testing.T) {
	program, err := parser.Parse("func f() ret 1 end\nfunc f() ret 2 end")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, _, err = Compile(program, CompileOptions{})
	if err == nil {
		t.Fatal("expected compile error for duplicate function declaration")
	}
}

// TestDisassembleSnapshot snapshots the disassembly of a small program
// exercising arithmetic, boolean coercion, a for loop, and a user
// function, so a one-opcode regression anywhere in codegen shows as a
// diff instead of silently passing (SPEC_FULL.md "Testing").
func TestDisassembleSnapshot(t *testing.T) {
	src := `func double(x)
  ret x * 2
end

local total := 0
for i := 1, 3 do
  local step := true + 1
  total := total + double(i) * step
end
println total`

	program, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	module, _, err := CompileModule(program, CompileOptions{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	snaps.MatchSnapshot(t, wasmbin.Disassemble(module))
}

// TestCompileMemoryPagesOption confirms waslang.yaml's memoryPages value
// actually reaches the emitted module instead of being silently dropped
// (SPEC_FULL.md "Configuration").
func TestCompileMemoryPagesOption(t *testing.T) {
	program, err := parser.Parse(`println "hi"`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	module, _, err := CompileModule(program, CompileOptions{MemoryPages: 8})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if module.MemoryPages != 8 {
		t.Errorf("MemoryPages = %d, want 8", module.MemoryPages)
	}

	defaultModule, _, err := CompileModule(program, CompileOptions{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if defaultModule.MemoryPages != 1 {
		t.Errorf("default MemoryPages = %d, want 1", defaultModule.MemoryPages)
	}
}
