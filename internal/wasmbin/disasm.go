package wasmbin

import (
	"fmt"
	"math"
	"strings"
)

// Disassemble renders every function body in m as an indented, one
// instruction per line listing, the format `--disassemble` prints
// (see SPEC_FULL.md's supplemented features).
func Disassemble(m *Module) string {
	var b strings.Builder
	for i, f := range m.Funcs {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("func_%d", m.FuncIndex(i))
		}
		fmt.Fprintf(&b, "(func $%s (type %d)\n", name, f.TypeIdx)
		depth := 1
		disassembleBody(&b, f.Body, &depth)
		b.WriteString(")\n")
	}
	return b.String()
}

func disassembleBody(b *strings.Builder, code []byte, depth *int) {
	pos := 0
	for pos < len(code) {
		op := code[pos]
		pos++

		if op == OpElse {
			*depth--
			writeIndent(b, *depth)
			b.WriteString("else\n")
			*depth++
			continue
		}
		if op == OpEnd {
			*depth--
			writeIndent(b, *depth)
			b.WriteString("end\n")
			continue
		}

		name, ok := opcodeNames[op]
		if !ok {
			writeIndent(b, *depth)
			fmt.Fprintf(b, "unknown(0x%02X)\n", op)
			continue
		}

		switch op {
		case OpBlock, OpLoop, OpIf:
			bt := code[pos]
			pos++
			writeIndent(b, *depth)
			b.WriteString(name)
			if t := blockTypeName(bt); t != "" {
				b.WriteString(" " + t)
			}
			b.WriteByte('\n')
			*depth++
		case OpBr, OpBrIf, OpCall, OpLocalGet, OpLocalSet, OpLocalTee, OpGlobalGet, OpGlobalSet:
			v, n := readUvarint(code, pos)
			pos += n
			writeIndent(b, *depth)
			fmt.Fprintf(b, "%s %d\n", name, v)
		case OpI32Const:
			v, n := readVarint(code, pos)
			pos += n
			writeIndent(b, *depth)
			fmt.Fprintf(b, "%s %d\n", name, v)
		case OpF64Const:
			bits := uint64(0)
			for i := 0; i < 8; i++ {
				bits |= uint64(code[pos+i]) << (8 * i)
			}
			pos += 8
			writeIndent(b, *depth)
			fmt.Fprintf(b, "%s %g\n", name, math.Float64frombits(bits))
		case OpI32Load, OpF64Load, OpI32Store, OpF64Store, OpI32Load8U, OpI32Store8:
			_, n := readUvarint(code, pos) // align
			pos += n
			offset, n2 := readUvarint(code, pos)
			pos += n2
			writeIndent(b, *depth)
			fmt.Fprintf(b, "%s offset=%d\n", name, offset)
		case OpMemorySize, OpMemoryGrow:
			pos++ // reserved memory-index byte
			writeIndent(b, *depth)
			b.WriteString(name)
			b.WriteByte('\n')
		default:
			writeIndent(b, *depth)
			b.WriteString(name)
			b.WriteByte('\n')
		}
	}
}

func blockTypeName(bt byte) string {
	switch bt {
	case BlockVoid:
		return ""
	case ValI32:
		return "(result i32)"
	case ValF64:
		return "(result f64)"
	default:
		return fmt.Sprintf("(result 0x%02X)", bt)
	}
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func readUvarint(data []byte, pos int) (uint64, int) {
	var result uint64
	var shift uint
	n := 0
	for {
		b := data[pos+n]
		n++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, n
}

func readVarint(data []byte, pos int) (int64, int) {
	var result int64
	var shift uint
	n := 0
	var b byte
	for {
		b = data[pos+n]
		n++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, n
}
