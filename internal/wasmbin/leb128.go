// Package wasmbin provides the low-level pieces needed to assemble a
// binary WebAssembly 1.0 module: LEB128 varint encoding, opcode and
// section-id constants, and a small section-ordered module writer
// (spec.md §4.3, §6). The varint encoder is hand-written but its shapes
// were checked against the test vectors retrieved from
// tetratelabs/wazero's internal/leb128 package (see DESIGN.md).
package wasmbin

// EncodeUint32 encodes v as an unsigned LEB128 varint.
func EncodeUint32(v uint32) []byte {
	return encodeUvarint(uint64(v))
}

// EncodeUint64 encodes v as an unsigned LEB128 varint.
func EncodeUint64(v uint64) []byte {
	return encodeUvarint(v)
}

func encodeUvarint(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}

// EncodeInt32 encodes v as a signed LEB128 varint.
func EncodeInt32(v int32) []byte {
	return encodeVarint(int64(v))
}

// EncodeInt64 encodes v as a signed LEB128 varint.
func EncodeInt64(v int64) []byte {
	return encodeVarint(v)
}

func encodeVarint(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}
