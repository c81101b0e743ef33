package wasmbin

import (
	"bytes"
	"testing"
)

// Vectors verified against tetratelabs/wazero's internal/leb128 test file
// (see DESIGN.md), e.g. 624485 -> {0xe5, 0x8e, 0x26}.
func TestEncodeUint32(t *testing.T) {
	tests := []struct {
		in   uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
	}
	for _, tt := range tests {
		if got := EncodeUint32(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeUint32(%d) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestEncodeInt32(t *testing.T) {
	tests := []struct {
		in   int32
		want []byte
	}{
		{0, []byte{0x00}},
		{2, []byte{0x02}},
		{-1, []byte{0x7f}},
		{-123456, []byte{0xc0, 0xbb, 0x78}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
	}
	for _, tt := range tests {
		if got := EncodeInt32(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeInt32(%d) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestEncodeUint64RoundTripsThroughUint32Shape(t *testing.T) {
	if got := EncodeUint64(624485); !bytes.Equal(got, []byte{0xe5, 0x8e, 0x26}) {
		t.Errorf("EncodeUint64(624485) = %#v", got)
	}
}
