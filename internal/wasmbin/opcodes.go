package wasmbin

// Value types (WebAssembly 1.0 binary format §5.3.1).
const (
	ValI32 byte = 0x7F
	ValI64 byte = 0x7E
	ValF32 byte = 0x7D
	ValF64 byte = 0x7C
)

// BlockVoid marks a structured block ("if", "block", "loop") that leaves
// nothing on the stack; BlockI32/BlockF64 mark ones that leave a single
// value of that type.
const (
	BlockVoid byte = 0x40
	BlockI32  byte = ValI32
	BlockF64  byte = ValF64
)

// Section ids, in the order §4.3 requires them to appear.
const (
	SecType     byte = 1
	SecImport   byte = 2
	SecFunction byte = 3
	SecTable    byte = 4
	SecMemory   byte = 5
	SecGlobal   byte = 6
	SecExport   byte = 7
	SecStart    byte = 8
	SecElement  byte = 9
	SecCode     byte = 10
	SecData     byte = 11
)

// Export kinds (WebAssembly 1.0 binary format §5.5.10).
const (
	ExportFunc   byte = 0x00
	ExportTable  byte = 0x01
	ExportMemory byte = 0x02
	ExportGlobal byte = 0x03
)

// Control-flow and call opcodes.
const (
	OpUnreachable byte = 0x00
	OpNop         byte = 0x01
	OpBlock       byte = 0x02
	OpLoop        byte = 0x03
	OpIf          byte = 0x04
	OpElse        byte = 0x05
	OpEnd         byte = 0x0B
	OpBr          byte = 0x0C
	OpBrIf        byte = 0x0D
	OpReturn      byte = 0x0F
	OpCall        byte = 0x10
	OpDrop        byte = 0x1A
)

// Variable and memory access opcodes.
const (
	OpLocalGet   byte = 0x20
	OpLocalSet   byte = 0x21
	OpLocalTee   byte = 0x22
	OpGlobalGet  byte = 0x23
	OpGlobalSet  byte = 0x24
	OpI32Load    byte = 0x28
	OpF64Load    byte = 0x2B
	OpI32Store   byte = 0x36
	OpF64Store   byte = 0x39
	OpI32Load8U  byte = 0x2D
	OpI32Store8  byte = 0x3A
	OpMemorySize byte = 0x3F
	OpMemoryGrow byte = 0x40
)

// Constant opcodes.
const (
	OpI32Const byte = 0x41
	OpF64Const byte = 0x44
)

// i32 comparison/arithmetic opcodes.
const (
	OpI32Eqz  byte = 0x45
	OpI32Eq   byte = 0x46
	OpI32Ne   byte = 0x47
	OpI32LtS  byte = 0x48
	OpI32GtS  byte = 0x4A
	OpI32GeS  byte = 0x4E
	OpI32Add  byte = 0x6A
	OpI32Sub  byte = 0x6B
	OpI32Mul  byte = 0x6C
	OpI32DivU byte = 0x6E
	OpI32And  byte = 0x71
	OpI32Or   byte = 0x72
)

// f64 comparison/arithmetic opcodes.
const (
	OpF64Eq    byte = 0x61
	OpF64Ne    byte = 0x62
	OpF64Lt    byte = 0x63
	OpF64Gt    byte = 0x64
	OpF64Le    byte = 0x65
	OpF64Ge    byte = 0x66
	OpF64Neg   byte = 0x9A
	OpF64Trunc byte = 0x9F
	OpF64Add   byte = 0xA0
	OpF64Sub   byte = 0xA1
	OpF64Mul   byte = 0xA2
	OpF64Div   byte = 0xA3
)

// Conversion opcodes.
const (
	OpI32TruncF64S   byte = 0xAA
	OpF64ConvertI32S byte = 0xB7
)

// opcodeNames backs the disassembler (internal/wasmbin/disasm.go).
var opcodeNames = map[byte]string{
	OpUnreachable: "unreachable", OpNop: "nop", OpBlock: "block", OpLoop: "loop",
	OpIf: "if", OpElse: "else", OpEnd: "end", OpBr: "br", OpBrIf: "br_if",
	OpReturn: "return", OpCall: "call", OpDrop: "drop",
	OpLocalGet: "local.get", OpLocalSet: "local.set", OpLocalTee: "local.tee",
	OpGlobalGet: "global.get", OpGlobalSet: "global.set",
	OpI32Load: "i32.load", OpF64Load: "f64.load", OpI32Store: "i32.store", OpF64Store: "f64.store",
	OpI32Load8U: "i32.load8_u", OpI32Store8: "i32.store8",
	OpMemorySize: "memory.size", OpMemoryGrow: "memory.grow",
	OpI32Const: "i32.const", OpF64Const: "f64.const",
	OpI32Eqz: "i32.eqz", OpI32Eq: "i32.eq", OpI32Ne: "i32.ne",
	OpI32LtS: "i32.lt_s", OpI32GtS: "i32.gt_s", OpI32GeS: "i32.ge_s",
	OpI32Add: "i32.add", OpI32Sub: "i32.sub", OpI32Mul: "i32.mul", OpI32DivU: "i32.div_u",
	OpI32And: "i32.and", OpI32Or: "i32.or",
	OpF64Eq: "f64.eq", OpF64Ne: "f64.ne", OpF64Lt: "f64.lt", OpF64Gt: "f64.gt",
	OpF64Le: "f64.le", OpF64Ge: "f64.ge", OpF64Neg: "f64.neg", OpF64Trunc: "f64.trunc",
	OpF64Add: "f64.add", OpF64Sub: "f64.sub", OpF64Mul: "f64.mul", OpF64Div: "f64.div",
	OpI32TruncF64S: "i32.trunc_f64_s", OpF64ConvertI32S: "f64.convert_i32_s",
}
