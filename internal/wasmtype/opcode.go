package wasmtype

// OperandKind names the shape of one immediate operand slot of an
// instruction (spec.md §4.1).
type OperandKind string

const (
	KindLabelIdx  OperandKind = "labelidx"
	KindFuncIdx   OperandKind = "funcidx"
	KindTypeIdx   OperandKind = "typeidx"
	KindTableIdx  OperandKind = "tableidx"
	KindLaneIdx   OperandKind = "laneidx"
	KindByte16    OperandKind = "byte16"
	KindLaneIdx16 OperandKind = "laneidx16"
	KindRefType   OperandKind = "reftype"
	KindMemArg    OperandKind = "memarg"
	KindI32       OperandKind = "i32"
	KindI64       OperandKind = "i64"
	KindF32       OperandKind = "f32"
	KindF64       OperandKind = "f64"
	KindBlockType OperandKind = "blocktype"
	KindVec       OperandKind = "vec"

	// KindLocalIdx and KindGlobalIdx address the local/global index spaces.
	// These are not part of OperandSampler's condition vocabulary (§4.3) —
	// local/global indices are resolved directly by internal/modgen, which
	// owns the local and global allocation tables — but FunctionContext and
	// the Emitter still need a signature entry to validate and encode them.
	KindLocalIdx  OperandKind = "localidx"
	KindGlobalIdx OperandKind = "globalidx"
)

// Operand describes one immediate operand slot. Inner is only meaningful
// when Kind == KindVec (spec.md's "vec(<inner>)").
type Operand struct {
	Kind  OperandKind
	Inner OperandKind
}

// OpInfo is the static signature of one opcode: the value types it
// consumes and produces, and the shape of its immediate operands.
// len(Outputs) <= 1, per the RuleStore invariant in spec.md §3.
type OpInfo struct {
	Name     string
	Inputs   []ValueType
	Outputs  []ValueType
	Operands []Operand

	// WireName is the binary opcode name to actually emit, when it
	// differs from Name. local.get/set/tee and global.get/set are
	// registered once per value type so RuleStore can index them by the
	// type they move, but the Wasm opcode itself doesn't vary by type
	// (the operand local/global index supplies that) — WireName carries
	// the real, untyped opcode name in that case. Empty means Name itself
	// is the wire name.
	WireName string
}

// Table is the static opcode -> signature catalog (spec C1).
var Table = map[string]OpInfo{}

func reg(info OpInfo) {
	if _, dup := Table[info.Name]; dup {
		panic("wasmtype: duplicate opcode registration: " + info.Name)
	}
	Table[info.Name] = info
}

// MemArgAlign describes the legal alignment exponents (log2 of byte
// alignment) for each memory opcode, keyed by opcode name
// (spec.md §4.1 ALIGN_CANDIDATES).
var MemArgAlign = map[string][]uint32{}

func alignOf(widthBytes uint32) []uint32 {
	out := make([]uint32, 0, widthBytes)
	for exp := uint32(0); (uint32(1) << exp) <= widthBytes; exp++ {
		out = append(out, exp)
	}
	return out
}

// ExcludedFromSynthesis are opcodes InstructionTable knows about (for
// validators / disassembly) but that RuleStore never instantiates, because
// they are non-deterministic or produce no observable value
// (spec.md §4.1).
var ExcludedFromSynthesis = map[string]bool{
	"memory.grow": true,
	"memory.init": true,
	"data.drop":   true,
	"elem.drop":   true,
	"table.init":  true,
	"table.grow":  true,

	// Polymorphic-stack opcodes: their AnyStack operand resolves to
	// whatever type already happens to be on the stack, which the
	// recursive value-directed synthesizer (internal/modgen) has no way
	// to request from RuleStore. Left in Table for disassembly/validation
	// use, excluded here.
	"drop":     true,
	"select":   true,
	"select_t": true,

	// Bare wire-name entries that exist only for the Emitter's Signature
	// lookup (see variable.go); the typed "local.get.i32"-style entries
	// are what RuleStore actually indexes and instantiates.
	"local.get":  true,
	"local.set":  true,
	"local.tee":  true,
	"global.get": true,
	"global.set": true,

	// funcidx-operand opcodes: which function index is valid depends on
	// the module's function table, which internal/modgen's call-graph
	// builder (not a generic rule instantiation) owns. call/call_indirect
	// are generated directly by genCall/emitCallTo instead.
	"call":          true,
	"call_indirect": true,
	"ref.func":      true,
}

func init() {
	registerNumeric()
	registerParametricAndVariable()
	registerMemory()
	registerReferenceAndTable()
	registerSIMD()
}
