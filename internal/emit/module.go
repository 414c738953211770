package emit

import "github.com/cranerule/wasmgen/internal/wasmtype"

// Section IDs, per the core Wasm binary format (spec.md §6 "Module
// output"), named the way the teacher names its own section constants.
const (
	SectionIDCustom   = 0
	SectionIDType     = 1
	SectionIDImport   = 2
	SectionIDFunction = 3
	SectionIDTable    = 4
	SectionIDMemory   = 5
	SectionIDGlobal   = 6
	SectionIDExport   = 7
	SectionIDStart    = 8
	SectionIDElement  = 9
	SectionIDCode     = 10
	SectionIDData     = 11
)

// FuncType is one Type-section entry.
type FuncType struct {
	Params  []wasmtype.ValueType
	Results []wasmtype.ValueType
}

// TableType describes one table: funcref/externref of [Min, Max] size.
type TableType struct {
	RefType wasmtype.ValueType
	Min     uint32
	Max     *uint32
}

// MemoryType describes one linear memory's page-count limits.
type MemoryType struct {
	Min uint32
	Max *uint32
}

// ConstExpr is a single-instruction constant initializer, the only shape
// of init_expr this generator ever emits (i32.const/i64.const/f32.const/
// f64.const/ref.null/global.get, per spec.md's ALLOWED_TYPES const scope).
type ConstExpr struct {
	Op    string
	Value any // int32, int64, float32, float64, wasmtype.ValueType (ref.null), or uint32 (global index) depending on Op
}

// Global is one Global-section entry.
type Global struct {
	Type    wasmtype.ValueType
	Mutable bool
	Init    ConstExpr
}

// Export names one index-space entry for the Export section.
type ExportKind byte

const (
	ExportFunc   ExportKind = 0x00
	ExportTable  ExportKind = 0x01
	ExportMemory ExportKind = 0x02
	ExportGlobal ExportKind = 0x03
)

type Export struct {
	Name string
	Kind ExportKind
	Idx  uint32
}

// Elem is one Element-section segment: a constant table offset plus the
// function indices placed there.
type Elem struct {
	TableIdx uint32
	Offset   ConstExpr
	FuncIdxs []uint32
}

// Data is one Data-section segment: a constant memory offset plus bytes.
type Data struct {
	MemIdx uint32
	Offset ConstExpr
	Bytes  []byte
}

// Code is one function body: its locals (grouped by run, as the binary
// format requires) and its instruction stream.
type Code struct {
	Locals []LocalGroup
	Body   []wasmtype.Instruction
}

// LocalGroup is one run of same-typed locals in a function body.
type LocalGroup struct {
	Count uint32
	Type  wasmtype.ValueType
}

// Module is the complete in-memory description of one Wasm module, ready
// for Emitter to serialize (spec.md §6 Module output).
type Module struct {
	Types     []FuncType
	FuncTypes []uint32 // Function section: type index per defined function
	Tables    []TableType
	Memories  []MemoryType
	Globals   []Global
	Exports   []Export
	Start     *uint32
	Elems     []Elem
	Codes     []Code
	Datas     []Data
}
