package emit

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cranerule/wasmgen/internal/wasmtype"
)

// magic + version, per the core spec's binary module header.
var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}
var wasmVersion = []byte{0x01, 0x00, 0x00, 0x00}

// Emitter serializes an in-memory Module to the Wasm binary format,
// writing through a BinaryEmitter sink (spec C7).
type Emitter struct {
	out BinaryEmitter
}

// New returns an Emitter writing to out.
func New(out BinaryEmitter) *Emitter {
	return &Emitter{out: out}
}

// Emit writes m's full binary module to the Emitter's sink, in section
// order, omitting any section with nothing in it (spec.md §6: "Unused
// sections may be omitted").
func (e *Emitter) Emit(m *Module) error {
	if _, err := e.out.Write(wasmMagic); err != nil {
		return err
	}
	if _, err := e.out.Write(wasmVersion); err != nil {
		return err
	}

	sections := []struct {
		id      byte
		payload []byte
	}{
		{SectionIDType, e.typeSection(m)},
		{SectionIDFunction, e.functionSection(m)},
		{SectionIDTable, e.tableSection(m)},
		{SectionIDMemory, e.memorySection(m)},
		{SectionIDGlobal, e.globalSection(m)},
		{SectionIDExport, e.exportSection(m)},
		{SectionIDStart, e.startSection(m)},
		{SectionIDElement, e.elementSection(m)},
		{SectionIDCode, e.codeSection(m)},
		{SectionIDData, e.dataSection(m)},
	}
	for _, sec := range sections {
		if len(sec.payload) == 0 {
			continue
		}
		if err := e.out.WriteByte(sec.id); err != nil {
			return err
		}
		if _, err := e.out.Write(EncodeUint32(uint32(len(sec.payload)))); err != nil {
			return err
		}
		if _, err := e.out.Write(sec.payload); err != nil {
			return err
		}
	}
	return nil
}

func vecLen(n int) []byte { return EncodeUint32(uint32(n)) }

func (e *Emitter) typeSection(m *Module) []byte {
	if len(m.Types) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(vecLen(len(m.Types)))
	for _, ft := range m.Types {
		buf.WriteByte(0x60) // func type tag
		buf.Write(vecLen(len(ft.Params)))
		for _, p := range ft.Params {
			buf.WriteByte(wasmtype.EncodingByte[p])
		}
		buf.Write(vecLen(len(ft.Results)))
		for _, r := range ft.Results {
			buf.WriteByte(wasmtype.EncodingByte[r])
		}
	}
	return buf.Bytes()
}

func (e *Emitter) functionSection(m *Module) []byte {
	if len(m.FuncTypes) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(vecLen(len(m.FuncTypes)))
	for _, idx := range m.FuncTypes {
		buf.Write(EncodeUint32(idx))
	}
	return buf.Bytes()
}

func (e *Emitter) tableSection(m *Module) []byte {
	if len(m.Tables) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(vecLen(len(m.Tables)))
	for _, t := range m.Tables {
		buf.WriteByte(wasmtype.EncodingByte[t.RefType])
		writeLimits(&buf, t.Min, t.Max)
	}
	return buf.Bytes()
}

func (e *Emitter) memorySection(m *Module) []byte {
	if len(m.Memories) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(vecLen(len(m.Memories)))
	for _, mem := range m.Memories {
		writeLimits(&buf, mem.Min, mem.Max)
	}
	return buf.Bytes()
}

func writeLimits(buf *bytes.Buffer, min uint32, max *uint32) {
	if max != nil {
		buf.WriteByte(0x01)
		buf.Write(EncodeUint32(min))
		buf.Write(EncodeUint32(*max))
	} else {
		buf.WriteByte(0x00)
		buf.Write(EncodeUint32(min))
	}
}

func (e *Emitter) globalSection(m *Module) []byte {
	if len(m.Globals) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(vecLen(len(m.Globals)))
	for _, g := range m.Globals {
		buf.WriteByte(wasmtype.EncodingByte[g.Type])
		if g.Mutable {
			buf.WriteByte(0x01)
		} else {
			buf.WriteByte(0x00)
		}
		writeConstExpr(&buf, g.Init)
	}
	return buf.Bytes()
}

func writeConstExpr(buf *bytes.Buffer, c ConstExpr) {
	switch c.Op {
	case "i32.const":
		buf.WriteByte(0x41)
		buf.Write(EncodeInt32(c.Value.(int32)))
	case "i64.const":
		buf.WriteByte(0x42)
		buf.Write(EncodeInt64(c.Value.(int64)))
	case "f32.const":
		buf.WriteByte(0x43)
		writeFloat32(buf, c.Value.(float32))
	case "f64.const":
		buf.WriteByte(0x44)
		writeFloat64(buf, c.Value.(float64))
	case "global.get":
		buf.WriteByte(0x23)
		buf.Write(EncodeUint32(c.Value.(uint32)))
	case "ref.null":
		buf.WriteByte(0xD0)
		buf.WriteByte(wasmtype.EncodingByte[c.Value.(wasmtype.ValueType)])
	default:
		panic("emit: unsupported const expr op " + c.Op)
	}
	buf.WriteByte(0x0B) // end
}

func writeFloat32(buf *bytes.Buffer, f float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
	buf.Write(b[:])
}

func writeFloat64(buf *bytes.Buffer, f float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
	buf.Write(b[:])
}

func (e *Emitter) exportSection(m *Module) []byte {
	if len(m.Exports) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(vecLen(len(m.Exports)))
	for _, ex := range m.Exports {
		buf.Write(vecLen(len(ex.Name)))
		buf.WriteString(ex.Name)
		buf.WriteByte(byte(ex.Kind))
		buf.Write(EncodeUint32(ex.Idx))
	}
	return buf.Bytes()
}

func (e *Emitter) startSection(m *Module) []byte {
	if m.Start == nil {
		return nil
	}
	return EncodeUint32(*m.Start)
}

func (e *Emitter) elementSection(m *Module) []byte {
	if len(m.Elems) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(vecLen(len(m.Elems)))
	for _, el := range m.Elems {
		if el.TableIdx == 0 {
			buf.WriteByte(0x00)
			writeConstExpr(&buf, el.Offset)
		} else {
			buf.WriteByte(0x02)
			buf.Write(EncodeUint32(el.TableIdx))
			writeConstExpr(&buf, el.Offset)
			buf.WriteByte(0x00) // elemkind: funcref
		}
		buf.Write(vecLen(len(el.FuncIdxs)))
		for _, f := range el.FuncIdxs {
			buf.Write(EncodeUint32(f))
		}
	}
	return buf.Bytes()
}

func (e *Emitter) dataSection(m *Module) []byte {
	if len(m.Datas) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(vecLen(len(m.Datas)))
	for _, d := range m.Datas {
		if d.MemIdx == 0 {
			buf.WriteByte(0x00)
			writeConstExpr(&buf, d.Offset)
		} else {
			buf.WriteByte(0x02)
			buf.Write(EncodeUint32(d.MemIdx))
			writeConstExpr(&buf, d.Offset)
		}
		buf.Write(vecLen(len(d.Bytes)))
		buf.Write(d.Bytes)
	}
	return buf.Bytes()
}

func (e *Emitter) codeSection(m *Module) []byte {
	if len(m.Codes) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.Write(vecLen(len(m.Codes)))
	for _, code := range m.Codes {
		body := encodeFunctionBody(code)
		buf.Write(vecLen(len(body)))
		buf.Write(body)
	}
	return buf.Bytes()
}

func encodeFunctionBody(code Code) []byte {
	var buf bytes.Buffer
	buf.Write(vecLen(len(code.Locals)))
	for _, lg := range code.Locals {
		buf.Write(EncodeUint32(lg.Count))
		buf.WriteByte(wasmtype.EncodingByte[lg.Type])
	}
	for _, instr := range code.Body {
		writeInstruction(&buf, instr)
	}
	if n := len(code.Body); n == 0 || code.Body[n-1].Op != "end" {
		buf.WriteByte(0x0B) // end, unless the body already closes itself
	}
	return buf.Bytes()
}

// writeInstruction encodes one instruction: opcode bytes, then each
// immediate in the shape wasmtype.Table describes for that opcode. Block-
// structured opcodes (block/loop/if/else/end/br_table) are recognized by
// name since they aren't in InstructionTable's value-producing catalog.
func writeInstruction(buf *bytes.Buffer, instr wasmtype.Instruction) {
	switch instr.Op {
	case "block", "loop", "if":
		opByte := map[string]byte{"block": 0x02, "loop": 0x03, "if": 0x04}[instr.Op]
		buf.WriteByte(opByte)
		switch bt := instr.Immediates[0].(type) {
		case byte:
			buf.WriteByte(bt)
		case uint32:
			buf.Write(EncodeInt64(int64(bt)))
		}
		return
	case "else":
		buf.WriteByte(0x05)
		return
	case "end":
		buf.WriteByte(0x0B)
		return
	case "br_table":
		buf.WriteByte(0x0E)
		targets := instr.Immediates[0].([]uint32)
		buf.Write(vecLen(len(targets)))
		for _, t := range targets {
			buf.Write(EncodeUint32(t))
		}
		buf.Write(EncodeUint32(instr.Immediates[1].(uint32)))
		return
	}

	opBytes, ok := lookupOpcode(instr.Op)
	if !ok {
		panic(fmt.Sprintf("emit: unknown opcode %q", instr.Op))
	}
	buf.Write(opBytes)

	info, hasInfo := wasmtype.Signature(instr.Op)
	if !hasInfo {
		return
	}
	for i, opSpec := range info.Operands {
		writeOperand(buf, opSpec, instr.Immediates[i])
	}
}

func writeOperand(buf *bytes.Buffer, spec wasmtype.Operand, val any) {
	switch spec.Kind {
	case wasmtype.KindLabelIdx, wasmtype.KindFuncIdx, wasmtype.KindTypeIdx, wasmtype.KindTableIdx,
		wasmtype.KindLaneIdx, wasmtype.KindLocalIdx, wasmtype.KindGlobalIdx:
		buf.Write(EncodeUint32(val.(uint32)))
	case wasmtype.KindByte16:
		b := val.([16]byte)
		buf.Write(b[:])
	case wasmtype.KindLaneIdx16:
		b := val.([16]byte)
		buf.Write(b[:])
	case wasmtype.KindRefType:
		buf.WriteByte(wasmtype.EncodingByte[val.(wasmtype.ValueType)])
	case wasmtype.KindMemArg:
		m := val.(wasmtype.MemArg)
		buf.Write(EncodeUint32(m.Align))
		buf.Write(EncodeUint32(m.Offset))
	case wasmtype.KindI32:
		buf.Write(EncodeInt32(val.(int32)))
	case wasmtype.KindI64:
		buf.Write(EncodeInt64(val.(int64)))
	case wasmtype.KindF32:
		writeFloat32(buf, val.(float32))
	case wasmtype.KindF64:
		writeFloat64(buf, val.(float64))
	case wasmtype.KindBlockType:
		buf.WriteByte(val.(byte))
	case wasmtype.KindVec:
		types := val.([]wasmtype.ValueType)
		buf.Write(vecLen(len(types)))
		for _, t := range types {
			buf.WriteByte(wasmtype.EncodingByte[t])
		}
	default:
		panic("emit: unhandled operand kind " + string(spec.Kind))
	}
}
