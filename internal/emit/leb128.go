// Package emit turns an in-memory module description into the Wasm
// binary wire format (spec C7 Emitter): LEB128/IEEE-754 encoding and
// section assembly. Function and type names mirror the teacher's own
// internal/leb128 package (EncodeUint32/LoadUint32/EncodeInt32/LoadInt32
// and the 64-bit variants).
package emit

import "fmt"

// EncodeUint32 returns the unsigned LEB128 encoding of v.
func EncodeUint32(v uint32) []byte { return encodeUvarint(uint64(v)) }

// EncodeUint64 returns the unsigned LEB128 encoding of v.
func EncodeUint64(v uint64) []byte { return encodeUvarint(v) }

func encodeUvarint(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

// EncodeInt32 returns the signed LEB128 encoding of v.
func EncodeInt32(v int32) []byte { return encodeVarint(int64(v), 32) }

// EncodeInt64 returns the signed LEB128 encoding of v.
func EncodeInt64(v int64) []byte { return encodeVarint(v, 64) }

func encodeVarint(v int64, bits int) []byte {
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

// LoadUint32 decodes an unsigned LEB128 value from buf, returning the
// value, the number of bytes consumed, and an error if buf is truncated
// or the value overflows 32 bits.
func LoadUint32(buf []byte) (uint32, uint64, error) {
	v, n, err := loadUvarint(buf, 32)
	return uint32(v), n, err
}

// LoadUint64 decodes an unsigned LEB128 value from buf.
func LoadUint64(buf []byte) (uint64, uint64, error) {
	return loadUvarint(buf, 64)
}

func loadUvarint(buf []byte, bits int) (uint64, uint64, error) {
	var result uint64
	var shift uint
	for i, b := range buf {
		if shift >= uint(bits) {
			return 0, 0, fmt.Errorf("emit: leb128 overflows %d bits", bits)
		}
		payload := uint64(b & 0x7f)
		if shift == 35 && bits == 32 && payload > 0xf {
			return 0, 0, fmt.Errorf("emit: leb128 value overflows uint32")
		}
		result |= payload << shift
		if b&0x80 == 0 {
			return result, uint64(i + 1), nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("emit: truncated leb128 buffer")
}

// LoadInt32 decodes a signed LEB128 value from buf.
func LoadInt32(buf []byte) (int32, uint64, error) {
	v, n, err := loadVarint(buf, 32)
	return int32(v), n, err
}

// LoadInt64 decodes a signed LEB128 value from buf.
func LoadInt64(buf []byte) (int64, uint64, error) {
	return loadVarint(buf, 64)
}

func loadVarint(buf []byte, bits int) (int64, uint64, error) {
	var result int64
	var shift uint
	var b byte
	i := 0
	for {
		if i >= len(buf) {
			return 0, 0, fmt.Errorf("emit: truncated leb128 buffer")
		}
		b = buf[i]
		result |= int64(b&0x7f) << shift
		shift += 7
		i++
		if b&0x80 == 0 {
			break
		}
		if shift >= uint(bits)+7 {
			return 0, 0, fmt.Errorf("emit: leb128 overflows %d bits", bits)
		}
	}
	if shift < uint(bits) && b&0x40 != 0 {
		result |= -int64(1) << shift
	}
	return result, uint64(i), nil
}
