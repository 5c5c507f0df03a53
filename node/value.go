package node

import (
	"fmt"
	"math"
)

// ValueType identifies one of the 16 scalar variants a [Value] can
// hold. The numeric ids match the wire ids in the Fluxion Type Table
// (spec §3) exactly; codecs rely on that correspondence.
type ValueType uint8

const (
	TypeNull    ValueType = 0
	TypeTrue    ValueType = 1
	TypeFalse   ValueType = 2
	TypeU8      ValueType = 3
	TypeI8      ValueType = 4
	TypeU16Char ValueType = 5
	TypeI16     ValueType = 6
	TypeU16     ValueType = 7
	TypeI32     ValueType = 8
	TypeU32     ValueType = 9
	TypeI64     ValueType = 10
	TypeU64     ValueType = 11
	TypeF32     ValueType = 12
	TypeF64     ValueType = 13
	TypeString  ValueType = 14
	TypeBytes   ValueType = 15
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeTrue:
		return "true"
	case TypeFalse:
		return "false"
	case TypeU8:
		return "u8"
	case TypeI8:
		return "i8"
	case TypeU16Char:
		return "u16-char"
	case TypeI16:
		return "i16"
	case TypeU16:
		return "u16"
	case TypeI32:
		return "i32"
	case TypeU32:
		return "u32"
	case TypeI64:
		return "i64"
	case TypeU64:
		return "u64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytes"
	default:
		return fmt.Sprintf("<unknown value type %d>", uint8(t))
	}
}

// IsValueType reports whether b names one of the 16 defined variants.
func IsValueType(b byte) bool {
	return b <= uint8(TypeBytes)
}

// IsSignedInt reports whether t is one of the signed integer variants
// the v2/v3 pool column stores as zigzag varints (i16, i32, i64 — i8 is
// always a raw byte on every version and carries no separate sign
// handling).
func (t ValueType) IsSignedInt() bool {
	switch t {
	case TypeI16, TypeI32, TypeI64:
		return true
	default:
		return false
	}
}

// Value is a closed tagged union over Fluxion's 16 scalar variants.
// The zero Value is [Null]().
type Value struct {
	typ ValueType
	u   uint64 // unsigned payload, and float bit patterns
	i   int64  // signed integer payload (i8, i16, i32, i64)
	str string
	byt []byte
}

// Type returns which of the 16 variants v holds.
func (v Value) Type() ValueType { return v.typ }

func Null() Value  { return Value{typ: TypeNull} }
func Bool(b bool) Value {
	if b {
		return Value{typ: TypeTrue}
	}
	return Value{typ: TypeFalse}
}
func U8(x uint8) Value      { return Value{typ: TypeU8, u: uint64(x)} }
func I8(x int8) Value       { return Value{typ: TypeI8, i: int64(x)} }
func U16Char(x uint16) Value { return Value{typ: TypeU16Char, u: uint64(x)} }
func I16(x int16) Value     { return Value{typ: TypeI16, i: int64(x)} }
func U16(x uint16) Value    { return Value{typ: TypeU16, u: uint64(x)} }
func I32(x int32) Value     { return Value{typ: TypeI32, i: int64(x)} }
func U32(x uint32) Value    { return Value{typ: TypeU32, u: uint64(x)} }
func I64(x int64) Value     { return Value{typ: TypeI64, i: x} }
func U64(x uint64) Value    { return Value{typ: TypeU64, u: x} }
func F32(x float32) Value   { return Value{typ: TypeF32, u: uint64(math.Float32bits(x))} }
func F64(x float64) Value   { return Value{typ: TypeF64, u: math.Float64bits(x)} }
func String(s string) Value { return Value{typ: TypeString, str: s} }
func Bytes(b []byte) Value  { return Value{typ: TypeBytes, byt: b} }

// Bool reports the boolean value for TypeTrue/TypeFalse. It panics if
// v does not hold a boolean — callers should check Type first.
func (v Value) Bool() bool {
	v.mustBe(TypeTrue, TypeFalse)
	return v.typ == TypeTrue
}

func (v Value) U8() uint8 { v.mustBe(TypeU8); return uint8(v.u) }
func (v Value) I8() int8  { v.mustBe(TypeI8); return int8(v.i) }
func (v Value) U16Char() uint16 { v.mustBe(TypeU16Char); return uint16(v.u) }
func (v Value) I16() int16      { v.mustBe(TypeI16); return int16(v.i) }
func (v Value) U16() uint16     { v.mustBe(TypeU16); return uint16(v.u) }
func (v Value) I32() int32      { v.mustBe(TypeI32); return int32(v.i) }
func (v Value) U32() uint32     { v.mustBe(TypeU32); return uint32(v.u) }
func (v Value) I64() int64      { v.mustBe(TypeI64); return v.i }
func (v Value) U64() uint64     { v.mustBe(TypeU64); return v.u }
func (v Value) F32() float32    { v.mustBe(TypeF32); return math.Float32frombits(uint32(v.u)) }
func (v Value) F64() float64    { v.mustBe(TypeF64); return math.Float64frombits(v.u) }
func (v Value) Str() string     { v.mustBe(TypeString); return v.str }
func (v Value) Byt() []byte     { v.mustBe(TypeBytes); return v.byt }

func (v Value) mustBe(types ...ValueType) {
	for _, t := range types {
		if v.typ == t {
			return
		}
	}
	panic(fmt.Sprintf("fluxion: Value accessor called on %s value", v.typ))
}

// SignedInt returns the signed integer payload for i8, i16, i32, or
// i64 values, regardless of which accessor would normally apply.
func (v Value) SignedInt() int64 {
	v.mustBe(TypeI8, TypeI16, TypeI32, TypeI64)
	return v.i
}

// IsZero reports whether v holds the canonical zero/empty form for its
// type: numeric zero, an empty string, or empty bytes. null/true/false
// carry no payload and are always considered zero-form.
func (v Value) IsZero() bool {
	switch v.typ {
	case TypeNull, TypeTrue, TypeFalse:
		return true
	case TypeU8, TypeU16Char, TypeU16, TypeU32, TypeU64:
		return v.u == 0
	case TypeI8, TypeI16, TypeI32, TypeI64:
		return v.i == 0
	case TypeF32:
		return v.F32() == 0
	case TypeF64:
		return v.F64() == 0
	case TypeString:
		return v.str == ""
	case TypeBytes:
		return len(v.byt) == 0
	default:
		return false
	}
}

// FixedWidth returns the fixed byte width of t's v1 wire encoding: 0
// for null/true/false, which carry no payload, and 1, 2, 4 or 8 for the
// numeric variants. ok is false for string and bytes, which are length
// prefixed.
func (t ValueType) FixedWidth() (width int, ok bool) {
	switch t {
	case TypeNull, TypeTrue, TypeFalse:
		return 0, true
	case TypeU8, TypeI8:
		return 1, true
	case TypeU16Char, TypeI16, TypeU16:
		return 2, true
	case TypeI32, TypeU32, TypeF32:
		return 4, true
	case TypeI64, TypeU64, TypeF64:
		return 8, true
	default:
		return 0, false
	}
}

// Equal reports whether v and other hold the same value, using f32eps
// and f64eps as absolute tolerances for float/double comparison.
func (v Value) Equal(other Value, f32eps, f64eps float64) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNull, TypeTrue, TypeFalse:
		return true
	case TypeU8, TypeU16Char, TypeU16, TypeU32, TypeU64:
		return v.u == other.u
	case TypeI8, TypeI16, TypeI32, TypeI64:
		return v.i == other.i
	case TypeF32:
		return math.Abs(float64(v.F32()-other.F32())) <= f32eps
	case TypeF64:
		return math.Abs(v.F64()-other.F64()) <= f64eps
	case TypeString:
		return v.str == other.str
	case TypeBytes:
		if len(v.byt) != len(other.byt) {
			return false
		}
		for i := range v.byt {
			if v.byt[i] != other.byt[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of v (only meaningful for Bytes, whose
// backing slice is copied so mutating one Value's bytes never affects
// another's).
func (v Value) Clone() Value {
	if v.typ == TypeBytes && v.byt != nil {
		b := make([]byte, len(v.byt))
		copy(b, v.byt)
		v.byt = b
	}
	return v
}
