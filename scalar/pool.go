package scalar

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/haltroy/fluxion-go/fluxerr"
	"github.com/haltroy/fluxion-go/header"
	"github.com/haltroy/fluxion-go/node"
	"github.com/haltroy/fluxion-go/varint"
)

// zigzagEncode maps a signed integer to an unsigned one so that small
// magnitudes (of either sign) stay small varints: 0,-1,1,-2,2,... ->
// 0,1,2,3,4,... This is how the pooled v2/v3 column carries the sign
// of i16/i32/i64 values without a dedicated sign bit in the tag byte —
// see DESIGN.md's note on the unique flag's ambiguous double duty.
func zigzagEncode(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

func zigzagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// WritePoolPayload writes v's payload using the shared v2/v3 column of
// the Type Table: a varint for u16-char/u16/u32/u64, a zigzag varint
// for i16/i32/i64 (sign and magnitude together, no separate sign bit),
// a raw byte for u8/i8, fixed little-endian width for f32/f64, and a
// varint length prefix for string/bytes.
func WritePoolPayload(w io.Writer, v node.Value, enc header.Encoding) error {
	switch v.Type() {
	case node.TypeNull, node.TypeTrue, node.TypeFalse:
		return nil
	case node.TypeU8:
		_, err := w.Write([]byte{v.U8()})
		return err
	case node.TypeI8:
		_, err := w.Write([]byte{byte(v.I8())})
		return err
	case node.TypeU16Char:
		return varint.WriteUint64(w, uint64(v.U16Char()))
	case node.TypeI16, node.TypeI32, node.TypeI64:
		return varint.WriteUint64(w, zigzagEncode(v.SignedInt()))
	case node.TypeU16:
		return varint.WriteUint64(w, uint64(v.U16()))
	case node.TypeU32:
		return varint.WriteUint64(w, uint64(v.U32()))
	case node.TypeU64:
		return varint.WriteUint64(w, v.U64())
	case node.TypeF32:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v.F32()))
		_, err := w.Write(buf[:])
		return err
	case node.TypeF64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.F64()))
		_, err := w.Write(buf[:])
		return err
	case node.TypeString:
		return writeLenPrefixed(w, enc.EncodeString(v.Str()))
	case node.TypeBytes:
		return writeLenPrefixed(w, v.Byt())
	default:
		return fluxerr.UnknownValueType(byte(v.Type()))
	}
}

// PoolPayloadSize returns the number of bytes WritePoolPayload would
// emit for v, without writing anything — used by the v2 writer's
// estimation pass.
func PoolPayloadSize(v node.Value, enc header.Encoding) int {
	switch v.Type() {
	case node.TypeNull, node.TypeTrue, node.TypeFalse:
		return 0
	case node.TypeU8, node.TypeI8:
		return 1
	case node.TypeU16Char:
		return varint.Size(uint64(v.U16Char()))
	case node.TypeI16, node.TypeI32, node.TypeI64:
		return varint.Size(zigzagEncode(v.SignedInt()))
	case node.TypeU16:
		return varint.Size(uint64(v.U16()))
	case node.TypeU32:
		return varint.Size(uint64(v.U32()))
	case node.TypeU64:
		return varint.Size(v.U64())
	case node.TypeF32:
		return 4
	case node.TypeF64:
		return 8
	case node.TypeString:
		encoded := enc.EncodeString(v.Str())
		return varint.Size(uint64(len(encoded))) + len(encoded)
	case node.TypeBytes:
		return varint.Size(uint64(len(v.Byt()))) + len(v.Byt())
	default:
		return 0
	}
}

// ReadPoolPayload reads a value of type t using the shared v2/v3
// column, returning a fully-signed Value for i16/i32/i64 — the zigzag
// decoding restores the original sign, so callers never need to apply
// a sign bit from elsewhere.
func ReadPoolPayload(r io.Reader, t node.ValueType, enc header.Encoding) (node.Value, error) {
	switch t {
	case node.TypeNull:
		return node.Null(), nil
	case node.TypeTrue:
		return node.Bool(true), nil
	case node.TypeFalse:
		return node.Bool(false), nil
	case node.TypeU8:
		var b [1]byte
		if err := readFull(r, b[:]); err != nil {
			return node.Value{}, err
		}
		return node.U8(b[0]), nil
	case node.TypeI8:
		var b [1]byte
		if err := readFull(r, b[:]); err != nil {
			return node.Value{}, err
		}
		return node.I8(int8(b[0])), nil
	case node.TypeU16Char:
		v, err := varint.ReadUint32(r)
		if err != nil {
			return node.Value{}, err
		}
		return node.U16Char(uint16(v)), nil
	case node.TypeI16:
		v, err := varint.ReadUint64(r)
		if err != nil {
			return node.Value{}, err
		}
		return node.I16(int16(zigzagDecode(v))), nil
	case node.TypeU16:
		v, err := varint.ReadUint32(r)
		if err != nil {
			return node.Value{}, err
		}
		return node.U16(uint16(v)), nil
	case node.TypeI32:
		v, err := varint.ReadUint64(r)
		if err != nil {
			return node.Value{}, err
		}
		return node.I32(int32(zigzagDecode(v))), nil
	case node.TypeU32:
		v, err := varint.ReadUint32(r)
		if err != nil {
			return node.Value{}, err
		}
		return node.U32(v), nil
	case node.TypeI64:
		v, err := varint.ReadUint64(r)
		if err != nil {
			return node.Value{}, err
		}
		return node.I64(zigzagDecode(v)), nil
	case node.TypeU64:
		v, err := varint.ReadUint64(r)
		if err != nil {
			return node.Value{}, err
		}
		return node.U64(v), nil
	case node.TypeF32:
		var buf [4]byte
		if err := readFull(r, buf[:]); err != nil {
			return node.Value{}, err
		}
		return node.F32(math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))), nil
	case node.TypeF64:
		var buf [8]byte
		if err := readFull(r, buf[:]); err != nil {
			return node.Value{}, err
		}
		return node.F64(math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))), nil
	case node.TypeString:
		data, err := readLenPrefixed(r)
		if err != nil {
			return node.Value{}, err
		}
		s, err := enc.DecodeString(data)
		if err != nil {
			return node.Value{}, err
		}
		return node.String(s), nil
	case node.TypeBytes:
		data, err := readLenPrefixed(r)
		if err != nil {
			return node.Value{}, err
		}
		return node.Bytes(data), nil
	default:
		return node.Value{}, fluxerr.UnknownValueType(byte(t))
	}
}
