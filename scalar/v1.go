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

// WriteV1 writes v's payload using the v1 column of the Type Table:
// fixed little-endian widths for every numeric variant, varint-length-
// prefixed bytes for string/bytes, and nothing at all for
// null/true/false. enc governs how a string value is transcoded before
// it's length-prefixed; it has no effect on bytes values.
func WriteV1(w io.Writer, v node.Value, enc header.Encoding) error {
	var buf [8]byte
	switch v.Type() {
	case node.TypeNull, node.TypeTrue, node.TypeFalse:
		return nil
	case node.TypeU8:
		buf[0] = v.U8()
		_, err := w.Write(buf[:1])
		return err
	case node.TypeI8:
		buf[0] = byte(v.I8())
		_, err := w.Write(buf[:1])
		return err
	case node.TypeU16Char:
		binary.LittleEndian.PutUint16(buf[:2], v.U16Char())
		_, err := w.Write(buf[:2])
		return err
	case node.TypeI16:
		binary.LittleEndian.PutUint16(buf[:2], uint16(v.I16()))
		_, err := w.Write(buf[:2])
		return err
	case node.TypeU16:
		binary.LittleEndian.PutUint16(buf[:2], v.U16())
		_, err := w.Write(buf[:2])
		return err
	case node.TypeI32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(v.I32()))
		_, err := w.Write(buf[:4])
		return err
	case node.TypeU32:
		binary.LittleEndian.PutUint32(buf[:4], v.U32())
		_, err := w.Write(buf[:4])
		return err
	case node.TypeI64:
		binary.LittleEndian.PutUint64(buf[:8], uint64(v.I64()))
		_, err := w.Write(buf[:8])
		return err
	case node.TypeU64:
		binary.LittleEndian.PutUint64(buf[:8], v.U64())
		_, err := w.Write(buf[:8])
		return err
	case node.TypeF32:
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(v.F32()))
		_, err := w.Write(buf[:4])
		return err
	case node.TypeF64:
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(v.F64()))
		_, err := w.Write(buf[:8])
		return err
	case node.TypeString:
		return writeLenPrefixed(w, enc.EncodeString(v.Str()))
	case node.TypeBytes:
		return writeLenPrefixed(w, v.Byt())
	default:
		return fluxerr.UnknownValueType(byte(v.Type()))
	}
}

func writeLenPrefixed(w io.Writer, data []byte) error {
	if err := varint.WriteUint64(w, uint64(len(data))); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	_, err := w.Write(data)
	return err
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	n, err := varint.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, n)
	if n == 0 {
		return data, nil
	}
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fluxerr.ErrEndOfStream
		}
		return nil, err
	}
	return data, nil
}

// ReadV1 reads a value of type t using the v1 column of the Type
// Table, transcoding string payloads from enc back to Go's native
// UTF-8 representation.
func ReadV1(r io.Reader, t node.ValueType, enc header.Encoding) (node.Value, error) {
	var buf [8]byte
	switch t {
	case node.TypeNull:
		return node.Null(), nil
	case node.TypeTrue:
		return node.Bool(true), nil
	case node.TypeFalse:
		return node.Bool(false), nil
	case node.TypeU8:
		if err := readFull(r, buf[:1]); err != nil {
			return node.Value{}, err
		}
		return node.U8(buf[0]), nil
	case node.TypeI8:
		if err := readFull(r, buf[:1]); err != nil {
			return node.Value{}, err
		}
		return node.I8(int8(buf[0])), nil
	case node.TypeU16Char:
		if err := readFull(r, buf[:2]); err != nil {
			return node.Value{}, err
		}
		return node.U16Char(binary.LittleEndian.Uint16(buf[:2])), nil
	case node.TypeI16:
		if err := readFull(r, buf[:2]); err != nil {
			return node.Value{}, err
		}
		return node.I16(int16(binary.LittleEndian.Uint16(buf[:2]))), nil
	case node.TypeU16:
		if err := readFull(r, buf[:2]); err != nil {
			return node.Value{}, err
		}
		return node.U16(binary.LittleEndian.Uint16(buf[:2])), nil
	case node.TypeI32:
		if err := readFull(r, buf[:4]); err != nil {
			return node.Value{}, err
		}
		return node.I32(int32(binary.LittleEndian.Uint32(buf[:4]))), nil
	case node.TypeU32:
		if err := readFull(r, buf[:4]); err != nil {
			return node.Value{}, err
		}
		return node.U32(binary.LittleEndian.Uint32(buf[:4])), nil
	case node.TypeI64:
		if err := readFull(r, buf[:8]); err != nil {
			return node.Value{}, err
		}
		return node.I64(int64(binary.LittleEndian.Uint64(buf[:8]))), nil
	case node.TypeU64:
		if err := readFull(r, buf[:8]); err != nil {
			return node.Value{}, err
		}
		return node.U64(binary.LittleEndian.Uint64(buf[:8])), nil
	case node.TypeF32:
		if err := readFull(r, buf[:4]); err != nil {
			return node.Value{}, err
		}
		return node.F32(math.Float32frombits(binary.LittleEndian.Uint32(buf[:4]))), nil
	case node.TypeF64:
		if err := readFull(r, buf[:8]); err != nil {
			return node.Value{}, err
		}
		return node.F64(math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))), nil
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

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fluxerr.ErrEndOfStream
		}
		return err
	}
	return nil
}
