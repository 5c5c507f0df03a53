package varint

import (
	"io"

	"github.com/haltroy/fluxion-go/fluxerr"
)

// maxBytes64 is the most bytes a 64-bit value can take at 7 bits/byte:
// ceil(64/7) = 10.
const maxBytes64 = 10

// maxBytes32 is the most bytes a 32-bit value can take: ceil(32/7) = 5.
const maxBytes32 = 5

// Size returns the number of bytes WriteUint64 would write for v.
func Size(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// AppendUint64 appends the varint encoding of v to dst and returns the
// extended slice.
func AppendUint64(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// WriteUint64 writes the varint encoding of v to w.
func WriteUint64(w io.Writer, v uint64) error {
	var buf [maxBytes64]byte
	n := 0
	for v >= 0x80 {
		buf[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	buf[n] = byte(v)
	n++
	_, err := w.Write(buf[:n])
	return err
}

// WriteUint32 writes the varint encoding of v to w.
func WriteUint32(w io.Writer, v uint32) error {
	return WriteUint64(w, uint64(v))
}

// byteReader is satisfied by *bufio.Reader, *bytes.Reader, and anything
// else that already exposes ReadByte; readers that don't get wrapped by
// ReadUint64/ReadUint32 with a one-byte io.Reader.Read fallback.
type byteReader interface {
	io.Reader
	io.ByteReader
}

type byteReaderAdapter struct {
	io.Reader
	buf [1]byte
}

func (a *byteReaderAdapter) ReadByte() (byte, error) {
	if _, err := io.ReadFull(a.Reader, a.buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, fluxerr.ErrEndOfStream
		}
		return 0, err
	}
	return a.buf[0], nil
}

func asByteReader(r io.Reader) byteReader {
	if br, ok := r.(byteReader); ok {
		return br
	}
	return &byteReaderAdapter{Reader: r}
}

// ReadUint64 reads a varint-encoded uint64 from r. It fails with
// [fluxerr.ErrEndOfStream] on a short read and with a wrapped
// overflow error if the encoding would not fit in 64 bits.
func ReadUint64(r io.Reader) (uint64, error) {
	br := asByteReader(r)
	var x uint64
	var s uint
	for i := 0; i < maxBytes64; i++ {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, fluxerr.ErrEndOfStream
			}
			return 0, err
		}
		if b < 0x80 {
			if i == maxBytes64-1 && b > 1 {
				return 0, fluxerr.Overflow(64)
			}
			return x | uint64(b)<<s, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, fluxerr.Overflow(64)
}

// ReadUint32 reads a varint-encoded value from r, failing with a wrapped
// overflow error if the decoded value does not fit in 32 bits.
func ReadUint32(r io.Reader) (uint32, error) {
	v, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	if v > 0xFFFFFFFF {
		return 0, fluxerr.Overflow(32)
	}
	return uint32(v), nil
}
