package varint

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/haltroy/fluxion-go/fluxerr"
)

func TestRoundTripUint64(t *testing.T) {
	values := []uint64{
		0, 1, 2, 127, 128, 129, 16383, 16384, 1 << 20, 1 << 40,
		0xFFFFFFFF, 0xFFFFFFFFFFFFFFFF,
	}
	for _, v := range values {
		buf := &bytes.Buffer{}
		if err := WriteUint64(buf, v); err != nil {
			t.Fatalf("WriteUint64(%d): %v", v, err)
		}
		if got := buf.Len(); got != Size(v) {
			t.Errorf("Size(%d) = %d, wrote %d bytes", v, Size(v), got)
		}
		got, err := ReadUint64(buf)
		if err != nil {
			t.Fatalf("ReadUint64 after writing %d: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestZeroIsSingleByte(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteUint64(buf, 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x00}) {
		t.Errorf("encode(0) = %x, want [00]", buf.Bytes())
	}
}

func TestShortReadIsEndOfStream(t *testing.T) {
	// A continuation byte with nothing after it.
	_, err := ReadUint64(bytes.NewReader([]byte{0x80}))
	if !errors.Is(err, fluxerr.ErrEndOfStream) {
		t.Fatalf("got %v, want ErrEndOfStream", err)
	}
}

func TestEmptyReadIsEndOfStream(t *testing.T) {
	_, err := ReadUint64(bytes.NewReader(nil))
	if !errors.Is(err, fluxerr.ErrEndOfStream) {
		t.Fatalf("got %v, want ErrEndOfStream", err)
	}
}

func TestOverlong64Overflow(t *testing.T) {
	// 9 continuation bytes followed by a tenth byte with more than the
	// one legal low bit: not representable in 64 bits.
	data := append(bytes.Repeat([]byte{0xFF}, 9), 0x02)
	_, err := ReadUint64(bytes.NewReader(data))
	if !errors.Is(err, fluxerr.ErrOverflow) {
		t.Fatalf("got %v, want ErrOverflow", err)
	}
}

func TestReadUint32RejectsLargeValue(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteUint64(buf, 1<<40); err != nil {
		t.Fatal(err)
	}
	_, err := ReadUint32(buf)
	if !errors.Is(err, fluxerr.ErrOverflow) {
		t.Fatalf("got %v, want ErrOverflow", err)
	}
}

func TestReadUint32RoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteUint32(buf, 1<<30); err != nil {
		t.Fatal(err)
	}
	got, err := ReadUint32(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1<<30 {
		t.Errorf("got %d, want %d", got, 1<<30)
	}
}

func TestAppendUint64MatchesWrite(t *testing.T) {
	for _, v := range []uint64{0, 1, 300, 1 << 33} {
		var dst []byte
		dst = AppendUint64(dst, v)
		buf := &bytes.Buffer{}
		if err := WriteUint64(buf, v); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(dst, buf.Bytes()) {
			t.Errorf("AppendUint64(%d) = %x, WriteUint64 = %x", v, dst, buf.Bytes())
		}
	}
}

// readerWithoutReadByte wraps a reader so asByteReader must use the
// adapter path, exercising the io.Reader fallback.
type readerWithoutReadByte struct {
	r io.Reader
}

func (r *readerWithoutReadByte) Read(p []byte) (int, error) { return r.r.Read(p) }

func TestReadUint64WithoutByteReader(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteUint64(buf, 1<<20); err != nil {
		t.Fatal(err)
	}
	got, err := ReadUint64(&readerWithoutReadByte{r: buf})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1<<20 {
		t.Errorf("got %d, want %d", got, 1<<20)
	}
}
