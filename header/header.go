// Package header reads and writes the 4- or 5-byte preamble every
// Fluxion stream starts with: the "FLX" magic, a version byte, and
// (v1/v2 only) a string-encoding byte.
package header

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/haltroy/fluxion-go/fluxerr"
	"github.com/haltroy/fluxion-go/version"
)

// Magic is the 3-byte ASCII preamble every Fluxion stream starts with.
var Magic = [3]byte{'F', 'L', 'X'}

// Encoding identifies the string encoding a v1 or v2 stream uses. v3
// fixes the encoding at UTF-8 and has no encoding byte at all.
type Encoding byte

const (
	UTF8    Encoding = 0
	UTF16LE Encoding = 1
	UTF32LE Encoding = 2
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF16LE:
		return "utf-16le"
	case UTF32LE:
		return "utf-32le"
	default:
		return fmt.Sprintf("<unknown encoding %d>", byte(e))
	}
}

func (e Encoding) valid() bool {
	return e == UTF8 || e == UTF16LE || e == UTF32LE
}

// EncodeString transcodes s into e's on-wire byte representation. v1
// and v2 bodies carry every name and string value through this before
// length-prefixing it; v3 always uses UTF8, for which this is a no-op.
func (e Encoding) EncodeString(s string) []byte {
	switch e {
	case UTF16LE:
		units := utf16.Encode([]rune(s))
		buf := make([]byte, len(units)*2)
		for i, u := range units {
			binary.LittleEndian.PutUint16(buf[i*2:], u)
		}
		return buf
	case UTF32LE:
		runes := []rune(s)
		buf := make([]byte, len(runes)*4)
		for i, r := range runes {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(r))
		}
		return buf
	default:
		return []byte(s)
	}
}

// DecodeString reverses EncodeString. It fails with
// [fluxerr.ErrEndOfStream] if b's length isn't a whole multiple of e's
// code unit width.
func (e Encoding) DecodeString(b []byte) (string, error) {
	switch e {
	case UTF16LE:
		if len(b)%2 != 0 {
			return "", fluxerr.ErrEndOfStream
		}
		units := make([]uint16, len(b)/2)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(b[i*2:])
		}
		return string(utf16.Decode(units)), nil
	case UTF32LE:
		if len(b)%4 != 0 {
			return "", fluxerr.ErrEndOfStream
		}
		runes := make([]rune, len(b)/4)
		for i := range runes {
			runes[i] = rune(binary.LittleEndian.Uint32(b[i*4:]))
		}
		return string(runes), nil
	default:
		return string(b), nil
	}
}

// Header is the decoded form of a stream's preamble.
type Header struct {
	Version  version.Version
	Encoding Encoding // only meaningful when Version.HasEncodingByte()
}

// Write emits h's preamble to w: the magic, the version byte, and (for
// v1/v2) the encoding byte.
func Write(w io.Writer, h Header) error {
	buf := make([]byte, 0, 5)
	buf = append(buf, Magic[0], Magic[1], Magic[2], byte(h.Version))
	if h.Version.HasEncodingByte() {
		buf = append(buf, byte(h.Encoding))
	}
	_, err := w.Write(buf)
	return err
}

// Read decodes a preamble from r. It fails with [fluxerr.ErrInvalidHeader]
// if the magic doesn't match, with a wrapped [fluxerr.ErrUnsupportedVersion]
// if the version byte exceeds [version.Max], and with a wrapped
// [fluxerr.ErrUnknownEncoding] if a v1/v2 encoding byte isn't 0, 1, or 2.
func Read(r io.Reader) (Header, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, fluxerr.ErrInvalidHeader
		}
		return Header{}, err
	}
	if buf[0] != Magic[0] || buf[1] != Magic[1] || buf[2] != Magic[2] {
		return Header{}, fluxerr.ErrInvalidHeader
	}
	v := version.Version(buf[3])
	if v > version.Max || !v.Valid() {
		return Header{}, fluxerr.UnsupportedVersion(buf[3])
	}
	h := Header{Version: v}
	if v.HasEncodingByte() {
		var eb [1]byte
		if _, err := io.ReadFull(r, eb[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return Header{}, fluxerr.ErrEndOfStream
			}
			return Header{}, err
		}
		enc := Encoding(eb[0])
		if !enc.valid() {
			return Header{}, fluxerr.UnknownEncoding(eb[0])
		}
		h.Encoding = enc
	}
	return h, nil
}

// Size returns the number of bytes Write would emit for a header of
// version v.
func Size(v version.Version) int {
	if v.HasEncodingByte() {
		return 5
	}
	return 4
}
