package fluxion

import (
	"io"

	"github.com/haltroy/fluxion-go/fluxerr"
	"github.com/haltroy/fluxion-go/header"
	"github.com/haltroy/fluxion-go/node"
	"github.com/haltroy/fluxion-go/v1"
	"github.com/haltroy/fluxion-go/v2"
	"github.com/haltroy/fluxion-go/v3"
	"github.com/haltroy/fluxion-go/version"
)

// Encode writes root to w as a complete Fluxion stream: the 4- or
// 5-byte header followed by the body of whichever version [WithVersion]
// selects (v3, the current version, by default).
func Encode(w io.Writer, root *node.Node, opts ...Option) error {
	s := defaultState()
	for _, opt := range opts {
		opt(&s)
	}
	v := version.Resolve(s.version)
	if !v.Valid() {
		return fluxerr.UnsupportedVersion(byte(v))
	}
	h := header.Header{Version: v}
	if v.HasEncodingByte() {
		h.Encoding = s.encoding
	}
	if err := header.Write(w, h); err != nil {
		return err
	}
	switch v {
	case version.V1:
		return v1.Write(w, root, s.encoding)
	case version.V2:
		return v2.Write(w, root, s.encoding)
	case version.V3:
		return v3.Write(w, root, s.tol, s.optimize)
	default:
		return fluxerr.UnsupportedVersion(byte(v))
	}
}

// Decode reads a complete Fluxion stream from r and returns its root
// node. The stream's own header names its version, so Decode ignores
// [WithVersion]; [WithTolerance] and [WithOptimize] are likewise
// write-side only. Decoding a v2 stream requires r to also implement
// io.Seeker — v2 resolves pool references by seeking back into the
// stream body — and fails with [fluxerr.ErrSeekRequired] otherwise.
func Decode(r io.Reader, opts ...Option) (*node.Node, error) {
	s := defaultState()
	for _, opt := range opts {
		opt(&s)
	}
	h, err := header.Read(r)
	if err != nil {
		return nil, err
	}
	switch h.Version {
	case version.V1:
		return v1.Read(r, h.Encoding)
	case version.V2:
		rs, ok := r.(io.ReadSeeker)
		if !ok {
			return nil, fluxerr.ErrSeekRequired
		}
		base, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		return v2.Read(rs, base, h.Encoding)
	case version.V3:
		return v3.Read(r)
	default:
		return nil, fluxerr.UnsupportedVersion(byte(h.Version))
	}
}
