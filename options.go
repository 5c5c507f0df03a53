package fluxion

import (
	"github.com/haltroy/fluxion-go/header"
	"github.com/haltroy/fluxion-go/node"
	"github.com/haltroy/fluxion-go/version"
)

// encState collects everything an Option can set. It is unexported —
// callers only ever see the Option closures, the way go-tony's
// encode.EncodeOption operates on encode.EncState.
type encState struct {
	version  version.Version
	encoding header.Encoding
	tol      node.Tolerance
	optimize bool
}

func defaultState() encState {
	return encState{
		version:  version.Current,
		encoding: header.UTF8,
		tol:      node.DefaultTolerance(),
		optimize: true,
	}
}

// Option configures [Encode] or [Decode]. Encode only consults the
// options the selected version needs: v1/v2 ignore Tolerance/Optimize,
// v3 ignores Encoding. Decode accepts Options but consults none of
// them; the stream's header supplies its version and encoding.
type Option func(*encState)

// WithVersion selects which wire format [Encode] writes. version.V1,
// V2, and V3 are all valid; 0 (or omitting this option) means
// [version.Current]. Decode ignores this option — the stream's own
// header names its version.
func WithVersion(v version.Version) Option {
	return func(s *encState) { s.version = v }
}

// WithEncoding selects the string transcoding a v1 or v2 stream uses.
// v3 always uses UTF-8 and ignores this option.
func WithEncoding(e header.Encoding) Option {
	return func(s *encState) { s.encoding = e }
}

// WithTolerance sets the float/double equality tolerance v3's data
// pool uses when deduplicating values. v1 and v2 ignore this option —
// their pools (v2 only) dedup by exact byte equality.
func WithTolerance(tol node.Tolerance) Option {
	return func(s *encState) { s.tol = tol }
}

// WithOptimize toggles v3's structural-duplicate reference pass.
// Defaults to true. v1 and v2 ignore this option.
func WithOptimize(v bool) Option {
	return func(s *encState) { s.optimize = v }
}
