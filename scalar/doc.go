// Package scalar encodes and decodes the payload bytes of a single
// [node.Value] for each of the two wire conventions the Type Table
// (spec §3) defines: the v1 column (fixed-width integers, no pooling)
// and the shared v2/v3 column (varint-encoded small integers, zigzag
// varints for signed widths, fixed-width floats, length-prefixed
// strings/bytes).
//
// The v2/v3 functions encode signed integers with zigzag varints, so
// the pooled payload alone carries both sign and magnitude — callers
// never need a separate sign bit from the surrounding wire tag. The sign
// is not stored as a separate magnitude-plus-flag pair, and neither the
// v2 unique flag nor the v3 type byte carries it.
//
// String payloads (but not raw bytes payloads) are transcoded through
// the stream's negotiated [header.Encoding] before being length-
// prefixed; v3 callers always pass header.UTF8, since v3 fixes the
// encoding.
package scalar
