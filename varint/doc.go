// Package varint encodes and decodes unsigned LEB128 integers: the
// variable-length encoding Fluxion uses for every length, count, index,
// and offset on the wire.
//
// Each byte carries 7 data bits; the high bit signals continuation.
// Zero encodes as the single byte 0x00. Decoders reject encodings that
// would overflow the caller's requested width (32 or 64 bits) and
// report a short read as [fluxerr.ErrEndOfStream].
package varint
