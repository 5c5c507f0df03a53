// Package fluxion is the public entry point for encoding and decoding
// Fluxion streams. It wraps the version-specific codecs in the v1, v2,
// and v3 subpackages behind a single Encode/Decode pair, selected and
// tuned through functional [Option]s.
package fluxion
