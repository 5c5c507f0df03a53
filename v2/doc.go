// Package v2 implements Fluxion's pooled wire format: every unique
// name and non-zero value is written once into a data pool at the
// start of the body, and the tree itself is a sequence of (tag,
// offset) records pointing back into that pool. This buys
// deduplication of repeated strings and small values at the cost of
// requiring a seekable reader and a two-pass writer (the pool's final
// byte size must be known before the tree's offsets can be written).
package v2
