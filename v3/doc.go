// Package v3 implements Fluxion's flattened item-table wire format: a
// post-order pass turns every node and attribute into one item in a
// single array, names and values go into a shared data pool keyed by
// structural equality (not byte equality, so near-identical floats
// within the write tolerance still share an entry), and an optional
// optimize pass turns repeated subtrees into reference items that
// clone an earlier entry instead of re-encoding it. Unlike v2, the
// writer needs no seeking — everything is resolved in memory before
// the first byte is written, and the reader consumes the array
// strictly forward, materializing each item from whatever earlier
// items it references.
package v3
