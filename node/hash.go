package node

import (
	"hash/maphash"
	"math"
)

var hashSeed = maphash.MakeSeed()

// Hash returns a structural hash of n: same name, value, attributes,
// and children in order hash the same. It is a candidate pre-filter
// for the v3 optimizer's duplicate search, not a replacement for
// [IsDeepEqual] — a float/double within tolerance but with different
// bit patterns hashes differently, so two IsDeepEqual nodes can
// (rarely) hash apart. That only costs the optimizer a missed dedup
// opportunity, never correctness: every reference the optimizer emits
// is re-checked with IsDeepEqual before use.
func (n *Node) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	n.writeHash(&h)
	return h.Sum64()
}

func (n *Node) writeHash(h *maphash.Hash) {
	h.WriteString(n.name)
	n.value.writeHash(h)
	var lenBuf [8]byte
	putUint64(lenBuf[:], uint64(len(n.attrs)))
	h.Write(lenBuf[:])
	for _, a := range n.attrs {
		h.WriteString(a.name)
		a.value.writeHash(h)
	}
	putUint64(lenBuf[:], uint64(len(n.children)))
	h.Write(lenBuf[:])
	for _, c := range n.children {
		c.writeHash(h)
	}
}

func (v Value) writeHash(h *maphash.Hash) {
	h.WriteByte(byte(v.typ))
	switch v.typ {
	case TypeNull, TypeTrue, TypeFalse:
	case TypeU8, TypeU16Char, TypeU16, TypeU32, TypeU64:
		var b [8]byte
		putUint64(b[:], v.u)
		h.Write(b[:])
	case TypeI8, TypeI16, TypeI32, TypeI64:
		var b [8]byte
		putUint64(b[:], uint64(v.i))
		h.Write(b[:])
	case TypeF32:
		var b [8]byte
		putUint64(b[:], uint64(math.Float32bits(v.F32())))
		h.Write(b[:])
	case TypeF64:
		var b [8]byte
		putUint64(b[:], v.u)
		h.Write(b[:])
	case TypeString:
		h.WriteString(v.str)
	case TypeBytes:
		h.Write(v.byt)
	}
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
