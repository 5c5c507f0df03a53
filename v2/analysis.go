package v2

import (
	"bytes"

	"github.com/haltroy/fluxion-go/debug"
	"github.com/haltroy/fluxion-go/header"
	"github.com/haltroy/fluxion-go/node"
	"github.com/haltroy/fluxion-go/scalar"
	"github.com/haltroy/fluxion-go/varint"
	"github.com/zeebo/blake3"
)

// poolEntry is one deduplicated name or value, already encoded in its
// final on-wire form.
type poolEntry struct {
	payload []byte
}

// pool is the analysis pass's output: every unique string or non-zero
// value the tree references, in first-encounter order, plus the
// offsets assigned once the pool's total size is known.
type pool struct {
	entries []poolEntry
	index   map[string]int
	offsets []int
}

func newPool() *pool {
	return &pool{index: make(map[string]int)}
}

// intern records v in the pool if it hasn't been seen before (by
// content equality for strings, content digest for bytes, and
// type+payload equality for every other numeric variant) and returns
// its entry index. Calling intern twice with equal values always
// returns the same index — this is what lets the emission pass re-run
// the exact same traversal as the analysis pass and resolve identical
// offsets.
func (p *pool) intern(v node.Value, enc header.Encoding) (int, error) {
	var buf bytes.Buffer
	if err := scalar.WritePoolPayload(&buf, v, enc); err != nil {
		return -1, err
	}
	payload := buf.Bytes()

	var key string
	switch v.Type() {
	case node.TypeString:
		key = "S\x00" + v.Str()
	case node.TypeBytes:
		digest := blake3.Sum256(v.Byt())
		key = "B\x00" + string(digest[:])
	default:
		key = "V\x00" + string(byte(v.Type())) + string(payload)
	}

	if idx, ok := p.index[key]; ok {
		return idx, nil
	}
	idx := len(p.entries)
	p.entries = append(p.entries, poolEntry{payload: payload})
	p.index[key] = idx
	debug.Logf(debug.Pool(), "v2 pool: interned entry %d, type=%s, %d bytes\n", idx, v.Type(), len(payload))
	return idx, nil
}

// analyze walks root, interning every present name and every non-zero
// value (node and attribute) into p.
func analyze(p *pool, root *node.Node, enc header.Encoding) error {
	return root.Visit(func(n *node.Node, isPost bool) error {
		if isPost {
			return nil
		}
		if n.HasName() {
			if _, err := p.intern(node.String(n.Name()), enc); err != nil {
				return err
			}
		}
		if !n.Value().IsZero() {
			if _, err := p.intern(n.Value(), enc); err != nil {
				return err
			}
		}
		for _, a := range n.Attributes() {
			if a.HasName() {
				if _, err := p.intern(node.String(a.Name()), enc); err != nil {
					return err
				}
			}
			if !a.Value().IsZero() {
				if _, err := p.intern(a.Value(), enc); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// resolveOffsets computes each entry's absolute position relative to
// the start of the v2 body and returns (poolSize, treeStart). treeStart
// is the position, relative to the body start, where the tree records
// begin — i.e. where the pool ends.
func (p *pool) resolveOffsets() (poolSize, treeStart int) {
	for _, e := range p.entries {
		poolSize += len(e.payload)
	}
	// treeStart = varintSize(treeStart) + poolSize; resolve the
	// self-reference by iterating until the varint width stabilizes
	// (at most two iterations in practice, since poolSize dwarfs the
	// handful of bytes the varint itself can add).
	headerSize := varint.Size(uint64(poolSize))
	for {
		candidate := headerSize + poolSize
		next := varint.Size(uint64(candidate))
		if next == headerSize {
			treeStart = candidate
			break
		}
		headerSize = next
	}

	p.offsets = make([]int, len(p.entries))
	running := headerSize
	for i, e := range p.entries {
		p.offsets[i] = running
		running += len(e.payload)
	}
	return poolSize, treeStart
}

func (p *pool) offsetOf(v node.Value, enc header.Encoding) (int, error) {
	idx, err := p.intern(v, enc)
	if err != nil {
		return 0, err
	}
	return p.offsets[idx], nil
}
