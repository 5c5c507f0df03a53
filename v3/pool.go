package v3

import (
	"github.com/haltroy/fluxion-go/debug"
	"github.com/haltroy/fluxion-go/node"
)

// dataPool is v3's shared value pool: entries are deduplicated by
// structural equality within the write tolerance, not by encoded byte
// equality, so e.g. two float values within tolerance collapse to one
// entry even though their bit patterns differ.
type dataPool struct {
	entries []node.Value
}

// intern returns v's index in the pool, adding it if no existing entry
// is structurally equal within tol.
func (p *dataPool) intern(v node.Value, tol node.Tolerance) int {
	for i, e := range p.entries {
		if e.Type() == v.Type() && e.Equal(v, tol.F32, tol.F64) {
			return i
		}
	}
	p.entries = append(p.entries, v)
	idx := len(p.entries) - 1
	debug.Logf(debug.Pool(), "v3 pool: interned entry %d, type=%s\n", idx, v.Type())
	return idx
}
