package v3

import (
	"io"

	"github.com/haltroy/fluxion-go/debug"
	"github.com/haltroy/fluxion-go/header"
	"github.com/haltroy/fluxion-go/node"
	"github.com/haltroy/fluxion-go/scalar"
	"github.com/haltroy/fluxion-go/varint"
)

const (
	flagIsReference = 1 << 0
	flagIsAttribute = 1 << 1
	flagHasName     = 1 << 2
	flagHasValue    = 1 << 3
	// node-only:
	flagHasChildren  = 1 << 4
	flagCopyChildren = 1 << 5
	flagHasAttrs     = 1 << 6
	flagCopyAttrs    = 1 << 7
)

const (
	childKindExplicit = 0
	childKindRange    = 1
)

// item is one flattened node or attribute, annotated by the optimize
// pass before being grouped and written.
type item struct {
	isAttribute bool
	origNode    *node.Node
	origAttr    *node.Attribute

	hasName bool
	name    string
	hasValue bool
	value   node.Value

	childIdx []int
	attrIdx  []int

	isReference  bool
	referenceID  int
	copyChildren bool
	copyAttrs    bool

	// hash is origNode.Hash(), valid only when !isAttribute. It lets
	// optimizeItems skip an expensive IsDeepEqual call against any
	// earlier item that can't possibly match.
	hash uint64
}

// Write encodes root's subtree to w using the v3 item-table grammar.
// When optimize is true, repeated subtrees and attributes (structurally
// equal within tol) are written once and referenced by later
// occurrences; when false every item is written in full.
func Write(w io.Writer, root *node.Node, tol node.Tolerance, optimize bool) error {
	var items []*item
	rootIdx, err := flattenNode(&items, root)
	if err != nil {
		return err
	}

	if optimize {
		optimizeItems(items, tol)
	}
	debug.Logf(debug.Codec(), "v3 Write: flattened %d items, optimize=%v\n", len(items), optimize)

	groups := collapseRuns(items)
	debug.Logf(debug.Codec(), "v3 Write: collapsed to %d records\n", len(groups))

	pool := &dataPool{}
	// Pre-intern every name/value so dataCount is known before any item
	// is written; items reference pool indices by calling intern again,
	// which is idempotent (see v2's analysis pass for the same idiom).
	for _, it := range items {
		if it.hasName {
			pool.intern(node.String(it.name), tol)
		}
		if it.hasValue {
			pool.intern(it.value, tol)
		}
	}

	if err := varint.WriteUint64(w, uint64(len(items))); err != nil {
		return err
	}
	if err := varint.WriteUint64(w, uint64(len(pool.entries))); err != nil {
		return err
	}
	for _, v := range pool.entries {
		if _, err := w.Write([]byte{byte(v.Type())}); err != nil {
			return err
		}
		if err := scalar.WritePoolPayload(w, v, header.UTF8); err != nil {
			return err
		}
	}

	for _, g := range groups {
		if err := writeItem(w, g.it, g.count, pool, tol); err != nil {
			return err
		}
	}

	return varint.WriteUint64(w, uint64(rootIdx))
}

func flattenNode(items *[]*item, n *node.Node) (int, error) {
	var childIdx []int
	for _, c := range n.Children() {
		idx, err := flattenNode(items, c)
		if err != nil {
			return 0, err
		}
		childIdx = append(childIdx, idx)
	}
	var attrIdx []int
	for _, a := range n.Attributes() {
		attrIdx = append(attrIdx, flattenAttribute(items, a))
	}
	it := &item{
		origNode: n,
		hasName:  n.HasName(),
		name:     n.Name(),
		hasValue: n.Value().Type() != node.TypeNull,
		value:    n.Value(),
		childIdx: childIdx,
		attrIdx:  attrIdx,
		hash:     n.Hash(),
	}
	*items = append(*items, it)
	return len(*items) - 1, nil
}

func flattenAttribute(items *[]*item, a *node.Attribute) int {
	it := &item{
		isAttribute: true,
		origAttr:    a,
		hasName:     a.HasName(),
		name:        a.Name(),
		hasValue:    a.Value().Type() != node.TypeNull,
		value:       a.Value(),
	}
	*items = append(*items, it)
	return len(*items) - 1
}

// optimizeItems scans items in order and, for each, finds the nearest
// earlier item that is structurally deep-equal within tol; a match is
// rewritten as a pure reference (no overrides, full child/attribute
// inheritance). A match against an item that is itself a reference is
// redirected to that item's own anchor, so a whole run of equal items
// ends up pointing at one common target — which is what lets
// collapseRuns fold them into a single referenceCount record.
func optimizeItems(items []*item, tol node.Tolerance) {
	for i, it := range items {
		for j := i - 1; j >= 0; j-- {
			cand := items[j]
			if cand.isAttribute != it.isAttribute {
				continue
			}
			if !it.isAttribute && it.hash != cand.hash {
				continue
			}
			if !itemsDeepEqual(it, cand, tol) {
				continue
			}
			anchor := j
			if cand.isReference {
				anchor = cand.referenceID
			}
			it.isReference = true
			it.referenceID = anchor
			it.hasName = false
			it.hasValue = false
			it.copyChildren = !it.isAttribute
			it.copyAttrs = !it.isAttribute
			it.childIdx = nil
			it.attrIdx = nil
			break
		}
	}
}

func itemsDeepEqual(a, b *item, tol node.Tolerance) bool {
	if a.isAttribute {
		return a.origAttr.Name() == b.origAttr.Name() &&
			a.origAttr.Value().Equal(b.origAttr.Value(), tol.F32, tol.F64)
	}
	return node.IsDeepEqual(a.origNode, b.origNode, tol)
}

type itemGroup struct {
	it    *item
	count int
}

// collapseRuns merges maximal consecutive runs of pure references to
// the same anchor into a single physical record carrying
// referenceCount = run length, per the record body's "emitter MAY
// repeat an identical item referenceCount times" allowance.
func collapseRuns(items []*item) []itemGroup {
	var groups []itemGroup
	i := 0
	for i < len(items) {
		start := i
		j := i + 1
		for j < len(items) && isPureDuplicateOf(items[j], items[start]) {
			j++
		}
		groups = append(groups, itemGroup{it: items[start], count: j - start})
		i = j
	}
	return groups
}

func isPureDuplicateOf(a, b *item) bool {
	return a.isReference && b.isReference && a.isAttribute == b.isAttribute && a.referenceID == b.referenceID
}

func writeItem(w io.Writer, it *item, count int, pool *dataPool, tol node.Tolerance) error {
	tag := byte(0)
	if it.isReference {
		tag |= flagIsReference
	}
	if it.isAttribute {
		tag |= flagIsAttribute
	}
	if it.hasName {
		tag |= flagHasName
	}
	if it.hasValue {
		tag |= flagHasValue
	}
	if it.isAttribute {
		tag |= byte(it.value.Type()&0x0f) << 4
	} else {
		if len(it.childIdx) > 0 {
			tag |= flagHasChildren
		}
		if it.copyChildren {
			tag |= flagCopyChildren
		}
		if len(it.attrIdx) > 0 {
			tag |= flagHasAttrs
		}
		if it.copyAttrs {
			tag |= flagCopyAttrs
		}
	}
	if _, err := w.Write([]byte{tag}); err != nil {
		return err
	}

	if it.isReference {
		if err := varint.WriteUint64(w, uint64(it.referenceID)); err != nil {
			return err
		}
		if err := varint.WriteUint64(w, uint64(count)); err != nil {
			return err
		}
	}
	if it.hasName {
		if err := varint.WriteUint64(w, uint64(pool.intern(node.String(it.name), tol))); err != nil {
			return err
		}
	}
	if it.hasValue {
		if !it.isAttribute {
			if _, err := w.Write([]byte{byte(it.value.Type())}); err != nil {
				return err
			}
		}
		if err := varint.WriteUint64(w, uint64(pool.intern(it.value, tol))); err != nil {
			return err
		}
	}
	if !it.isAttribute {
		if len(it.childIdx) > 0 {
			if err := writeIndexSet(w, it.childIdx); err != nil {
				return err
			}
		}
		if len(it.attrIdx) > 0 {
			if err := writeIndexSet(w, it.attrIdx); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeIndexSet(w io.Writer, ids []int) error {
	if isContiguousStep1(ids) {
		if _, err := w.Write([]byte{childKindRange}); err != nil {
			return err
		}
		if err := varint.WriteUint64(w, uint64(ids[0])); err != nil {
			return err
		}
		return varint.WriteUint64(w, uint64(ids[len(ids)-1]))
	}
	if _, err := w.Write([]byte{childKindExplicit}); err != nil {
		return err
	}
	if err := varint.WriteUint64(w, uint64(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := varint.WriteUint64(w, uint64(id)); err != nil {
			return err
		}
	}
	return nil
}

// isContiguousStep1 reports whether ids is a strictly increasing-by-one
// run — the only shape this implementation encodes as a range (see
// DESIGN.md's "V3 contiguous-range condition" resolution).
func isContiguousStep1(ids []int) bool {
	for i := 1; i < len(ids); i++ {
		if ids[i] != ids[i-1]+1 {
			return false
		}
	}
	return true
}
