package v3

import (
	"io"

	"github.com/haltroy/fluxion-go/debug"
	"github.com/haltroy/fluxion-go/fluxerr"
	"github.com/haltroy/fluxion-go/header"
	"github.com/haltroy/fluxion-go/node"
	"github.com/haltroy/fluxion-go/scalar"
	"github.com/haltroy/fluxion-go/varint"
)

// Read decodes a single node subtree from r using the v3 item-table
// grammar. r is consumed strictly forward — v3 never seeks.
func Read(r io.Reader) (*node.Node, error) {
	itemCount, err := varint.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	dataCount, err := varint.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	debug.Logf(debug.Codec(), "v3 Read: itemCount=%d dataCount=%d\n", itemCount, dataCount)

	pool := make([]node.Value, dataCount)
	for i := range pool {
		typeByte, err := readByte(r)
		if err != nil {
			return nil, err
		}
		if !node.IsValueType(typeByte) {
			return nil, fluxerr.UnknownValueType(typeByte)
		}
		t := node.ValueType(typeByte)
		v, err := scalar.ReadPoolPayload(r, t, header.UTF8)
		if err != nil {
			return nil, err
		}
		pool[i] = v
	}

	// slots holds one interface{} per logical item index, either
	// *node.Node or *node.Attribute, shared across a referenceCount
	// run before any attachment clones it.
	slots := make([]interface{}, 0, itemCount)
	for uint64(len(slots)) < itemCount {
		tmpl, count, err := readItemRecord(r, slots, pool)
		if err != nil {
			return nil, err
		}
		for k := 0; k < count; k++ {
			slots = append(slots, tmpl)
		}
	}

	rootIdx, err := varint.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	if int(rootIdx) >= len(slots) {
		return nil, fluxerr.UnexpectedItemType(int(rootIdx), "node")
	}
	root, ok := slots[rootIdx].(*node.Node)
	if !ok {
		return nil, fluxerr.UnexpectedItemType(int(rootIdx), "node")
	}
	return root.Clone(true, true, true, true), nil
}

func readItemRecord(r io.Reader, slots []interface{}, pool []node.Value) (interface{}, int, error) {
	tag, err := readByte(r)
	if err != nil {
		return nil, 0, err
	}
	isReference := tag&flagIsReference != 0
	isAttribute := tag&flagIsAttribute != 0
	hasName := tag&flagHasName != 0
	hasValue := tag&flagHasValue != 0

	count := 1
	refID := 0
	if isReference {
		id, err := varint.ReadUint64(r)
		if err != nil {
			return nil, 0, err
		}
		refID = int(id)
		rc, err := varint.ReadUint64(r)
		if err != nil {
			return nil, 0, err
		}
		count = int(rc)
		if refID >= len(slots) {
			return nil, 0, fluxerr.UnexpectedItemType(refID, "earlier item")
		}
	}

	var name string
	if hasName {
		id, err := varint.ReadUint64(r)
		if err != nil {
			return nil, 0, err
		}
		if int(id) >= len(pool) {
			return nil, 0, fluxerr.ErrAnalyzedDataMissing
		}
		name = pool[id].Str()
	}

	var value node.Value
	var declaredType node.ValueType
	if isAttribute {
		declaredType = node.ValueType((tag >> 4) & 0x0f)
	}
	if hasValue {
		if !isAttribute {
			vt, err := readByte(r)
			if err != nil {
				return nil, 0, err
			}
			declaredType = node.ValueType(vt)
		}
		id, err := varint.ReadUint64(r)
		if err != nil {
			return nil, 0, err
		}
		if int(id) >= len(pool) {
			return nil, 0, fluxerr.ErrAnalyzedDataMissing
		}
		value = pool[id]
		if value.Type() != declaredType {
			return nil, 0, fluxerr.ValueTypeMismatch(byte(declaredType), byte(value.Type()))
		}
	}

	if isAttribute {
		tmpl, err := materializeAttribute(isReference, refID, slots, hasName, name, hasValue, value)
		return tmpl, count, err
	}

	copyChildren := tag&flagCopyChildren != 0
	hasChildrenField := tag&flagHasChildren != 0
	copyAttrs := tag&flagCopyAttrs != 0
	hasAttrsField := tag&flagHasAttrs != 0

	base, err := materializeNode(isReference, refID, slots, hasName, name, hasValue, value, copyChildren, copyAttrs)
	if err != nil {
		return nil, 0, err
	}

	if hasChildrenField {
		ids, err := readIndexSet(r)
		if err != nil {
			return nil, 0, err
		}
		for _, id := range ids {
			if id >= len(slots) {
				return nil, 0, fluxerr.UnexpectedItemType(id, "node")
			}
			child, ok := slots[id].(*node.Node)
			if !ok {
				return nil, 0, fluxerr.UnexpectedItemType(id, "node")
			}
			if _, err := base.Add(child.Clone(true, true, true, true)); err != nil {
				return nil, 0, err
			}
		}
	}
	if hasAttrsField {
		ids, err := readIndexSet(r)
		if err != nil {
			return nil, 0, err
		}
		for _, id := range ids {
			if id >= len(slots) {
				return nil, 0, fluxerr.UnexpectedItemType(id, "attribute")
			}
			attr, ok := slots[id].(*node.Attribute)
			if !ok {
				return nil, 0, fluxerr.UnexpectedItemType(id, "attribute")
			}
			base.AddAttribute(attr.Clone())
		}
	}

	return base, count, nil
}

func materializeAttribute(isReference bool, refID int, slots []interface{}, hasName bool, name string, hasValue bool, value node.Value) (*node.Attribute, error) {
	if isReference {
		ref, ok := slots[refID].(*node.Attribute)
		if !ok {
			return nil, fluxerr.UnexpectedItemType(refID, "attribute")
		}
		base := ref.Clone()
		if hasName {
			base.SetName(name)
		}
		if hasValue {
			base.SetValue(value)
		}
		return base, nil
	}
	base := node.NewAttribute("", node.Null())
	if hasName {
		base.SetName(name)
	}
	if hasValue {
		base.SetValue(value)
	}
	return base, nil
}

func materializeNode(isReference bool, refID int, slots []interface{}, hasName bool, name string, hasValue bool, value node.Value, copyChildren, copyAttrs bool) (*node.Node, error) {
	if isReference {
		ref, ok := slots[refID].(*node.Node)
		if !ok {
			return nil, fluxerr.UnexpectedItemType(refID, "node")
		}
		base := ref.Clone(!hasName, !hasValue, copyAttrs, copyChildren)
		if hasName {
			base.SetName(name)
		}
		if hasValue {
			base.SetValue(value)
		}
		return base, nil
	}
	base := node.New("", node.Null())
	if hasName {
		base.SetName(name)
	}
	if hasValue {
		base.SetValue(value)
	}
	return base, nil
}

func readIndexSet(r io.Reader) ([]int, error) {
	kind, err := readByte(r)
	if err != nil {
		return nil, err
	}
	switch kind {
	case childKindRange:
		lo, err := varint.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		hi, err := varint.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		ids := make([]int, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			ids = append(ids, int(i))
		}
		return ids, nil
	case childKindExplicit:
		n, err := varint.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		ids := make([]int, n)
		for i := range ids {
			v, err := varint.ReadUint64(r)
			if err != nil {
				return nil, err
			}
			ids[i] = int(v)
		}
		return ids, nil
	default:
		return nil, fluxerr.DisorientedRead(kind)
	}
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, fluxerr.ErrEndOfStream
		}
		return 0, err
	}
	return b[0], nil
}
