package v2

import (
	"io"

	"github.com/haltroy/fluxion-go/debug"
	"github.com/haltroy/fluxion-go/fluxerr"
	"github.com/haltroy/fluxion-go/header"
	"github.com/haltroy/fluxion-go/node"
	"github.com/haltroy/fluxion-go/scalar"
	"github.com/haltroy/fluxion-go/varint"
)

const (
	flagHasName    = 1 << 4
	flagNoChildren = 1 << 5
	flagNoAttrs    = 1 << 6
	flagUnique     = 1 << 7
	valueTypeMask  = 0x0f
)

// Write encodes root's subtree to w using the v2 pooled grammar: a
// varint(treeStart) header, the deduplicated data pool, then the tree
// itself as a sequence of (tag, offset) records. w need not be
// seekable — every offset is resolved from the completed analysis pass
// before any tree byte is written.
func Write(w io.Writer, root *node.Node, enc header.Encoding) error {
	p := newPool()
	if err := analyze(p, root, enc); err != nil {
		return err
	}
	poolSize, treeStart := p.resolveOffsets()

	if err := varint.WriteUint64(w, uint64(treeStart)); err != nil {
		return err
	}

	written := 0
	for _, e := range p.entries {
		n, err := w.Write(e.payload)
		if err != nil {
			return err
		}
		written += n
	}
	if written != poolSize {
		return fluxerr.EstimationMismatch(poolSize, written)
	}

	return writeNode(w, p, root, enc)
}

func writeNode(w io.Writer, p *pool, n *node.Node, enc header.Encoding) error {
	debug.Logf(debug.Codec(), "v2 writeNode: name=%q value=%s children=%d attrs=%d\n",
		n.Name(), n.Value().Type(), len(n.Children()), len(n.Attributes()))
	children := n.Children()
	attrs := n.Attributes()
	hasName := n.HasName()
	noChildren := len(children) == 0
	noAttrs := len(attrs) == 0
	unique := n.Value().IsZero()

	tag := byte(n.Value().Type()) & valueTypeMask
	if hasName {
		tag |= flagHasName
	}
	if noChildren {
		tag |= flagNoChildren
	}
	if noAttrs {
		tag |= flagNoAttrs
	}
	if unique {
		tag |= flagUnique
	}
	if _, err := w.Write([]byte{tag}); err != nil {
		return err
	}

	if !noChildren {
		if err := varint.WriteUint64(w, uint64(len(children))); err != nil {
			return err
		}
	}
	if hasName {
		if err := writePooledRef(w, p, node.String(n.Name()), enc); err != nil {
			return err
		}
	}
	if !unique {
		if err := writePooledRef(w, p, n.Value(), enc); err != nil {
			return err
		}
	}
	if !noAttrs {
		if err := varint.WriteUint64(w, uint64(len(attrs))); err != nil {
			return err
		}
		for _, a := range attrs {
			if err := writeAttribute(w, p, a, enc); err != nil {
				return err
			}
		}
	}
	for _, c := range children {
		if err := writeNode(w, p, c, enc); err != nil {
			return err
		}
	}
	return nil
}

// writeAttribute applies its own unique flag against its own value
// type — see DESIGN.md's note on the source format's attribute XOR bug,
// which this never reproduces since each tag byte is built from scratch.
func writeAttribute(w io.Writer, p *pool, a *node.Attribute, enc header.Encoding) error {
	unique := a.Value().IsZero()
	tag := byte(a.Value().Type()) & valueTypeMask
	if a.HasName() {
		tag |= flagHasName
	}
	if unique {
		tag |= flagUnique
	}
	if _, err := w.Write([]byte{tag}); err != nil {
		return err
	}
	if a.HasName() {
		if err := writePooledRef(w, p, node.String(a.Name()), enc); err != nil {
			return err
		}
	}
	if !unique {
		return writePooledRef(w, p, a.Value(), enc)
	}
	return nil
}

func writePooledRef(w io.Writer, p *pool, v node.Value, enc header.Encoding) error {
	offset, err := p.offsetOf(v, enc)
	if err != nil {
		return err
	}
	return varint.WriteUint64(w, uint64(offset))
}

// Read decodes a single node subtree from r using the v2 grammar. base
// is the absolute byte offset of the start of the v2 body within r
// (i.e. the size of the preamble + header that precedes it) — every
// pool offset read from the stream is relative to base. r must support
// Seek, since pool entries are resolved out of line from the tree
// records that reference them.
func Read(r io.ReadSeeker, base int64, enc header.Encoding) (*node.Node, error) {
	if _, err := r.Seek(base, io.SeekStart); err != nil {
		return nil, err
	}
	treeStart, err := varint.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(base+int64(treeStart), io.SeekStart); err != nil {
		return nil, err
	}
	return readNode(r, base, enc)
}

func readNode(r io.ReadSeeker, base int64, enc header.Encoding) (*node.Node, error) {
	tag, err := readByte(r)
	if err != nil {
		return nil, err
	}
	debug.Logf(debug.Codec(), "v2 readNode: tag=%#02x\n", tag)
	valueType := node.ValueType(tag & valueTypeMask)
	hasName := tag&flagHasName != 0
	noChildren := tag&flagNoChildren != 0
	noAttrs := tag&flagNoAttrs != 0
	unique := tag&flagUnique != 0

	if !node.IsValueType(byte(valueType)) {
		return nil, fluxerr.UnknownValueType(byte(valueType))
	}

	childCount := uint64(0)
	if !noChildren {
		childCount, err = varint.ReadUint64(r)
		if err != nil {
			return nil, err
		}
	}

	name := ""
	if hasName {
		nameValue, err := readPooledRef(r, base, node.TypeString, enc)
		if err != nil {
			return nil, err
		}
		name = nameValue.Str()
	}

	var value node.Value
	if unique {
		value = zeroValue(valueType)
	} else {
		value, err = readPooledRef(r, base, valueType, enc)
		if err != nil {
			return nil, err
		}
	}

	n := node.New(name, value)

	if !noAttrs {
		attrCount, err := varint.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < attrCount; i++ {
			a, err := readAttribute(r, base, enc)
			if err != nil {
				return nil, err
			}
			n.AddAttribute(a)
		}
	}

	for i := uint64(0); i < childCount; i++ {
		child, err := readNode(r, base, enc)
		if err != nil {
			return nil, err
		}
		if _, err := n.Add(child); err != nil {
			return nil, err
		}
	}

	return n, nil
}

func readAttribute(r io.ReadSeeker, base int64, enc header.Encoding) (*node.Attribute, error) {
	tag, err := readByte(r)
	if err != nil {
		return nil, err
	}
	valueType := node.ValueType(tag & valueTypeMask)
	hasName := tag&flagHasName != 0
	unique := tag&flagUnique != 0
	if !node.IsValueType(byte(valueType)) {
		return nil, fluxerr.UnknownValueType(byte(valueType))
	}

	name := ""
	if hasName {
		nameValue, err := readPooledRef(r, base, node.TypeString, enc)
		if err != nil {
			return nil, err
		}
		name = nameValue.Str()
	}

	var value node.Value
	if unique {
		value = zeroValue(valueType)
	} else {
		value, err = readPooledRef(r, base, valueType, enc)
		if err != nil {
			return nil, err
		}
	}
	return node.NewAttribute(name, value), nil
}

// readPooledRef reads a varint pool offset from r, seeks out to base +
// offset to decode the entry, then seeks back to resume the tree
// record that was mid-read.
func readPooledRef(r io.ReadSeeker, base int64, t node.ValueType, enc header.Encoding) (node.Value, error) {
	offset, err := varint.ReadUint64(r)
	if err != nil {
		return node.Value{}, err
	}
	resume, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return node.Value{}, err
	}
	if _, err := r.Seek(base+int64(offset), io.SeekStart); err != nil {
		return node.Value{}, err
	}
	v, err := scalar.ReadPoolPayload(r, t, enc)
	if err != nil {
		return node.Value{}, err
	}
	if _, err := r.Seek(resume, io.SeekStart); err != nil {
		return node.Value{}, err
	}
	return v, nil
}

// zeroValue returns t's canonical zero/empty form, used when the
// unique flag says no pool offset follows.
func zeroValue(t node.ValueType) node.Value {
	switch t {
	case node.TypeNull:
		return node.Null()
	case node.TypeTrue:
		return node.Bool(true)
	case node.TypeFalse:
		return node.Bool(false)
	case node.TypeU8:
		return node.U8(0)
	case node.TypeI8:
		return node.I8(0)
	case node.TypeU16Char:
		return node.U16Char(0)
	case node.TypeI16:
		return node.I16(0)
	case node.TypeU16:
		return node.U16(0)
	case node.TypeI32:
		return node.I32(0)
	case node.TypeU32:
		return node.U32(0)
	case node.TypeI64:
		return node.I64(0)
	case node.TypeU64:
		return node.U64(0)
	case node.TypeF32:
		return node.F32(0)
	case node.TypeF64:
		return node.F64(0)
	case node.TypeString:
		return node.String("")
	case node.TypeBytes:
		return node.Bytes(nil)
	default:
		return node.Null()
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
