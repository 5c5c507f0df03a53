package v1

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
	valueTypeMask  = 0x0f
)

// Write encodes root's subtree to w using the v1 streaming prefix-order
// grammar: each node's tag byte, then (conditionally) its child count,
// name, value, attribute records, and finally its children in order.
// enc is the string encoding negotiated in the stream header; every
// name and string value is transcoded through it.
func Write(w io.Writer, root *node.Node, enc header.Encoding) error {
	return writeNode(w, root, enc)
}

func writeNode(w io.Writer, n *node.Node, enc header.Encoding) error {
	debug.Logf(debug.Codec(), "v1 writeNode: name=%q value=%s children=%d attrs=%d\n",
		n.Name(), n.Value().Type(), len(n.Children()), len(n.Attributes()))
	children := n.Children()
	attrs := n.Attributes()
	hasName := n.HasName()
	noChildren := len(children) == 0
	noAttrs := len(attrs) == 0

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
	if _, err := w.Write([]byte{tag}); err != nil {
		return err
	}

	if !noChildren {
		if err := varint.WriteUint64(w, uint64(len(children))); err != nil {
			return err
		}
	}
	if hasName {
		if err := writeName(w, n.Name(), enc); err != nil {
			return err
		}
	}
	if err := scalar.WriteV1(w, n.Value(), enc); err != nil {
		return err
	}
	if !noAttrs {
		if err := varint.WriteUint64(w, uint64(len(attrs))); err != nil {
			return err
		}
		for _, a := range attrs {
			if err := writeAttribute(w, a, enc); err != nil {
				return err
			}
		}
	}
	for _, c := range children {
		if err := writeNode(w, c, enc); err != nil {
			return err
		}
	}
	return nil
}

func writeAttribute(w io.Writer, a *node.Attribute, enc header.Encoding) error {
	tag := byte(a.Value().Type()) & valueTypeMask
	if a.HasName() {
		tag |= flagHasName
	}
	if _, err := w.Write([]byte{tag}); err != nil {
		return err
	}
	if a.HasName() {
		if err := writeName(w, a.Name(), enc); err != nil {
			return err
		}
	}
	return scalar.WriteV1(w, a.Value(), enc)
}

func writeName(w io.Writer, name string, enc header.Encoding) error {
	b := enc.EncodeString(name)
	if err := varint.WriteUint64(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// Read decodes a single node subtree from r using the v1 grammar, with
// enc matching whatever the writer used (taken from the stream
// header).
func Read(r io.Reader, enc header.Encoding) (*node.Node, error) {
	return readNode(r, enc)
}

func readNode(r io.Reader, enc header.Encoding) (*node.Node, error) {
	tag, err := readByte(r)
	if err != nil {
		return nil, err
	}
	debug.Logf(debug.Codec(), "v1 readNode: tag=%#02x\n", tag)
	valueType := node.ValueType(tag & valueTypeMask)
	hasName := tag&flagHasName != 0
	noChildren := tag&flagNoChildren != 0
	noAttrs := tag&flagNoAttrs != 0

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
		name, err = readName(r, enc)
		if err != nil {
			return nil, err
		}
	}

	value, err := scalar.ReadV1(r, valueType, enc)
	if err != nil {
		return nil, err
	}

	n := node.New(name, value)

	if !noAttrs {
		attrCount, err := varint.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < attrCount; i++ {
			a, err := readAttribute(r, enc)
			if err != nil {
				return nil, err
			}
			n.AddAttribute(a)
		}
	}

	for i := uint64(0); i < childCount; i++ {
		child, err := readNode(r, enc)
		if err != nil {
			return nil, err
		}
		if _, err := n.Add(child); err != nil {
			return nil, err
		}
	}

	return n, nil
}

func readAttribute(r io.Reader, enc header.Encoding) (*node.Attribute, error) {
	tag, err := readByte(r)
	if err != nil {
		return nil, err
	}
	valueType := node.ValueType(tag & valueTypeMask)
	hasName := tag&flagHasName != 0
	if !node.IsValueType(byte(valueType)) {
		return nil, fluxerr.UnknownValueType(byte(valueType))
	}

	name := ""
	if hasName {
		name, err = readName(r, enc)
		if err != nil {
			return nil, err
		}
	}
	value, err := scalar.ReadV1(r, valueType, enc)
	if err != nil {
		return nil, err
	}
	return node.NewAttribute(name, value), nil
}

func readName(r io.Reader, enc header.Encoding) (string, error) {
	n, err := varint.ReadUint64(r)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return "", fluxerr.ErrEndOfStream
		}
		return "", err
	}
	return enc.DecodeString(buf)
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
