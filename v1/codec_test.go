package v1

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/haltroy/fluxion-go/debug"
	"github.com/haltroy/fluxion-go/fluxerr"
	"github.com/haltroy/fluxion-go/header"
	"github.com/haltroy/fluxion-go/node"
)

// assertTreesEqual fails the test with a readable dump diff when want
// and got aren't deep-equal, rather than just printing got's %+v.
func assertTreesEqual(t *testing.T, want, got *node.Node) {
	t.Helper()
	if node.IsDeepEqual(want, got, node.DefaultTolerance()) {
		return
	}
	var wantBuf, gotBuf bytes.Buffer
	debug.Dump(&wantBuf, want)
	debug.Dump(&gotBuf, got)
	t.Fatalf("round trip mismatch (-want +got):\n%s", cmp.Diff(wantBuf.String(), gotBuf.String()))
}

func buildSampleTree() *node.Node {
	root := node.New("MyRootNode", node.Null())
	user1 := node.New("User", node.String("mike"))
	user1.AddAttribute(node.NewAttribute("Age", node.I32(35)))
	user2 := node.New("User", node.String("jeremy"))
	user2.AddAttribute(node.NewAttribute("Age", node.I32(10)))
	if _, err := user1.Add(user2); err != nil {
		panic(err)
	}
	if _, err := root.Add(user1); err != nil {
		panic(err)
	}
	return root
}

func TestRoundTripEmptyRoot(t *testing.T) {
	root := node.New("", node.Null())
	buf := &bytes.Buffer{}
	if err := Write(buf, root, header.UTF8); err != nil {
		t.Fatal(err)
	}
	// tag = noChildren(0x20) | noAttrs(0x40) | valueType(null=0) = 0x60
	if got := buf.Bytes(); len(got) != 1 || got[0] != 0x60 {
		t.Fatalf("got %x, want [60]", got)
	}
	got, err := Read(buf, header.UTF8)
	if err != nil {
		t.Fatal(err)
	}
	assertTreesEqual(t, root, got)
}

func TestRoundTripNamedTreeWithAttributes(t *testing.T) {
	root := buildSampleTree()
	buf := &bytes.Buffer{}
	if err := Write(buf, root, header.UTF8); err != nil {
		t.Fatal(err)
	}
	got, err := Read(buf, header.UTF8)
	if err != nil {
		t.Fatal(err)
	}
	assertTreesEqual(t, root, got)
}

func TestRoundTripUTF16LEEncoding(t *testing.T) {
	root := buildSampleTree()
	buf := &bytes.Buffer{}
	if err := Write(buf, root, header.UTF16LE); err != nil {
		t.Fatal(err)
	}
	got, err := Read(buf, header.UTF16LE)
	if err != nil {
		t.Fatal(err)
	}
	assertTreesEqual(t, root, got)
}

func TestReadAcceptsMinimalValidStream(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x60}) // null value, no children, no attrs
	_, err := Read(buf, header.UTF8)
	if err != nil {
		t.Fatalf("unexpected error on minimal valid stream: %v", err)
	}
}

func TestReadShortStreamYieldsEndOfStream(t *testing.T) {
	_, err := Read(bytes.NewReader(nil), header.UTF8)
	if !errors.Is(err, fluxerr.ErrEndOfStream) {
		t.Fatalf("got %v, want ErrEndOfStream", err)
	}
}

func TestAttributeOrderPreserved(t *testing.T) {
	root := node.New("n", node.Null())
	root.AddAttribute(node.NewAttribute("a", node.U8(1)))
	root.AddAttribute(node.NewAttribute("b", node.U8(2)))
	root.AddAttribute(node.NewAttribute("c", node.U8(3)))
	buf := &bytes.Buffer{}
	if err := Write(buf, root, header.UTF8); err != nil {
		t.Fatal(err)
	}
	got, err := Read(buf, header.UTF8)
	if err != nil {
		t.Fatal(err)
	}
	names := []string{"a", "b", "c"}
	for i, want := range names {
		if got.AttributeAt(i).Name() != want {
			t.Errorf("attribute %d = %q, want %q", i, got.AttributeAt(i).Name(), want)
		}
	}
}
