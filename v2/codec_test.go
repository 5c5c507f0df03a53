package v2

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
	user2.AddAttribute(node.NewAttribute("Age", node.I32(-10)))
	if _, err := user1.Add(user2); err != nil {
		panic(err)
	}
	if _, err := root.Add(user1); err != nil {
		panic(err)
	}
	return root
}

func roundTrip(t *testing.T, root *node.Node, enc header.Encoding) *node.Node {
	buf := &bytes.Buffer{}
	if err := Write(buf, root, enc); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()), 0, enc)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return got
}

func TestRoundTripEmptyRoot(t *testing.T) {
	root := node.New("", node.Null())
	got := roundTrip(t, root, header.UTF8)
	assertTreesEqual(t, root, got)
}

func TestRoundTripNamedTreeWithAttributes(t *testing.T) {
	root := buildSampleTree()
	got := roundTrip(t, root, header.UTF8)
	assertTreesEqual(t, root, got)
}

func TestRoundTripUTF16LEEncoding(t *testing.T) {
	root := buildSampleTree()
	got := roundTrip(t, root, header.UTF16LE)
	assertTreesEqual(t, root, got)
}

// TestDuplicateStringsAreDeduplicated builds 100 siblings all named
// "User" holding the string value "mike" and checks the pool stores
// each distinct string exactly once, not once per occurrence.
func TestDuplicateStringsAreDeduplicated(t *testing.T) {
	root := node.New("Root", node.Null())
	for i := 0; i < 100; i++ {
		if _, err := root.Add(node.New("User", node.String("mike"))); err != nil {
			t.Fatal(err)
		}
	}
	p := newPool()
	if err := analyze(p, root, header.UTF8); err != nil {
		t.Fatal(err)
	}
	// "Root", "User", "mike" — three distinct strings, regardless of
	// how many nodes reference them.
	if got := len(p.entries); got != 3 {
		t.Fatalf("pool has %d entries, want 3", got)
	}
}

func TestDeduplicationShrinksWireSize(t *testing.T) {
	root := node.New("Root", node.Null())
	for i := 0; i < 100; i++ {
		if _, err := root.Add(node.New("User", node.String("mike"))); err != nil {
			t.Fatal(err)
		}
	}
	var withDedup bytes.Buffer
	if err := Write(&withDedup, root, header.UTF8); err != nil {
		t.Fatal(err)
	}
	// A naive flat encoding would store "User"+"mike" once per sibling;
	// the pooled encoding should land well under that.
	naiveLowerBound := 100 * (len("User") + len("mike"))
	if withDedup.Len() >= naiveLowerBound {
		t.Fatalf("pooled size %d did not beat naive lower bound %d", withDedup.Len(), naiveLowerBound)
	}
}

func TestRoundTripNegativeIntegers(t *testing.T) {
	root := node.New("n", node.I32(-999999))
	root.AddAttribute(node.NewAttribute("a", node.I64(-123456789)))
	got := roundTrip(t, root, header.UTF8)
	assertTreesEqual(t, root, got)
}

func TestAttributeOrderPreserved(t *testing.T) {
	root := node.New("n", node.Null())
	root.AddAttribute(node.NewAttribute("a", node.U8(1)))
	root.AddAttribute(node.NewAttribute("b", node.U8(2)))
	root.AddAttribute(node.NewAttribute("c", node.U8(3)))
	got := roundTrip(t, root, header.UTF8)
	names := []string{"a", "b", "c"}
	for i, want := range names {
		if got.AttributeAt(i).Name() != want {
			t.Errorf("attribute %d = %q, want %q", i, got.AttributeAt(i).Name(), want)
		}
	}
}

func TestReadShortStreamYieldsEndOfStream(t *testing.T) {
	_, err := Read(bytes.NewReader(nil), 0, header.UTF8)
	if !errors.Is(err, fluxerr.ErrEndOfStream) {
		t.Fatalf("got %v, want ErrEndOfStream", err)
	}
}

func TestReadAtNonZeroBase(t *testing.T) {
	preamble := []byte{0xAA, 0xBB, 0xCC}
	root := buildSampleTree()
	buf := bytes.NewBuffer(append([]byte{}, preamble...))
	if err := Write(buf, root, header.UTF8); err != nil {
		t.Fatal(err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()), int64(len(preamble)), header.UTF8)
	if err != nil {
		t.Fatal(err)
	}
	assertTreesEqual(t, root, got)
}
