package node

import (
	"errors"
	"testing"

	"github.com/haltroy/fluxion-go/fluxerr"
)

func TestAddSetsBackReferenceAndIndex(t *testing.T) {
	root := New("root", Null())
	child := New("child", Null())
	idx, err := root.Add(child)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 0 {
		t.Errorf("idx = %d, want 0", idx)
	}
	if child.Parent() != root {
		t.Error("child.Parent() != root")
	}
	if len(root.Children()) != 1 || root.Children()[0] != child {
		t.Error("root.Children() doesn't contain child")
	}
}

func TestAddRejectsSelfParent(t *testing.T) {
	a := New("a", Null())
	_, err := a.Add(a)
	if !errors.Is(err, fluxerr.ErrInvalidParent) {
		t.Fatalf("got %v, want ErrInvalidParent", err)
	}
}

func TestAddRejectsCycle(t *testing.T) {
	a := New("a", Null())
	b := New("b", Null())
	if _, err := a.Add(b); err != nil {
		t.Fatal(err)
	}
	_, err := b.Add(a)
	if !errors.Is(err, fluxerr.ErrInvalidParent) {
		t.Fatalf("got %v, want ErrInvalidParent", err)
	}
}

func TestAddDetachesFromPreviousParent(t *testing.T) {
	p1 := New("p1", Null())
	p2 := New("p2", Null())
	child := New("c", Null())
	p1.Add(child)
	p2.Add(child)
	if child.Parent() != p2 {
		t.Error("child should now belong to p2")
	}
	if len(p1.Children()) != 0 {
		t.Error("p1 should have released child")
	}
	if len(p2.Children()) != 1 {
		t.Error("p2 should hold child")
	}
}

func TestInsertBoundaryClamp(t *testing.T) {
	root := New("root", Null())
	a, b := New("a", Null()), New("b", Null())
	root.Add(a)
	if err := root.Insert(5, b); err != nil {
		t.Fatal(err)
	}
	if len(root.Children()) != 1 {
		t.Errorf("Insert past the end should be a no-op, got %d children", len(root.Children()))
	}
}

func TestInsertAtIndex(t *testing.T) {
	root := New("root", Null())
	a, b, c := New("a", Null()), New("b", Null()), New("c", Null())
	root.Add(a)
	root.Add(c)
	if err := root.Insert(1, b); err != nil {
		t.Fatal(err)
	}
	got := root.Children()
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Errorf("order = %v, want [a b c]", got)
	}
}

func TestRemoveClearsBackReference(t *testing.T) {
	root := New("root", Null())
	child := New("child", Null())
	root.Add(child)
	if !root.Remove(child) {
		t.Error("Remove should report found")
	}
	if child.Parent() != nil {
		t.Error("child.Parent() should be nil after Remove")
	}
	if root.Remove(child) {
		t.Error("second Remove should report not found")
	}
}

func TestAddRangeAllOrNothing(t *testing.T) {
	root := New("root", Null())
	a := New("a", Null())
	b := New("b", Null())
	// b is an ancestor of root artificially, to trigger the cycle check.
	b.Add(root)
	err := root.AddRange([]*Node{a, b})
	if !errors.Is(err, fluxerr.ErrInvalidParent) {
		t.Fatalf("got %v, want ErrInvalidParent", err)
	}
	if len(root.Children()) != 0 {
		t.Errorf("AddRange must not partially mutate on failure, got %d children", len(root.Children()))
	}
}

func TestChildByNameFirstMatch(t *testing.T) {
	root := New("root", Null())
	first := New("x", String("first"))
	second := New("x", String("second"))
	root.Add(first)
	root.Add(second)
	if got := root.ChildByName("x"); got != first {
		t.Errorf("ChildByName should return the first match")
	}
	if got := root.ChildByName("missing"); got != nil {
		t.Errorf("ChildByName(missing) = %v, want nil", got)
	}
}

func TestBlankNameCollapsesToAbsent(t *testing.T) {
	n := New("   ", Null())
	if n.HasName() {
		t.Error("whitespace-only name should collapse to absent")
	}
	n.SetName("")
	if n.HasName() {
		t.Error("empty name should collapse to absent")
	}
}

func TestVersionIsRootAuthoritative(t *testing.T) {
	root := New("root", Null())
	root.SetVersion(2)
	child := New("child", Null())
	root.Add(child)
	grandchild := New("grandchild", Null())
	child.Add(grandchild)
	if grandchild.Version() != 2 {
		t.Errorf("grandchild.Version() = %v, want 2", grandchild.Version())
	}
}

func TestCloneSelectors(t *testing.T) {
	root := New("root", String("hello"))
	root.AddAttribute(NewAttribute("a", I32(1)))
	root.Add(New("child", Null()))

	nameOnly := root.Clone(true, false, false, false)
	if nameOnly.Name() != "root" {
		t.Error("expected name copied")
	}
	if nameOnly.Value().Type() != TypeNull {
		t.Error("expected value not copied (zero Value)")
	}
	if len(nameOnly.Attributes()) != 0 || len(nameOnly.Children()) != 0 {
		t.Error("expected attrs/children not copied")
	}

	full := root.Clone(true, true, true, true)
	if !IsDeepEqual(root, full, DefaultTolerance()) {
		t.Error("full clone should be deep-equal to original")
	}
	if full.IsRoot() != true || full.Parent() != nil {
		t.Error("clone must be detached")
	}
}

func TestCloneDetachesFromOriginalTree(t *testing.T) {
	root := New("root", Null())
	child := New("child", Null())
	root.Add(child)
	clone := child.Clone(true, true, true, true)
	if clone.Parent() != nil {
		t.Error("cloned subtree root must have no parent")
	}
}

func TestIsDeepEqualOrderSensitive(t *testing.T) {
	a := New("root", Null())
	a.Add(New("x", I32(1)))
	a.Add(New("y", I32(2)))

	b := New("root", Null())
	b.Add(New("y", I32(2)))
	b.Add(New("x", I32(1)))

	if IsDeepEqual(a, b, DefaultTolerance()) {
		t.Error("reordered children must not compare deep-equal")
	}
}

func TestIsDeepEqualFloatTolerance(t *testing.T) {
	a := New("x", F64(1.0))
	b := New("x", F64(1.0005))
	if !IsDeepEqual(a, b, DefaultTolerance()) {
		t.Error("values within tolerance should compare equal")
	}
	c := New("x", F64(1.01))
	if IsDeepEqual(a, c, DefaultTolerance()) {
		t.Error("values outside tolerance should not compare equal")
	}
}
