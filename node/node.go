package node

import (
	"strings"

	"github.com/haltroy/fluxion-go/fluxerr"
	"github.com/haltroy/fluxion-go/version"
)

// Attribute is a named, valued leaf attached to a Node. Attributes
// carry no children of their own.
type Attribute struct {
	name  string
	value Value
}

// NewAttribute creates a detached Attribute. A blank or whitespace-only
// name collapses to "no name", per the "empty name ≡ missing name"
// invariant.
func NewAttribute(name string, v Value) *Attribute {
	return &Attribute{name: canonicalName(name), value: v}
}

func (a *Attribute) Name() string   { return a.name }
func (a *Attribute) HasName() bool  { return a.name != "" }
func (a *Attribute) Value() Value   { return a.value }
func (a *Attribute) SetValue(v Value) { a.value = v }
func (a *Attribute) SetName(name string) { a.name = canonicalName(name) }

// Clone returns a deep copy of a.
func (a *Attribute) Clone() *Attribute {
	return &Attribute{name: a.name, value: a.value.Clone()}
}

func canonicalName(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return name
}

// Node is a named, valued element of a Fluxion tree: a Value, an
// ordered list of child Nodes, and an ordered list of Attributes.
type Node struct {
	name     string
	value    Value
	children []*Node
	attrs    []*Attribute
	parent   *Node

	// version is meaningful only when this Node has no parent (is a
	// root); descendants report their root's version via Version().
	version version.Version
}

// New creates a detached Node with the given name and value. A blank
// or whitespace-only name collapses to "no name".
func New(name string, v Value) *Node {
	return &Node{name: canonicalName(name), value: v}
}

func (n *Node) Name() string  { return n.name }
func (n *Node) HasName() bool { return n.name != "" }
func (n *Node) SetName(name string) { n.name = canonicalName(name) }

func (n *Node) Value() Value      { return n.value }
func (n *Node) SetValue(v Value)  { n.value = v }

// Parent returns n's parent, or nil if n is a root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Root walks up to, and returns, n's root ancestor (n itself if n is
// already a root).
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Version reports the format version associated with n's tree. The
// root's version field is authoritative: descendants report their
// root's version, not any value set directly on themselves.
func (n *Node) Version() version.Version { return n.Root().version }

// SetVersion sets the format version recorded on n's root.
func (n *Node) SetVersion(v version.Version) { n.Root().version = v }

// Children returns n's child list. Callers must not mutate the
// returned slice directly; use Add/Insert/Remove instead.
func (n *Node) Children() []*Node { return n.children }

// Attributes returns n's attribute list. Callers must not mutate the
// returned slice directly.
func (n *Node) Attributes() []*Attribute { return n.attrs }

// ChildAt returns the child at index i, or nil if i is out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// ChildByName returns the first child named name in insertion order,
// or nil if none matches.
func (n *Node) ChildByName(name string) *Node {
	name = canonicalName(name)
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// AttributeAt returns the attribute at index i, or nil if i is out of
// range.
func (n *Node) AttributeAt(i int) *Attribute {
	if i < 0 || i >= len(n.attrs) {
		return nil
	}
	return n.attrs[i]
}

// AttributeByName returns the first attribute named name in insertion
// order, or nil if none matches.
func (n *Node) AttributeByName(name string) *Attribute {
	name = canonicalName(name)
	for _, a := range n.attrs {
		if a.name == name {
			return a
		}
	}
	return nil
}

// isAncestorOf reports whether candidate is n or one of n's ancestors
// — i.e. whether making candidate a child of n (or of anything under
// n) would create a cycle.
func isAncestorOf(candidate, n *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == candidate {
			return true
		}
	}
	return false
}

func detach(child *Node) {
	p := child.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	child.parent = nil
}

// Add appends child to n's child list, returning child's new index.
// It fails with [fluxerr.ErrInvalidParent] if child is nil, child is
// n itself, or child is an ancestor of n (either would create a
// cycle). If child already belongs to a different parent, it is
// detached from that parent first.
func (n *Node) Add(child *Node) (int, error) {
	if child == nil {
		return -1, fluxerr.ErrInvalidParent
	}
	if child == n || isAncestorOf(child, n) {
		return -1, fluxerr.ErrInvalidParent
	}
	detach(child)
	n.children = append(n.children, child)
	child.parent = n
	return len(n.children) - 1, nil
}

// Insert inserts child at index, shifting later children up. If index
// is greater than the current length, Insert does nothing (a boundary
// clamp, not an error). Cycle checks happen exactly as in Add.
func (n *Node) Insert(index int, child *Node) error {
	if child == nil {
		return fluxerr.ErrInvalidParent
	}
	if child == n || isAncestorOf(child, n) {
		return fluxerr.ErrInvalidParent
	}
	if index < 0 || index > len(n.children) {
		return nil
	}
	detach(child)
	// detach may have removed an element from n.children itself (if
	// child was already n's own child before this index), so re-clamp.
	if index > len(n.children) {
		index = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
	return nil
}

// Remove removes the first occurrence of child from n's child list,
// clearing its back-reference. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// AddRange appends children to n's child list as a single all-or-
// nothing operation: every candidate is checked for cycles before any
// mutation happens, so a rejected batch leaves n unchanged.
func (n *Node) AddRange(children []*Node) error {
	for _, child := range children {
		if child == nil || child == n || isAncestorOf(child, n) {
			return fluxerr.ErrInvalidParent
		}
	}
	for _, child := range children {
		detach(child)
		n.children = append(n.children, child)
		child.parent = n
	}
	return nil
}

// AddAttribute appends attr to n's attribute list.
func (n *Node) AddAttribute(attr *Attribute) {
	n.attrs = append(n.attrs, attr)
}

// RemoveAttribute removes the first occurrence of attr from n's
// attribute list. It reports whether attr was found.
func (n *Node) RemoveAttribute(attr *Attribute) bool {
	for i, a := range n.attrs {
		if a == attr {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of n. Each of copyName, copyValue,
// copyAttrs, and copyChildren independently selects whether that part
// is copied from n or left at its zero value; the clone is always
// detached (no parent).
func (n *Node) Clone(copyName, copyValue, copyAttrs, copyChildren bool) *Node {
	clone := &Node{}
	if copyName {
		clone.name = n.name
	}
	if copyValue {
		clone.value = n.value.Clone()
	}
	if copyAttrs {
		clone.attrs = make([]*Attribute, len(n.attrs))
		for i, a := range n.attrs {
			clone.attrs[i] = a.Clone()
		}
	}
	if copyChildren {
		clone.children = make([]*Node, len(n.children))
		for i, c := range n.children {
			cc := c.Clone(true, true, true, true)
			cc.parent = clone
			clone.children[i] = cc
		}
	}
	if n.IsRoot() {
		clone.version = n.version
	}
	return clone
}

// Visit performs a pre/post-order traversal of n and its descendants.
// f is called once before visiting children (isPost=false) and once
// after (isPost=true); returning an error from either call aborts the
// traversal.
func (n *Node) Visit(f func(n *Node, isPost bool) error) error {
	if err := f(n, false); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := c.Visit(f); err != nil {
			return err
		}
	}
	return f(n, true)
}
