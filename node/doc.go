// Package node provides the in-memory tree model every Fluxion codec
// version reads from and writes to: [Node], [Attribute], and the
// 16-variant [Value] union.
//
// # Node structure
//
// A Node has an optional name, a Value, an ordered list of child Nodes,
// and an ordered list of Attributes. Nodes form a tree: each non-root
// Node belongs to exactly one parent's child list, and the back
// reference ([Node.Parent]) always agrees with that list. Fluxion trees
// are acyclic by construction — [Node.Add], [Node.Insert], and
// [Node.AddRange] all refuse an operation that would make a node its
// own ancestor.
//
//	root := node.New("", node.Null())
//	user := node.New("User", node.String("mike"))
//	user.AddAttribute(node.NewAttribute("Age", node.I32(35)))
//	root.Add(user)
//
// # Value
//
// Value is a closed tagged union over the 16 scalar variants Fluxion's
// wire formats define (null, true, false, eight integer widths, two
// float widths, string, and bytes). Construct one with the matching
// constructor ([Null], [Bool], [U8], [I8], [U16Char], [I16], [U16],
// [I32], [U32], [I64], [U64], [F32], [F64], [String], [Bytes]) and read
// it back with [Value.Type] plus the matching accessor.
//
// # Equality and cloning
//
// [IsDeepEqual] compares two trees structurally — name, value (with
// caller-supplied float/double tolerance), and then children and
// attributes in order. [Node.Clone] makes a deep copy with four
// independent selectors for which parts to copy, matching the
// teacher's ir.Node.Clone shape.
package node
