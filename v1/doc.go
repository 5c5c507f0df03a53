// Package v1 implements Fluxion's original wire format: a single-pass,
// forward-only prefix-order encoding. Every node writes its own tag,
// name, and value inline, then its attributes, then recurses into its
// children — there is no pooling and no seeking, which makes v1 the
// cheapest codec to stream but the worst at deduplicating repeated
// strings and subtrees (that's what v2 and v3 are for).
package v1
