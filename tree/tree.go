// Package tree implements the recursive proof structure: a node with
// outgoing Op-labelled edges to sub-Trees, and a set of terminal Leaves.
// Every operation here is a pure function over immutable values — no
// Tree is ever mutated after it is returned to a caller.
package tree

import (
	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/op"
)

// Edge is one outgoing transition: applying Op to the incoming message
// continues into Sub.
type Edge struct {
	Op  op.Op
	Sub *Tree
}

// Tree is a node in a proof tree: a set of Op-labelled edges to
// sub-trees, plus a set of terminal leaves reached at this node.
type Tree struct {
	edges  map[string]Edge
	leaves map[string]leaf.Leaf
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{edges: map[string]Edge{}, leaves: map[string]leaf.Leaf{}}
}

// IsEmpty reports whether t has neither edges nor leaves.
func (t *Tree) IsEmpty() bool {
	if t == nil {
		return true
	}
	return len(t.edges) == 0 && len(t.leaves) == 0
}

// EdgeCount returns the number of outgoing edges.
func (t *Tree) EdgeCount() int {
	if t == nil {
		return 0
	}
	return len(t.edges)
}

// LeafCount returns the number of terminal leaves at this node.
func (t *Tree) LeafCount() int {
	if t == nil {
		return 0
	}
	return len(t.leaves)
}

// AddLeaf returns a new Tree equal to t with leaf l added to its leaf
// set (a no-op if an equal leaf is already present).
func (t *Tree) AddLeaf(l leaf.Leaf) *Tree {
	result := t.clone()
	result.leaves[l.Key()] = l
	return result
}

// RemoveLeaf returns a new Tree equal to t with any leaf equal to l
// removed.
func (t *Tree) RemoveLeaf(l leaf.Leaf) *Tree {
	result := t.clone()
	delete(result.leaves, l.Key())
	return result
}

// Incorporate returns a new Tree equal to t with an additional edge:
// if o is already present, sub is unioned into the existing child;
// otherwise the edge is inserted directly.
func (t *Tree) Incorporate(o op.Op, sub *Tree) *Tree {
	branch := New()
	branch.edges[o.Key()] = Edge{Op: o, Sub: sub}
	return Union(t, branch)
}

// ReplaceChild returns a new Tree equal to t with the edge for o set to
// sub outright, replacing (not unioning with) any existing child.
// Incorporate is the union-preserving counterpart; ReplaceChild is for
// callers that have already computed the full intended content of a
// child and must not merge it with what used to be there.
func (t *Tree) ReplaceChild(o op.Op, sub *Tree) *Tree {
	result := t.clone()
	result.edges[o.Key()] = Edge{Op: o, Sub: sub}
	return result
}

// Edges returns the tree's outgoing edges, sorted by the Op total order
// (ascending tag, then payload lexicographic), making iteration
// deterministic.
func (t *Tree) Edges() []Edge {
	if t == nil || len(t.edges) == 0 {
		return nil
	}
	out := make([]Edge, 0, len(t.edges))
	for _, e := range t.edges {
		out = append(out, e)
	}
	sortEdgesByOp(out)
	return out
}

func sortEdgesByOp(edges []Edge) {
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0 && edges[j-1].Op.Compare(edges[j].Op) > 0; j-- {
			edges[j-1], edges[j] = edges[j], edges[j-1]
		}
	}
}

// Child returns the sub-tree reached via o, if any.
func (t *Tree) Child(o op.Op) (*Tree, bool) {
	if t == nil {
		return nil, false
	}
	e, ok := t.edges[o.Key()]
	if !ok {
		return nil, false
	}
	return e.Sub, true
}

// Leaves returns the leaves at this node, in a stable (sorted-by-key)
// order.
func (t *Tree) Leaves() []leaf.Leaf {
	if t == nil || len(t.leaves) == 0 {
		return nil
	}
	keys := make([]string, 0, len(t.leaves))
	for k := range t.leaves {
		keys = append(keys, k)
	}
	sortStrings(keys)
	out := make([]leaf.Leaf, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.leaves[k])
	}
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// clone makes a shallow-at-the-top, structurally-independent copy of t:
// the edge and leaf maps are new, but sub-trees are shared by pointer
// since Trees are immutable once published. A nil receiver clones to an
// empty Tree.
func (t *Tree) clone() *Tree {
	result := New()
	if t == nil {
		return result
	}
	for k, e := range t.edges {
		result.edges[k] = e
	}
	for k, l := range t.leaves {
		result.leaves[k] = l
	}
	return result
}

// Union returns a new Tree combining a and b: edges are unioned
// key-wise (recursively unioning sub-trees that share an Op), and leaf
// sets are unioned directly. Union is commutative and associative.
func Union(a, b *Tree) *Tree {
	result := New()
	for k, e := range safeEdges(a) {
		result.edges[k] = e
	}
	for k, e := range safeEdges(b) {
		if existing, ok := result.edges[k]; ok {
			result.edges[k] = Edge{Op: e.Op, Sub: Union(existing.Sub, e.Sub)}
		} else {
			result.edges[k] = e
		}
	}
	for k, l := range safeLeaves(a) {
		result.leaves[k] = l
	}
	for k, l := range safeLeaves(b) {
		result.leaves[k] = l
	}
	return result
}

func safeEdges(t *Tree) map[string]Edge {
	if t == nil {
		return nil
	}
	return t.edges
}

func safeLeaves(t *Tree) map[string]leaf.Leaf {
	if t == nil {
		return nil
	}
	return t.leaves
}

// Path is one (ops, leaf) pair produced by Paths: the sequence of Ops
// from the root to Leaf.
type Path struct {
	Ops  []op.Op
	Leaf leaf.Leaf
}

// Paths enumerates every (ops, leaf) pair in t, depth-first, in the
// deterministic order given by the Op total order over edges and the
// stable leaf-key order within a node.
func Paths(t *Tree) []Path {
	return pathsFrom(t, nil)
}

func pathsFrom(t *Tree, prefix []op.Op) []Path {
	if t == nil {
		return nil
	}
	var out []Path
	for _, l := range t.Leaves() {
		out = append(out, Path{Ops: append([]op.Op{}, prefix...), Leaf: l})
	}
	for _, e := range t.Edges() {
		childPrefix := append(append([]op.Op{}, prefix...), e.Op)
		out = append(out, pathsFrom(e.Sub, childPrefix)...)
	}
	return out
}

// Walk calls visit for every edge in t and recurses into its sub-tree;
// visit returning an error aborts the walk immediately, propagating the
// error to Walk's caller. Used by structural validation.
func Walk(t *Tree, visit func(path []op.Op, e Edge) error) error {
	return walkFrom(t, nil, visit)
}

func walkFrom(t *Tree, prefix []op.Op, visit func(path []op.Op, e Edge) error) error {
	if t == nil {
		return nil
	}
	for _, e := range t.Edges() {
		if err := visit(prefix, e); err != nil {
			return err
		}
		childPrefix := append(append([]op.Op{}, prefix...), e.Op)
		if err := walkFrom(e.Sub, childPrefix, visit); err != nil {
			return err
		}
	}
	return nil
}
