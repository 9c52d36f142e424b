// Package shrink implements the pruning transform that reduces a
// Timestamp to its single earliest attestation on a chosen chain.
package shrink

import (
	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/op"
	"github.com/chronoseal/ots/timestamp"
	"github.com/chronoseal/ots/tree"
	"github.com/chronoseal/ots/utils"
)

// Shrink prunes ts to the single path ending in the earliest (lowest
// height) leaf of kind chain, discarding every other path and leaf
// unconditionally. If ts has no leaf of kind chain, ts is returned
// unchanged. Ties on height are broken by the Op total order over each
// candidate path's ops.
func Shrink(ts timestamp.Timestamp, chain leaf.Kind) timestamp.Timestamp {
	var (
		best    tree.Path
		found   bool
		bestOps []op.Op
	)

	for _, p := range tree.Paths(ts.Tree) {
		if !p.Leaf.IsChain(chain) {
			continue
		}
		isEarlier := found && utils.Min(p.Leaf.Height, best.Leaf.Height) == p.Leaf.Height && p.Leaf.Height != best.Leaf.Height
		isTiebreak := found && p.Leaf.Height == best.Leaf.Height && opsLess(p.Ops, bestOps)
		if !found || isEarlier || isTiebreak {
			best = p
			bestOps = p.Ops
			found = true
		}
	}
	if !found {
		return ts
	}

	return timestamp.New(ts.FileHash, buildPath(best.Ops, best.Leaf))
}

// buildPath builds a Tree containing exactly the single path ops -> l,
// as nested single-edge Trees ending in one leaf.
func buildPath(ops []op.Op, l leaf.Leaf) *tree.Tree {
	t := tree.New().AddLeaf(l)
	for i := len(ops) - 1; i >= 0; i-- {
		t = tree.New().Incorporate(ops[i], t)
	}
	return t
}

// opsLess reports whether a sorts before b under the Op total order,
// comparing element-wise and treating a shorter equal-prefix sequence as
// sorting first.
func opsLess(a, b []op.Op) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c < 0
		}
	}
	return len(a) < len(b)
}
