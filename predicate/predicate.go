// Package predicate implements the three boolean classifiers over a
// Timestamp's tree that decide which transforms apply to it.
package predicate

import (
	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/timestamp"
	"github.com/chronoseal/ots/tree"
)

// CanVerify reports whether ts has at least one non-pending leaf.
func CanVerify(ts timestamp.Timestamp) bool {
	for _, p := range tree.Paths(ts.Tree) {
		if !p.Leaf.IsPending() {
			return true
		}
	}
	return false
}

// CanUpgrade reports whether ts has at least one pending leaf.
func CanUpgrade(ts timestamp.Timestamp) bool {
	for _, p := range tree.Paths(ts.Tree) {
		if p.Leaf.IsPending() {
			return true
		}
	}
	return false
}

// CanShrink reports whether ts has at least one leaf of kind chain and
// at least one other leaf besides it (of any kind). A Timestamp with a
// single chain-leaf and nothing else cannot be shrunk further: shrink
// would be a no-op, so the predicate reports false for it.
func CanShrink(ts timestamp.Timestamp, chain leaf.Kind) bool {
	paths := tree.Paths(ts.Tree)
	if len(paths) < 2 {
		return false
	}
	for _, p := range paths {
		if p.Leaf.IsChain(chain) {
			return true
		}
	}
	return false
}
