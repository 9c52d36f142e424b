package ots

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/chronoseal/ots/calendar"
	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/op"
	"github.com/chronoseal/ots/timestamp"
	"github.com/chronoseal/ots/tree"
	"github.com/chronoseal/ots/wire"
)

// UpgradeOptions configures a single Upgrade call.
type UpgradeOptions struct {
	HTTPTimeout time.Duration
	Logger      zerolog.Logger
}

// UpgradeResult is Upgrade's best-effort output.
type UpgradeResult struct {
	Timestamp timestamp.Timestamp
	Errors    map[string]error
}

type pendingFetch struct {
	ops  []op.Op
	leaf leaf.Leaf
	msg  []byte
	sub  *tree.Tree
	err  error
}

// Upgrade fetches the sub-tree each pending leaf in ts was promised, and
// grafts it in place of that leaf. A leaf whose fetch fails is left
// pending and its error captured in the result, so calling Upgrade
// again later is safe. Leaves that are already non-pending are left
// untouched, making Upgrade idempotent.
func Upgrade(ctx context.Context, ts timestamp.Timestamp, opts UpgradeOptions) (UpgradeResult, error) {
	timeout := opts.HTTPTimeout
	if timeout == 0 {
		timeout = calendar.DefaultTimeout
	}

	var fetches []*pendingFetch
	for _, p := range ts.Paths() {
		if !p.Leaf.IsPending() {
			continue
		}
		msg, err := ts.FinalMessage(p)
		if err != nil {
			return UpgradeResult{}, err
		}
		fetches = append(fetches, &pendingFetch{ops: p.Ops, leaf: p.Leaf, msg: msg})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fetches {
		f := f
		g.Go(func() error {
			client := calendar.NewClient(f.leaf.URL, timeout, opts.Logger)
			body, err := client.Timestamp(gctx, f.msg)
			if err != nil {
				f.err = err
				return nil
			}
			sub, err := wire.ReadBareTree(body)
			if err != nil {
				f.err = err
				return nil
			}
			f.sub = sub
			return nil
		})
	}
	_ = g.Wait()

	result := ts
	errors := map[string]error{}
	for _, f := range fetches {
		if f.err != nil {
			errors[f.leaf.URL] = f.err
			continue
		}
		result.Tree = graft(result.Tree, f.ops, f.leaf, f.sub)
	}

	return UpgradeResult{Timestamp: result, Errors: errors}, nil
}

// graft replaces the pending leaf target, reached from t's root by
// following ops, with the content of replacement. Ancestors on the
// path are rebuilt on the way back up since Trees are immutable.
func graft(t *tree.Tree, ops []op.Op, target leaf.Leaf, replacement *tree.Tree) *tree.Tree {
	if len(ops) == 0 {
		return tree.Union(t.RemoveLeaf(target), replacement)
	}
	head, rest := ops[0], ops[1:]
	child, ok := t.Child(head)
	if !ok {
		return t
	}
	return t.ReplaceChild(head, graft(child, rest, target, replacement))
}
