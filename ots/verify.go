package ots

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/predicate"
	"github.com/chronoseal/ots/timestamp"
	"github.com/chronoseal/ots/utils"
	"github.com/chronoseal/ots/verifier"
	"github.com/ztrue/tracerr"
)

// ErrorCannotVerify is returned when ts has no non-pending leaf for any
// verifier to check.
var ErrorCannotVerify = utils.NewLogicError("VERIFY_NO_CHAIN_LEAF", "timestamp has no non-pending leaf to verify")

// VerifyResult is Verify's aggregate output: the UNIX timestamps
// confirmed, each with the names of every verifier that confirmed it,
// and any verifier failures keyed by verifier name.
type VerifyResult struct {
	Attestations map[int64][]string
	Errors       map[string][]error
}

type verifyJob struct {
	name string
	fn   verifier.Verifier
	msg  []byte
	leaf leaf.Leaf
}

type verifyOutcome struct {
	name string
	ts   int64
	ok   bool
	err  error
}

// Verify runs every verifier in verifiers against every non-pending leaf
// reachable in ts, concurrently, and aggregates the UNIX timestamps they
// confirm. Verifier names are sorted before the job list is built, so
// the result is deterministic despite Go's randomised map iteration.
// Verify returns an error immediately, without making any network call,
// if ts.FinalMessage fails for a leaf or if ts has no non-pending leaf
// at all.
func Verify(ctx context.Context, ts timestamp.Timestamp, verifiers map[string]verifier.Verifier) (VerifyResult, error) {
	if !predicate.CanVerify(ts) {
		return VerifyResult{}, tracerr.Wrap(ErrorCannotVerify)
	}

	names := make([]string, 0, len(verifiers))
	for name := range verifiers {
		names = append(names, name)
	}
	sort.Strings(names)

	var jobs []verifyJob
	for _, p := range ts.Paths() {
		if p.Leaf.IsPending() {
			continue
		}
		msg, err := ts.FinalMessage(p)
		if err != nil {
			return VerifyResult{}, err
		}
		for _, name := range names {
			jobs = append(jobs, verifyJob{name: name, fn: verifiers[name], msg: msg, leaf: p.Leaf})
		}
	}

	outcomes := make([]verifyOutcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			unixTS, ok, err := j.fn(gctx, j.msg, j.leaf)
			outcomes[i] = verifyOutcome{name: j.name, ts: unixTS, ok: ok, err: err}
			return nil
		})
	}
	_ = g.Wait()

	attestations := map[int64][]string{}
	errorsByVerifier := map[string][]error{}
	seen := map[int64]map[string]bool{}

	for _, o := range outcomes {
		if o.err != nil {
			errorsByVerifier[o.name] = append(errorsByVerifier[o.name], o.err)
			continue
		}
		if !o.ok {
			continue
		}
		if seen[o.ts] == nil {
			seen[o.ts] = map[string]bool{}
		}
		if seen[o.ts][o.name] {
			continue
		}
		seen[o.ts][o.name] = true
		attestations[o.ts] = append(attestations[o.ts], o.name)
	}
	for unixTS := range attestations {
		sort.Strings(attestations[unixTS])
	}

	return VerifyResult{Attestations: attestations, Errors: errorsByVerifier}, nil
}
