package ots

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/chronoseal/ots/calendar"
	"github.com/chronoseal/ots/filehash"
	"github.com/chronoseal/ots/hashop"
	"github.com/chronoseal/ots/op"
	"github.com/chronoseal/ots/timestamp"
	"github.com/chronoseal/ots/tree"
	"github.com/chronoseal/ots/utils"
	"github.com/chronoseal/ots/wire"
	"github.com/ztrue/tracerr"
)

// FudgeLength is the default number of random bytes mixed with the
// user's digest before it is sent to a calendar.
const FudgeLength = 16

// ErrorAllCalendarsFailed is returned when every calendar in a Submit
// call failed or returned an unparsable response, leaving nothing to
// build a Timestamp from.
var ErrorAllCalendarsFailed = utils.NewNetworkError("SUBMIT_ALL_CALENDARS_FAILED", "every calendar failed")

// SubmitOptions configures a single Submit call. Every field is
// optional; the zero value uses the package defaults.
type SubmitOptions struct {
	Fudge        []byte
	CalendarURLs []string
	HTTPTimeout  time.Duration
	Logger       zerolog.Logger
}

// SubmitResult is Submit's best-effort output: a Timestamp built from
// whichever calendars responded, plus the set of per-calendar failures.
type SubmitResult struct {
	Timestamp timestamp.Timestamp
	Errors    map[string]error
}

// Submit hashes value with a random fudge, sends the result to every
// calendar in opts.CalendarURLs (concurrently), and assembles a
// Timestamp from the union of the calendars that responded. A
// per-calendar failure is captured in the result's Errors map rather
// than aborting the call. Submit returns a non-nil error only if the
// FileHash is invalid, the random fudge cannot be generated, or every
// calendar failed.
func Submit(ctx context.Context, algorithm filehash.Algorithm, value []byte, opts SubmitOptions) (SubmitResult, error) {
	fh := filehash.FileHash{Algorithm: algorithm, Value: value}
	if err := fh.Validate(); err != nil {
		return SubmitResult{}, err
	}

	fudge := opts.Fudge
	if len(fudge) == 0 {
		random, err := utils.GenerateRandomBytes(FudgeLength)
		if err != nil {
			return SubmitResult{}, err
		}
		fudge = random
	}

	// Calendars only ever aggregate SHA256 digests, independent of the
	// FileHash's own algorithm: the seed sent over the wire is always
	// SHA256(value || fudge).
	seed := hashop.Sha256(append(append([]byte{}, value...), fudge...))

	urls := opts.CalendarURLs
	if len(urls) == 0 {
		urls = calendar.DefaultURLs
	}
	timeout := opts.HTTPTimeout
	if timeout == 0 {
		timeout = calendar.DefaultTimeout
	}

	subTrees := make([]*tree.Tree, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			client := calendar.NewClient(url, timeout, opts.Logger)
			body, err := client.Digest(gctx, seed)
			if err != nil {
				errs[i] = err
				return nil
			}
			sub, err := wire.ReadBareTree(body)
			if err != nil {
				errs[i] = err
				return nil
			}
			subTrees[i] = sub
			return nil
		})
	}
	_ = g.Wait()

	errors := map[string]error{}
	hashSub := tree.New()
	successes := 0
	for i, sub := range subTrees {
		if errs[i] != nil {
			errors[urls[i]] = errs[i]
			continue
		}
		if sub != nil {
			hashSub = tree.Union(hashSub, sub)
			successes++
		}
	}

	if successes == 0 {
		return SubmitResult{Errors: errors}, tracerr.Wrap(ErrorAllCalendarsFailed)
	}

	root := tree.New().Incorporate(op.Append(fudge), tree.New().Incorporate(op.Sha256(), hashSub))

	return SubmitResult{
		Timestamp: timestamp.New(fh, root),
		Errors:    errors,
	}, nil
}
