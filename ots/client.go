// Package ots ties the structural primitives (filehash, op, leaf, tree,
// timestamp, wire) together into the four transforms a caller actually
// performs on a Timestamp: Submit, Upgrade, Shrink and Verify.
package ots

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/chronoseal/ots/calendar"
	"github.com/chronoseal/ots/filehash"
	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/shrink"
	"github.com/chronoseal/ots/timestamp"
	"github.com/chronoseal/ots/verifier"
)

// ClientOptions configures a Client. Every field is optional; the zero
// value uses the package defaults (the public calendar pool, the
// built-in blockchain-explorer verifiers, and zerolog's no-op logger).
type ClientOptions struct {
	CalendarURLs    []string
	CalendarTimeout time.Duration
	VerifierTimeout time.Duration
	Verifiers       map[string]verifier.Verifier
	EtherscanAPIKey string
	HTTPClient      *http.Client
	Logger          zerolog.Logger
}

// Client is a configured entry point for the Submit/Upgrade/Shrink/
// Verify transforms, holding the calendar pool, verifier set and
// timeouts a caller would otherwise have to pass on every call.
type Client struct {
	calendarURLs    []string
	calendarTimeout time.Duration
	verifierTimeout time.Duration
	verifiers       map[string]verifier.Verifier
	logger          zerolog.Logger
}

// NewClient returns a Client configured from opts, filling in package
// defaults for anything left unset.
func NewClient(opts ClientOptions) *Client {
	urls := opts.CalendarURLs
	if len(urls) == 0 {
		urls = calendar.DefaultURLs
	}
	calTimeout := opts.CalendarTimeout
	if calTimeout == 0 {
		calTimeout = calendar.DefaultTimeout
	}
	verifyTimeout := opts.VerifierTimeout
	if verifyTimeout == 0 {
		verifyTimeout = verifier.DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: verifyTimeout}
	}
	verifiers := opts.Verifiers
	if verifiers == nil {
		verifiers = verifier.DefaultSet(httpClient, opts.EtherscanAPIKey)
	}

	return &Client{
		calendarURLs:    urls,
		calendarTimeout: calTimeout,
		verifierTimeout: verifyTimeout,
		verifiers:       verifiers,
		logger:          opts.Logger,
	}
}

// Submit hashes value with a random fudge, submits it to the client's
// calendar pool, and returns the resulting Timestamp.
func (c *Client) Submit(ctx context.Context, algorithm filehash.Algorithm, value []byte) (SubmitResult, error) {
	return Submit(ctx, algorithm, value, SubmitOptions{
		CalendarURLs: c.calendarURLs,
		HTTPTimeout:  c.calendarTimeout,
		Logger:       c.logger,
	})
}

// Upgrade fetches and grafts in any pending attestations in ts.
func (c *Client) Upgrade(ctx context.Context, ts timestamp.Timestamp) (UpgradeResult, error) {
	return Upgrade(ctx, ts, UpgradeOptions{
		HTTPTimeout: c.calendarTimeout,
		Logger:      c.logger,
	})
}

// Shrink prunes ts down to its earliest leaf of the given chain.
func (c *Client) Shrink(ts timestamp.Timestamp, chain leaf.Kind) timestamp.Timestamp {
	return shrink.Shrink(ts, chain)
}

// Verify checks every non-pending leaf in ts against the client's
// verifier set and aggregates the confirmed attestations.
func (c *Client) Verify(ctx context.Context, ts timestamp.Timestamp) (VerifyResult, error) {
	return Verify(ctx, ts, c.verifiers)
}
