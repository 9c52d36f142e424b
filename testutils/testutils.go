// Package testutils provides offline test doubles for the HTTP-backed
// parts of this module: a stub calendar server and stub verifiers, so
// the ots package's tests never reach the network.
package testutils

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/tree"
	"github.com/chronoseal/ots/verifier"
	"github.com/chronoseal/ots/wire"
)

// RandomHex returns n random bytes hex-encoded, for building distinct
// test fixtures (seeds, digests) without colliding across test cases.
func RandomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("testutils: RandomHex: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// CalendarServer is an in-process stand-in for a real calendar server:
// POST /digest always returns DigestTree, and GET /timestamp/{hex}
// returns whatever TimestampTrees maps that hex message to (or 404 if
// absent). Both fields may be edited directly between requests.
type CalendarServer struct {
	*httptest.Server

	mu             sync.Mutex
	DigestTree     *tree.Tree
	DigestErr      bool
	TimestampTrees map[string]*tree.Tree
}

// NewCalendarServer starts a CalendarServer that always answers POST
// /digest with digestTree's bare-tree encoding.
func NewCalendarServer(digestTree *tree.Tree) *CalendarServer {
	s := &CalendarServer{
		DigestTree:     digestTree,
		TimestampTrees: map[string]*tree.Tree{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// FailDigest makes subsequent POST /digest calls return a 503.
func (s *CalendarServer) FailDigest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DigestErr = true
}

// SetTimestampTree registers the sub-tree GET /timestamp/{hex(msg)}
// should return for the given message.
func (s *CalendarServer) SetTimestampTree(msg []byte, sub *tree.Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TimestampTrees[hex.EncodeToString(msg)] = sub
}

func (s *CalendarServer) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/digest":
		s.mu.Lock()
		failed, tr := s.DigestErr, s.DigestTree
		s.mu.Unlock()
		if failed {
			http.Error(w, "calendar unavailable", http.StatusServiceUnavailable)
			return
		}
		writeBareTree(w, tr)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/timestamp/"):
		msgHex := strings.TrimPrefix(r.URL.Path, "/timestamp/")
		s.mu.Lock()
		tr, ok := s.TimestampTrees[msgHex]
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeBareTree(w, tr)
	default:
		http.NotFound(w, r)
	}
}

func writeBareTree(w http.ResponseWriter, tr *tree.Tree) {
	body, err := wire.WriteBareTree(tr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(body)
}

// StubVerifier returns a Verifier that confirms unixTimestamp for every
// leaf of kind chain and declines every other leaf, never performing
// any I/O.
func StubVerifier(chain leaf.Kind, unixTimestamp int64) verifier.Verifier {
	return func(_ context.Context, _ []byte, l leaf.Leaf) (int64, bool, error) {
		if !l.IsChain(chain) {
			return 0, false, nil
		}
		return unixTimestamp, true, nil
	}
}

// FailingVerifier returns a Verifier that always fails with a synthetic
// error for leaves of kind chain, for exercising Verify's error
// aggregation path.
func FailingVerifier(chain leaf.Kind) verifier.Verifier {
	return func(_ context.Context, _ []byte, l leaf.Leaf) (int64, bool, error) {
		if !l.IsChain(chain) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("testutils: synthetic verifier failure")
	}
}
