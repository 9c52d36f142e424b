package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveBlock(t *testing.T, merkleRoot string, unixTime int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(blockHeader{MerkleRoot: merkleRoot, Time: unixTime})
	}))
}

func TestVerifierDeclinesWrongChain(t *testing.T) {
	v := NewBlockchainInfoVerifier(http.DefaultClient)
	_, ok, err := v(context.Background(), []byte("msg"), leaf.Litecoin(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupAtMatchesMerkleRoot(t *testing.T) {
	message := []byte("deadbeef")
	srv := serveBlock(t, utils.HexLower(message), 1473227803)
	defer srv.Close()

	ts, ok, err := lookupAt(context.Background(), http.DefaultClient, srv.URL, message)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1473227803), ts)
}

func TestLookupAtDeclinesOnMismatch(t *testing.T) {
	srv := serveBlock(t, "0000", 1)
	defer srv.Close()

	_, ok, err := lookupAt(context.Background(), http.DefaultClient, srv.URL, []byte("other"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupAtPropagatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, err := lookupAt(context.Background(), http.DefaultClient, srv.URL, []byte("x"))
	assert.Error(t, err)
}

func TestDefaultSetHasDocumentedNames(t *testing.T) {
	set := DefaultSet(http.DefaultClient, "key")
	for _, name := range []string{"verifyViaBlockchainInfo", "verifyViaBlockstream", "verifyViaBlockCypherLTC", "verifyViaEtherscan"} {
		assert.Contains(t, set, name)
	}
}
