package info

import (
	"encoding/json"
	"testing"

	"github.com/chronoseal/ots/filehash"
	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/op"
	"github.com/chronoseal/ots/shrink"
	"github.com/chronoseal/ots/timestamp"
	"github.com/chronoseal/ots/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fh() filehash.FileHash {
	return filehash.FileHash{Algorithm: filehash.SHA1, Value: make([]byte, 20)}
}

func TestRenderAfterShrinkMatchesDocumentedExample(t *testing.T) {
	ts := timestamp.New(fh(), tree.New().AddLeaf(leaf.Bitcoin(123)).AddLeaf(leaf.Bitcoin(456)))
	shrunk := shrink.Shrink(ts, leaf.KindBitcoin)

	got := Render(shrunk, false)
	assert.Equal(t, "msg = sha1(FILE)\nbitcoinVerify(msg, 123)", got)
}

func TestRenderSingleBranchNoArrow(t *testing.T) {
	ts := timestamp.New(fh(), tree.New().Incorporate(op.Sha256(), tree.New().AddLeaf(leaf.Bitcoin(1))))
	got := Render(ts, false)
	assert.Equal(t, "msg = sha1(FILE)\nmsg = sha256(msg)\nbitcoinVerify(msg, 1)", got)
}

func TestRenderMultiBranchUsesArrow(t *testing.T) {
	ts := timestamp.New(fh(), tree.New().AddLeaf(leaf.Bitcoin(1)).AddLeaf(leaf.Litecoin(2)))
	got := Render(ts, false)
	assert.Contains(t, got, " -> bitcoinVerify(msg, 1)")
	assert.Contains(t, got, " -> litecoinVerify(msg, 2)")
}

func TestRenderVerboseAddsVersionLine(t *testing.T) {
	ts := timestamp.New(fh(), tree.New().AddLeaf(leaf.Bitcoin(1)))
	got := Render(ts, true)
	assert.Contains(t, got, "# version: 1")
}

func TestRenderJSONDeterministic(t *testing.T) {
	ts := timestamp.New(fh(), tree.New().
		AddLeaf(leaf.Pending("https://a")).
		Incorporate(op.Append([]byte("x")), tree.New().AddLeaf(leaf.Bitcoin(9))))

	data1, err := RenderJSON(ts)
	require.NoError(t, err)
	data2, err := RenderJSON(ts)
	require.NoError(t, err)
	assert.Equal(t, data1, data2)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data1, &doc))
	assert.Equal(t, "sha1", doc["algorithm"])
}
