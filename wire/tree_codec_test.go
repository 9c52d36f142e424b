package wire

import (
	"testing"

	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/op"
	"github.com/chronoseal/ots/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadTreeSingleLeaf(t *testing.T) {
	tr := tree.New().AddLeaf(leaf.Bitcoin(123))

	w := NewWriter()
	require.NoError(t, WriteTree(w, tr))

	r := NewReader(w.Bytes())
	got, err := ReadTree(r)
	require.NoError(t, err)
	require.NoError(t, r.CheckEOF())

	assert.Equal(t, tree.Paths(tr), tree.Paths(got))
}

func TestWriteReadTreeMultipleSiblings(t *testing.T) {
	tr := tree.New().
		AddLeaf(leaf.Pending("https://alice.btc.calendar.opentimestamps.org")).
		AddLeaf(leaf.Bitcoin(500000)).
		Incorporate(op.Sha256(), tree.New().AddLeaf(leaf.Litecoin(9)))

	w := NewWriter()
	require.NoError(t, WriteTree(w, tr))

	r := NewReader(w.Bytes())
	got, err := ReadTree(r)
	require.NoError(t, err)
	require.NoError(t, r.CheckEOF())

	assert.Equal(t, tree.Paths(tr), tree.Paths(got))
}

func TestWriteReadTreeNestedEdges(t *testing.T) {
	inner := tree.New().AddLeaf(leaf.Ethereum(42))
	middle := tree.New().Incorporate(op.Reverse(), inner)
	outer := tree.New().Incorporate(op.Append([]byte("pad")), middle)

	w := NewWriter()
	require.NoError(t, WriteTree(w, outer))

	r := NewReader(w.Bytes())
	got, err := ReadTree(r)
	require.NoError(t, err)
	require.NoError(t, r.CheckEOF())

	assert.Equal(t, tree.Paths(outer), tree.Paths(got))
}

func TestWriteTreeOfEmptyTreeProducesUnreadableBytes(t *testing.T) {
	w := NewWriter()
	require.NoError(t, WriteTree(w, tree.New()))
	assert.Empty(t, w.Bytes())

	_, err := ReadTree(NewReader(w.Bytes()))
	assert.ErrorIs(t, err, ErrorTruncated)
}

func TestReadTreeTruncatedInput(t *testing.T) {
	r := NewReader([]byte{})
	_, err := ReadTree(r)
	assert.ErrorIs(t, err, ErrorTruncated)
}

func TestReadTreeUnknownTag(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := ReadTree(r)
	assert.ErrorIs(t, err, ErrorUnknownTag)
}

func TestReadTreeUnknownLeafMagicKeptAsUnknown(t *testing.T) {
	tr := tree.New().AddLeaf(leaf.Unknown(leaf.Magic{1, 2, 3, 4, 5, 6, 7, 8}, []byte("payload")))

	w := NewWriter()
	require.NoError(t, WriteTree(w, tr))

	r := NewReader(w.Bytes())
	got, err := ReadTree(r)
	require.NoError(t, err)

	leaves := got.Leaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, leaf.KindUnknown, leaves[0].Kind)
	assert.Equal(t, []byte("payload"), leaves[0].Payload)
}
