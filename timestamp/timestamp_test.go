package timestamp

import (
	"testing"

	"github.com/chronoseal/ots/filehash"
	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/op"
	"github.com/chronoseal/ots/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFileHash() filehash.FileHash {
	value := make([]byte, filehash.SHA1.DigestLength())
	for i := range value {
		value[i] = byte(i + 1)
	}
	return filehash.FileHash{Algorithm: filehash.SHA1, Value: value}
}

func TestWriteReadRoundtrip(t *testing.T) {
	tr := tree.New().
		AddLeaf(leaf.Pending("https://www.example.com/1")).
		AddLeaf(leaf.Pending("https://www.example.com/2"))
	ts := New(sampleFileHash(), tr)

	data, err := Write(ts)
	require.NoError(t, err)

	got, err := Read(data)
	require.NoError(t, err)

	assert.Equal(t, ts.Version, got.Version)
	assert.True(t, ts.FileHash.Equal(got.FileHash))
	assert.ElementsMatch(t, tree.Paths(ts.Tree), tree.Paths(got.Tree))
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, err := Read([]byte("not a timestamp"))
	assert.ErrorIs(t, err, ErrorBadMagic)
}

func TestReadRejectsUnknownVersion(t *testing.T) {
	tr := tree.New().AddLeaf(leaf.Bitcoin(1))
	ts := New(sampleFileHash(), tr)
	ts.Version = 99

	data, err := Write(ts)
	require.NoError(t, err)

	_, err = Read(data)
	assert.ErrorIs(t, err, ErrorUnknownVersion)
}

func TestReadRejectsGarbageAtEOF(t *testing.T) {
	tr := tree.New().AddLeaf(leaf.Bitcoin(1))
	ts := New(sampleFileHash(), tr)

	data, err := Write(ts)
	require.NoError(t, err)
	data = append(data, 0x00)

	_, err = Read(data)
	assert.Error(t, err)
}

// TestEmptyTreeWritesFiftyThreeBytesButFailsToRead reproduces the
// documented boundary case: writing a Timestamp whose tree is empty
// succeeds mechanically (magic + version + FileHash, with nothing
// emitted for the tree), but that output can never be read back, since
// the grammar has no encoding for an empty level.
func TestEmptyTreeWritesFiftyThreeBytesButFailsToRead(t *testing.T) {
	ts := New(sampleFileHash(), tree.New())

	data, err := Write(ts)
	require.NoError(t, err)
	assert.Len(t, data, 53)

	_, err = Read(data)
	assert.Error(t, err)
}

func TestValidateRejectsEmptyTree(t *testing.T) {
	ts := New(sampleFileHash(), tree.New())
	assert.Error(t, ts.Validate())
}

func TestValidateAcceptsWellFormedTimestamp(t *testing.T) {
	tr := tree.New().Incorporate(op.Sha256(), tree.New().AddLeaf(leaf.Bitcoin(100)))
	ts := New(sampleFileHash(), tr)
	assert.NoError(t, ts.Validate())
}

func TestFinalMessageAppliesPathOps(t *testing.T) {
	fh := sampleFileHash()
	l := leaf.Bitcoin(5)
	tr := tree.New().Incorporate(op.Reverse(), tree.New().AddLeaf(l))
	ts := New(fh, tr)

	paths := ts.Paths()
	require.Len(t, paths, 1)

	want := make([]byte, len(fh.Value))
	for i, b := range fh.Value {
		want[len(fh.Value)-1-i] = b
	}
	got, err := ts.FinalMessage(paths[0])
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBSONRoundtrip(t *testing.T) {
	tr := tree.New().AddLeaf(leaf.Litecoin(7)).AddLeaf(leaf.Pending("https://cal.example/"))
	ts := New(sampleFileHash(), tr)

	data, err := ts.MarshalBSON()
	require.NoError(t, err)

	var got Timestamp
	require.NoError(t, got.UnmarshalBSON(data))

	assert.Equal(t, ts.Version, got.Version)
	assert.True(t, ts.FileHash.Equal(got.FileHash))
	assert.ElementsMatch(t, tree.Paths(ts.Tree), tree.Paths(got.Tree))
}
