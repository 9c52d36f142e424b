// Package timestamp implements the top-level proof object: a version, a
// FileHash, and the Tree of transforms rooted at it. Read and Write
// implement the full (magic-prefixed) wire format; the bare-tree format
// used by calendar responses lives in the wire package directly.
package timestamp

import (
	"encoding/hex"

	"github.com/chronoseal/ots/filehash"
	"github.com/chronoseal/ots/op"
	"github.com/chronoseal/ots/tree"
	"github.com/chronoseal/ots/utils"
	"github.com/chronoseal/ots/wire"
	"github.com/ztrue/tracerr"
	"go.mongodb.org/mongo-driver/bson"
)

// CurrentVersion is the only version this implementation accepts.
const CurrentVersion uint64 = 1

// Magic is the fixed 31-byte header every Timestamp begins with.
var Magic = []byte{
	0x00,
	'O', 'p', 'e', 'n', 'T', 'i', 'm', 'e', 's', 't', 'a', 'm', 'p', 's',
	0x00, 0x00,
	'P', 'r', 'o', 'o', 'f',
	0x00,
	0xbf, 0x89, 0xe2, 0xe8, 0x84, 0xe8, 0x92, 0x94,
}

var (
	// ErrorBadMagic is returned when the input does not begin with Magic.
	ErrorBadMagic = utils.NewCodecError("TIMESTAMP_BAD_MAGIC", "input does not start with the OpenTimestamps magic header")
	// ErrorUnknownVersion is returned for any version other than
	// CurrentVersion.
	ErrorUnknownVersion = utils.NewCodecError("TIMESTAMP_UNKNOWN_VERSION", "unknown timestamp version")
)

// Timestamp is the top-level proof: a file hash plus the tree of
// transforms leading to its attestations.
type Timestamp struct {
	Version  uint64
	FileHash filehash.FileHash
	Tree     *tree.Tree
}

// New returns a Timestamp over fh with tree t, at CurrentVersion.
func New(fh filehash.FileHash, t *tree.Tree) Timestamp {
	return Timestamp{Version: CurrentVersion, FileHash: fh, Tree: t}
}

// Write serialises ts in the full wire format: magic, version, FileHash,
// then the Tree.
func Write(ts Timestamp) ([]byte, error) {
	if err := ts.FileHash.Validate(); err != nil {
		return nil, err
	}
	w := wire.NewWriter()
	w.WriteRaw(Magic)
	w.WriteUint(ts.Version)
	if err := w.WriteByte(byte(ts.FileHash.Algorithm)); err != nil {
		return nil, tracerr.Wrap(err)
	}
	w.WriteRaw(ts.FileHash.Value)
	if err := wire.WriteTree(w, ts.Tree); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Read parses the full wire format, requiring that data is consumed
// exactly: trailing bytes after the Tree fail with ErrorGarbageAtEOF.
func Read(data []byte) (Timestamp, error) {
	r := wire.NewReader(data)
	if !r.HasPrefix(Magic) {
		return Timestamp{}, tracerr.Wrap(ErrorBadMagic)
	}
	if _, err := r.ReadRaw(len(Magic)); err != nil {
		return Timestamp{}, err
	}
	version, err := r.ReadUint()
	if err != nil {
		return Timestamp{}, err
	}
	if version != CurrentVersion {
		return Timestamp{}, tracerr.Wrap(ErrorUnknownVersion.AddDetails(utils.HexLower([]byte{byte(version)})))
	}
	algByte, err := r.ReadByte()
	if err != nil {
		return Timestamp{}, err
	}
	alg, err := filehash.AlgorithmFromTag(algByte)
	if err != nil {
		return Timestamp{}, err
	}
	digest, err := r.ReadRaw(alg.DigestLength())
	if err != nil {
		return Timestamp{}, err
	}
	value := append([]byte{}, digest...)

	t, err := wire.ReadTree(r)
	if err != nil {
		return Timestamp{}, err
	}
	if err := r.CheckEOF(); err != nil {
		return Timestamp{}, err
	}

	return Timestamp{
		Version:  version,
		FileHash: filehash.FileHash{Algorithm: alg, Value: value},
		Tree:     t,
	}, nil
}

// Validate checks structural well-formedness: a known version, a valid
// FileHash, a non-empty tree, and every Op and Leaf reachable in it
// individually well-formed.
func (ts Timestamp) Validate() error {
	if ts.Version != CurrentVersion {
		return tracerr.Wrap(ErrorUnknownVersion)
	}
	if err := ts.FileHash.Validate(); err != nil {
		return err
	}
	if ts.Tree.IsEmpty() {
		return tracerr.Wrap(wire.ErrorEmptyTree)
	}
	// Walk visits each edge once regardless of how many leaves sit below
	// it, unlike iterating Paths, which revisits an edge shared by
	// several leaves once per leaf.
	if err := tree.Walk(ts.Tree, func(_ []op.Op, e tree.Edge) error {
		return e.Op.Validate()
	}); err != nil {
		return err
	}
	for _, p := range tree.Paths(ts.Tree) {
		if err := p.Leaf.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Paths enumerates every (ops, leaf) pair in ts.Tree.
func (ts Timestamp) Paths() []tree.Path {
	return tree.Paths(ts.Tree)
}

// FinalMessage computes the message reaching p.Leaf: ts.FileHash's value
// with every Op on p.Ops applied in order.
func (ts Timestamp) FinalMessage(p tree.Path) ([]byte, error) {
	return op.ApplyAll(ts.FileHash.Value, p.Ops)
}

// bsonDoc is the shape Timestamp is (de)serialised as for the BSON
// interchange format: the canonical binary encoding carried as an
// opaque blob, alongside the fields needed to pick a Timestamp out of a
// document store without re-parsing it.
type bsonDoc struct {
	Version       uint64 `bson:"version"`
	Algorithm     string `bson:"algorithm"`
	FileHashValue string `bson:"fileHashHex"`
	Tree          []byte `bson:"tree"`
}

// MarshalBSON implements bson.Marshaler, storing ts as its canonical
// binary Tree encoding plus the header fields as a queryable document.
func (ts Timestamp) MarshalBSON() ([]byte, error) {
	treeBytes, err := wire.WriteBareTree(ts.Tree)
	if err != nil {
		return nil, err
	}
	return bson.Marshal(bsonDoc{
		Version:       ts.Version,
		Algorithm:     ts.FileHash.Algorithm.String(),
		FileHashValue: utils.HexLower(ts.FileHash.Value),
		Tree:          treeBytes,
	})
}

// UnmarshalBSON implements bson.Unmarshaler, the inverse of MarshalBSON.
func (ts *Timestamp) UnmarshalBSON(data []byte) error {
	var doc bsonDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		return tracerr.Wrap(err)
	}
	alg, err := filehash.ParseAlgorithmName(doc.Algorithm)
	if err != nil {
		return err
	}
	value, err := hex.DecodeString(doc.FileHashValue)
	if err != nil {
		return tracerr.Wrap(err)
	}
	t, err := wire.ReadBareTree(doc.Tree)
	if err != nil {
		return err
	}
	ts.Version = doc.Version
	ts.FileHash = filehash.FileHash{Algorithm: alg, Value: value}
	ts.Tree = t
	return nil
}
