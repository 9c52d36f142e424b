package wire

import (
	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/op"
	"github.com/chronoseal/ots/tree"
)

// siblingMarker (0xFF) separates sibling records. It can never be
// confused with a real record's leading byte: leaf records always
// start with leafRecordTag (0x00), and no Op tag is 0xFF.
const siblingMarker = 0xFF

const leafRecordTag = 0x00

// WriteTree serialises t using the record/sibling-marker grammar shared
// by the full Timestamp format and the bare-tree format. It writes
// nothing at all for an empty t: the grammar has no representation for
// an empty level, so the codec trusts its caller not to descend into
// one (structural validation of that guarantee is a higher-level
// concern; see ErrorEmptyTree). ReadTree on the resulting bytes will
// therefore fail, since there is nothing left for it to parse.
func WriteTree(w *Writer, t *tree.Tree) error {
	edges := t.Edges()
	leaves := t.Leaves()
	total := len(edges) + len(leaves)

	emitted := 0
	writeMarkerIfNotLast := func() {
		emitted++
		if emitted < total {
			w.WriteByte(siblingMarker)
		}
	}

	for _, e := range edges {
		writeMarkerIfNotLast()
		if err := writeEdgeRecord(w, e); err != nil {
			return err
		}
	}
	for _, l := range leaves {
		writeMarkerIfNotLast()
		writeLeafRecord(w, l)
	}
	return nil
}

func writeEdgeRecord(w *Writer, e tree.Edge) error {
	w.WriteByte(byte(e.Op.Tag))
	if e.Op.Tag.IsUnary() {
		if err := e.Op.Validate(); err != nil {
			return err
		}
		w.WriteVarBytes(e.Op.Payload)
	}
	return WriteTree(w, e.Sub)
}

func writeLeafRecord(w *Writer, l leaf.Leaf) {
	w.WriteByte(leafRecordTag)
	magic := l.Magic()
	w.WriteRaw(magic[:])
	switch l.Kind {
	case leaf.KindPending:
		w.WriteVarBytes([]byte(l.URL))
	case leaf.KindBitcoin, leaf.KindLitecoin, leaf.KindEthereum:
		w.WriteUint(l.Height)
	case leaf.KindUnknown:
		w.WriteVarBytes(l.Payload)
	}
}

// ReadTree parses one tree level and all of its descendants from r,
// using the same sibling-marker grammar WriteTree writes. Every level
// descended into must have at least one record; running out of input
// before any record is read surfaces as ErrorTruncated (there is no
// valid zero-record encoding to distinguish it from).
func ReadTree(r *Reader) (*tree.Tree, error) {
	result := tree.New()
	for {
		b, err := r.PeekByte()
		if err != nil {
			return nil, err
		}
		if b == siblingMarker {
			if _, err := r.ReadByte(); err != nil {
				return nil, err
			}
			if err := readOneRecord(r, &result); err != nil {
				return nil, err
			}
			continue
		}
		if err := readOneRecord(r, &result); err != nil {
			return nil, err
		}
		return result, nil
	}
}

func readOneRecord(r *Reader, into **tree.Tree) error {
	tagByte, err := r.ReadByte()
	if err != nil {
		return err
	}
	if tagByte == leafRecordTag {
		l, err := readLeafRecord(r)
		if err != nil {
			return err
		}
		*into = (*into).AddLeaf(l)
		return nil
	}

	opTag := op.Tag(tagByte)
	if !opTag.Valid() {
		return offsetErr(ErrorUnknownTag, r.Offset()-1)
	}
	var payload []byte
	if opTag.IsUnary() {
		payload, err = r.ReadVarBytes()
		if err != nil {
			return err
		}
	}
	o := op.Op{Tag: opTag, Payload: payload}
	sub, err := ReadTree(r)
	if err != nil {
		return err
	}
	*into = (*into).Incorporate(o, sub)
	return nil
}

// WriteBareTree encodes t using the calendar wire format referenced in
// §6 of the calendar protocol: the same record grammar as WriteTree,
// with no magic header and no length prefix of its own.
func WriteBareTree(t *tree.Tree) ([]byte, error) {
	w := NewWriter()
	if err := WriteTree(w, t); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ReadBareTree decodes the calendar wire format from data. Trailing
// bytes are not an error here: a calendar response body contains
// nothing but the tree, so there is nothing to check EOF against.
func ReadBareTree(data []byte) (*tree.Tree, error) {
	return ReadTree(NewReader(data))
}

func readLeafRecord(r *Reader) (leaf.Leaf, error) {
	magicBytes, err := r.ReadRaw(8)
	if err != nil {
		return leaf.Leaf{}, err
	}
	var magic leaf.Magic
	copy(magic[:], magicBytes)

	kind, known := leaf.KindFromMagic(magic)
	if !known {
		payload, err := r.ReadVarBytes()
		if err != nil {
			return leaf.Leaf{}, err
		}
		return leaf.Unknown(magic, payload), nil
	}

	switch kind {
	case leaf.KindPending:
		urlBytes, err := r.ReadVarBytes()
		if err != nil {
			return leaf.Leaf{}, err
		}
		return leaf.Pending(string(urlBytes)), nil
	case leaf.KindBitcoin, leaf.KindLitecoin, leaf.KindEthereum:
		height, err := r.ReadUint()
		if err != nil {
			return leaf.Leaf{}, err
		}
		switch kind {
		case leaf.KindBitcoin:
			return leaf.Bitcoin(height), nil
		case leaf.KindLitecoin:
			return leaf.Litecoin(height), nil
		default:
			return leaf.Ethereum(height), nil
		}
	default:
		return leaf.Leaf{}, offsetErr(ErrorUnknownTag, r.Offset()-8)
	}
}
