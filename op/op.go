// Package op implements the closed set of message-transform
// operations that label Tree edges: append, prepend, reverse, hexlify,
// and the four hash operations.
package op

import (
	"bytes"
	"encoding/hex"

	"github.com/chronoseal/ots/filehash"
	"github.com/chronoseal/ots/hashop"
	"github.com/chronoseal/ots/utils"
	"github.com/ztrue/tracerr"
)

// Tag is the one-byte wire tag identifying an Op.
type Tag byte

const (
	TagAppend    Tag = 0xF0
	TagPrepend   Tag = 0xF1
	TagReverse   Tag = 0xF2
	TagHexlify   Tag = 0xF3
	TagSha1      Tag = Tag(filehash.SHA1)
	TagRipemd160 Tag = Tag(filehash.RIPEMD160)
	TagSha256    Tag = Tag(filehash.SHA256)
	TagKeccak256 Tag = Tag(filehash.KECCAK256)
)

var (
	// ErrorUnknownTag is returned when a byte does not correspond to any
	// defined Op.
	ErrorUnknownTag = utils.NewValidationError("OP_UNKNOWN_TAG", "unknown op tag")
	// ErrorPayloadTooLong is returned when an append/prepend payload is
	// empty or exceeds the write-side limit of 4096 bytes.
	ErrorPayloadTooLong = utils.NewValidationError("OP_PAYLOAD_TOO_LONG", "unary op payload is empty or exceeds 4096 bytes")
)

// MaxUnaryPayload is the write-side limit on append/prepend payloads
// (spec: "payload length is constrained to 1..4096 bytes on write").
const MaxUnaryPayload = 4096

// IsUnary reports whether tag carries a payload (append, prepend).
func (tag Tag) IsUnary() bool {
	return tag == TagAppend || tag == TagPrepend
}

// Valid reports whether tag is one of the eight defined Ops.
func (tag Tag) Valid() bool {
	switch tag {
	case TagAppend, TagPrepend, TagReverse, TagHexlify, TagSha1, TagRipemd160, TagSha256, TagKeccak256:
		return true
	default:
		return false
	}
}

func (tag Tag) String() string {
	switch tag {
	case TagAppend:
		return "append"
	case TagPrepend:
		return "prepend"
	case TagReverse:
		return "reverse"
	case TagHexlify:
		return "hexlify"
	case TagSha1:
		return "sha1"
	case TagRipemd160:
		return "ripemd160"
	case TagSha256:
		return "sha256"
	case TagKeccak256:
		return "keccak256"
	default:
		return "unknown"
	}
}

// Op is a single message transform: a tag plus, for the two unary ops,
// the payload to append or prepend.
type Op struct {
	Tag     Tag
	Payload []byte
}

// Append returns the append(payload) Op.
func Append(payload []byte) Op { return Op{Tag: TagAppend, Payload: payload} }

// Prepend returns the prepend(payload) Op.
func Prepend(payload []byte) Op { return Op{Tag: TagPrepend, Payload: payload} }

// Reverse returns the reverse Op.
func Reverse() Op { return Op{Tag: TagReverse} }

// Hexlify returns the hexlify Op.
func Hexlify() Op { return Op{Tag: TagHexlify} }

// Sha1 returns the sha1 hash Op.
func Sha1() Op { return Op{Tag: TagSha1} }

// Ripemd160 returns the ripemd160 hash Op.
func Ripemd160() Op { return Op{Tag: TagRipemd160} }

// Sha256 returns the sha256 hash Op.
func Sha256() Op { return Op{Tag: TagSha256} }

// Keccak256 returns the keccak256 hash Op.
func Keccak256() Op { return Op{Tag: TagKeccak256} }

// HashOp returns the nullary hash Op corresponding to a.
func HashOp(a filehash.Algorithm) (Op, error) {
	switch a {
	case filehash.SHA1:
		return Sha1(), nil
	case filehash.RIPEMD160:
		return Ripemd160(), nil
	case filehash.SHA256:
		return Sha256(), nil
	case filehash.KECCAK256:
		return Keccak256(), nil
	default:
		return Op{}, tracerr.Wrap(ErrorUnknownTag.AddDetails(a.String()))
	}
}

// Validate checks that the Op is structurally well formed: a defined
// tag, and a payload present only (and within bounds) for unary ops.
func (o Op) Validate() error {
	if !o.Tag.Valid() {
		return tracerr.Wrap(ErrorUnknownTag.AddDetails(utils.HexLower([]byte{byte(o.Tag)})))
	}
	if o.Tag.IsUnary() {
		if len(o.Payload) < 1 || len(o.Payload) > MaxUnaryPayload {
			return tracerr.Wrap(ErrorPayloadTooLong.AddDetails(o.Tag.String()))
		}
	}
	return nil
}

// Equal reports whether o and other are the same Op: same tag and, for
// unary ops, byte-identical payload.
func (o Op) Equal(other Op) bool {
	if o.Tag != other.Tag {
		return false
	}
	if !o.Tag.IsUnary() {
		return true
	}
	return bytes.Equal(o.Payload, other.Payload)
}

// Compare orders Ops by tag ascending, then payload lexicographically.
// It implements the Op total order used for deterministic codec output
// and for Shrink's tie-breaking rule.
func (o Op) Compare(other Op) int {
	if o.Tag != other.Tag {
		if o.Tag < other.Tag {
			return -1
		}
		return 1
	}
	return bytes.Compare(o.Payload, other.Payload)
}

// Apply runs the Op's semantics on message, returning the transformed
// message.
func (o Op) Apply(message []byte) ([]byte, error) {
	switch o.Tag {
	case TagAppend:
		out := make([]byte, 0, len(message)+len(o.Payload))
		out = append(out, message...)
		out = append(out, o.Payload...)
		return out, nil
	case TagPrepend:
		out := make([]byte, 0, len(message)+len(o.Payload))
		out = append(out, o.Payload...)
		out = append(out, message...)
		return out, nil
	case TagReverse:
		out := make([]byte, len(message))
		for i, b := range message {
			out[len(message)-1-i] = b
		}
		return out, nil
	case TagHexlify:
		return []byte(hex.EncodeToString(message)), nil
	case TagSha1:
		return hashop.Sha1(message), nil
	case TagRipemd160:
		return hashop.Ripemd160(message), nil
	case TagSha256:
		return hashop.Sha256(message), nil
	case TagKeccak256:
		return hashop.Keccak256(message), nil
	default:
		return nil, tracerr.Wrap(ErrorUnknownTag.AddDetails(utils.HexLower([]byte{byte(o.Tag)})))
	}
}

// ApplyAll folds Apply over message for each Op in ops, in order.
func ApplyAll(message []byte, ops []Op) ([]byte, error) {
	current := message
	for _, o := range ops {
		next, err := o.Apply(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// Key returns a comparable, hashable representation of o, suitable as a
// map key for an edge map.
func (o Op) Key() string {
	return hex.EncodeToString([]byte{byte(o.Tag)}) + ":" + hex.EncodeToString(o.Payload)
}

// SortOps sorts a slice of Ops in place by the Op total order.
func SortOps(ops []Op) {
	// insertion sort: these slices are small (tree fan-out), and it keeps
	// the comparator symmetrical with Compare without pulling in sort.Slice
	// for what is usually a handful of elements.
	for i := 1; i < len(ops); i++ {
		for j := i; j > 0 && ops[j-1].Compare(ops[j]) > 0; j-- {
			ops[j-1], ops[j] = ops[j], ops[j-1]
		}
	}
}
