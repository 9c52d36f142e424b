// Package leaf implements the closed set of terminal attestation kinds:
// pending (a calendar promise), the three blockchain attestations, and
// unknown (a preserve-through-roundtrip fallback).
package leaf

import (
	"bytes"

	"github.com/chronoseal/ots/utils"
	"github.com/ztrue/tracerr"
)

// Kind identifies which of the five leaf shapes a Leaf has.
type Kind int

const (
	KindPending Kind = iota
	KindBitcoin
	KindLitecoin
	KindEthereum
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindPending:
		return "pending"
	case KindBitcoin:
		return "bitcoin"
	case KindLitecoin:
		return "litecoin"
	case KindEthereum:
		return "ethereum"
	case KindUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Magic is the 8-byte prefix identifying a leaf kind on the wire.
type Magic [8]byte

var (
	magicPending  = Magic{0x83, 0xdf, 0xe3, 0x0d, 0x2e, 0xf9, 0x0c, 0x8e}
	magicBitcoin  = Magic{0x05, 0x88, 0x96, 0x0d, 0x73, 0xd7, 0x19, 0x01}
	magicLitecoin = Magic{0x06, 0x86, 0x9a, 0x0d, 0x73, 0xd7, 0x1b, 0x45}
	magicEthereum = Magic{0x30, 0xfe, 0x80, 0x87, 0xb5, 0xc7, 0xea, 0xd7}
	knownMagics   = map[Magic]Kind{}
)

func init() {
	knownMagics[magicPending] = KindPending
	knownMagics[magicBitcoin] = KindBitcoin
	knownMagics[magicLitecoin] = KindLitecoin
	knownMagics[magicEthereum] = KindEthereum
}

// ErrorInvalidLeaf is returned when a Leaf value is structurally
// inconsistent with its Kind (e.g. a pending leaf with no URL).
var ErrorInvalidLeaf = utils.NewValidationError("LEAF_INVALID", "leaf is not well-formed for its kind")

// Leaf is a terminal attestation. Only the fields relevant to Kind are
// meaningful; the others are zero-valued.
type Leaf struct {
	Kind    Kind
	URL     string // pending
	Height  uint64 // bitcoin / litecoin / ethereum
	Tag     Magic  // unknown: the raw 8-byte magic that was not recognised
	Payload []byte // unknown: the opaque attestation payload
}

// Pending returns a pending leaf referencing the calendar at url.
func Pending(url string) Leaf { return Leaf{Kind: KindPending, URL: url} }

// Bitcoin returns a bitcoin attestation leaf at the given block height.
func Bitcoin(height uint64) Leaf { return Leaf{Kind: KindBitcoin, Height: height} }

// Litecoin returns a litecoin attestation leaf at the given block height.
func Litecoin(height uint64) Leaf { return Leaf{Kind: KindLitecoin, Height: height} }

// Ethereum returns an ethereum attestation leaf at the given block height.
func Ethereum(height uint64) Leaf { return Leaf{Kind: KindEthereum, Height: height} }

// Unknown returns a leaf preserving an unrecognised magic and payload.
func Unknown(tag Magic, payload []byte) Leaf {
	return Leaf{Kind: KindUnknown, Tag: tag, Payload: payload}
}

// ChainMagic returns the wire magic for one of the three blockchain
// kinds, or (Magic{}, false) for pending/unknown.
func ChainMagic(k Kind) (Magic, bool) {
	switch k {
	case KindBitcoin:
		return magicBitcoin, true
	case KindLitecoin:
		return magicLitecoin, true
	case KindEthereum:
		return magicEthereum, true
	default:
		return Magic{}, false
	}
}

// KindFromMagic resolves a wire magic to a defined Kind, or false if the
// magic is not one of the three known chain magics or the pending magic.
func KindFromMagic(m Magic) (Kind, bool) {
	k, ok := knownMagics[m]
	return k, ok
}

// Magic returns the wire magic for l. Unknown leaves return their
// preserved Tag.
func (l Leaf) Magic() Magic {
	switch l.Kind {
	case KindPending:
		return magicPending
	case KindUnknown:
		return l.Tag
	default:
		if m, ok := ChainMagic(l.Kind); ok {
			return m
		}
		return Magic{}
	}
}

// IsPending reports whether l is a pending (upgradable) leaf.
func (l Leaf) IsPending() bool { return l.Kind == KindPending }

var chainKinds = []Kind{KindBitcoin, KindLitecoin, KindEthereum}

// IsChain reports whether l is a blockchain attestation for chain k.
func (l Leaf) IsChain(k Kind) bool {
	return l.Kind == k && utils.SliceIncludes(chainKinds, k)
}

// Validate checks that l is structurally consistent with its Kind.
func (l Leaf) Validate() error {
	switch l.Kind {
	case KindPending:
		if l.URL == "" {
			return tracerr.Wrap(ErrorInvalidLeaf.AddDetails("pending leaf has empty URL"))
		}
	case KindBitcoin, KindLitecoin, KindEthereum:
		// height 0 is a legitimate (if unusual) genesis-block reference
	case KindUnknown:
		// any tag/payload is acceptable, that's the point
	default:
		return tracerr.Wrap(ErrorInvalidLeaf.AddDetails("unrecognised kind"))
	}
	return nil
}

// Equal implements the set-equality semantics leaves need for Tree's
// leaf set.
func (l Leaf) Equal(other Leaf) bool {
	if l.Kind != other.Kind {
		return false
	}
	switch l.Kind {
	case KindPending:
		return l.URL == other.URL
	case KindBitcoin, KindLitecoin, KindEthereum:
		return l.Height == other.Height
	case KindUnknown:
		return l.Tag == other.Tag && bytes.Equal(l.Payload, other.Payload)
	default:
		return false
	}
}

// Key returns a comparable, hashable representation of l, suitable as a
// map key for a leaf set.
func (l Leaf) Key() string {
	switch l.Kind {
	case KindPending:
		return "pending:" + l.URL
	case KindBitcoin, KindLitecoin, KindEthereum:
		return l.Kind.String() + ":" + utils.HexLower(uint64ToBytes(l.Height))
	case KindUnknown:
		return "unknown:" + utils.HexLower(l.Tag[:]) + ":" + utils.HexLower(l.Payload)
	default:
		return "invalid"
	}
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
