// Package filehash defines the hashed representation of the original
// file that a Timestamp attests to: an algorithm tag plus a
// fixed-length digest.
package filehash

import (
	"github.com/chronoseal/ots/hashop"
	"github.com/chronoseal/ots/utils"
	"github.com/ztrue/tracerr"
)

// Algorithm identifies one of the four digest algorithms this format
// supports. Its numeric value doubles as the wire tag byte used both in
// the FileHash header and as the corresponding hash Op tag.
type Algorithm byte

const (
	SHA1      Algorithm = 0x02
	RIPEMD160 Algorithm = 0x03
	SHA256    Algorithm = 0x08
	KECCAK256 Algorithm = 0x67
)

var (
	// ErrorUnknownAlgorithm is returned when a tag byte or name does not
	// match any of the four defined algorithms.
	ErrorUnknownAlgorithm = utils.NewValidationError("FILEHASH_UNKNOWN_ALGORITHM", "unknown hash algorithm")
	// ErrorWrongDigestLength is returned when a FileHash's Value does not
	// match its Algorithm's fixed digest length.
	ErrorWrongDigestLength = utils.NewValidationError("FILEHASH_WRONG_DIGEST_LENGTH", "digest length does not match algorithm")
)

// String returns the canonical lowercase name of the algorithm, as used
// in the Submit API and the info printer.
func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case RIPEMD160:
		return "ripemd160"
	case SHA256:
		return "sha256"
	case KECCAK256:
		return "keccak256"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the four defined algorithms.
func (a Algorithm) Valid() bool {
	switch a {
	case SHA1, RIPEMD160, SHA256, KECCAK256:
		return true
	default:
		return false
	}
}

// DigestLength returns the fixed byte length of a's digest, or 0 if a is
// not a defined algorithm.
func (a Algorithm) DigestLength() int {
	switch a {
	case SHA1, RIPEMD160:
		return 20
	case SHA256, KECCAK256:
		return 32
	default:
		return 0
	}
}

// Digest computes the digest of data using a.
func (a Algorithm) Digest(data []byte) ([]byte, error) {
	switch a {
	case SHA1:
		return hashop.Sha1(data), nil
	case RIPEMD160:
		return hashop.Ripemd160(data), nil
	case SHA256:
		return hashop.Sha256(data), nil
	case KECCAK256:
		return hashop.Keccak256(data), nil
	default:
		return nil, tracerr.Wrap(ErrorUnknownAlgorithm.AddDetails(a.String()))
	}
}

// ParseAlgorithmName converts a lowercase algorithm name ("sha1",
// "ripemd160", "sha256", "keccak256") into its Algorithm value.
func ParseAlgorithmName(name string) (Algorithm, error) {
	switch name {
	case "sha1":
		return SHA1, nil
	case "ripemd160":
		return RIPEMD160, nil
	case "sha256":
		return SHA256, nil
	case "keccak256":
		return KECCAK256, nil
	default:
		return 0, tracerr.Wrap(ErrorUnknownAlgorithm.AddDetails(name))
	}
}

// AlgorithmFromTag converts a wire tag byte into an Algorithm.
func AlgorithmFromTag(tag byte) (Algorithm, error) {
	a := Algorithm(tag)
	if !a.Valid() {
		return 0, tracerr.Wrap(ErrorUnknownAlgorithm.AddDetails(utils.HexLower([]byte{tag})))
	}
	return a, nil
}

// FileHash is a hashed representation of the original file: the
// algorithm used plus the resulting digest.
type FileHash struct {
	Algorithm Algorithm
	Value     []byte
}

// Validate checks that Algorithm is defined and Value has the expected
// length for it.
func (f FileHash) Validate() error {
	if !f.Algorithm.Valid() {
		return tracerr.Wrap(ErrorUnknownAlgorithm.AddDetails(f.Algorithm.String()))
	}
	if len(f.Value) != f.Algorithm.DigestLength() {
		return tracerr.Wrap(ErrorWrongDigestLength.AddDetails(f.Algorithm.String()))
	}
	return nil
}

// Equal reports whether f and other have the same algorithm and digest.
func (f FileHash) Equal(other FileHash) bool {
	if f.Algorithm != other.Algorithm || len(f.Value) != len(other.Value) {
		return false
	}
	for i := range f.Value {
		if f.Value[i] != other.Value[i] {
			return false
		}
	}
	return true
}
