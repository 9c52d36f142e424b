// Package hashop implements the four digest algorithms the wire format
// and the Op model share: SHA1, RIPEMD160, SHA256 and Keccak256.
package hashop

import (
	"crypto/sha1"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ripemd160 is part of the format, not a security choice
	"golang.org/x/crypto/sha3"
)

// Sha1 returns the SHA1 digest of data.
func Sha1(data []byte) []byte {
	h := sha1.Sum(data)
	return h[:]
}

// Ripemd160 returns the RIPEMD160 digest of data.
func Ripemd160(data []byte) []byte {
	h := ripemd160.New()
	h.Write(data)
	return h.Sum(nil)
}

// Sha256 returns the SHA256 digest of data.
func Sha256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Keccak256 returns the Keccak256 digest of data (the original Keccak
// padding, as used by Ethereum — not NIST SHA3-256).
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
