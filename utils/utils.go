package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/ztrue/tracerr"
	"golang.org/x/exp/constraints"
)

// GenerateRandomBytes returns n cryptographically random bytes, used as
// the default fudge source for Submit.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil { // err == nil only if we read len(b) bytes
		return nil, tracerr.Wrap(err)
	}
	return b, nil
}

// HexLower renders b as lowercase hex, with no separators, matching the
// format contract described for the info printer.
func HexLower(b []byte) string {
	return hex.EncodeToString(b)
}

// Set implements three methods: Add, Remove & Has.
// It needs to be defined with a comparable generic type such as int or
// string. The len operator can be used on Set. Internally a Set
// represents the presence of an element with a map of struct{}{} for
// efficiency.
type Set[T comparable] map[T]struct{}

// Add adds the given element to the Set.
func (s Set[T]) Add(element T) {
	s[element] = struct{}{}
}

// Remove removes the given element from the Set. A no-op if absent.
func (s Set[T]) Remove(element T) {
	delete(s, element)
}

// Has checks if element is in the Set.
func (s Set[T]) Has(element T) bool {
	_, ok := s[element]
	return ok
}

// SliceMap applies f to every element of s and returns the results.
func SliceMap[T any, U any](s []T, f func(T) U) []U {
	output := make([]U, len(s))
	for i, e := range s {
		output[i] = f(e)
	}
	return output
}

// SliceIncludes reports whether u is present in s.
func SliceIncludes[T comparable](s []T, u T) bool {
	for _, e := range s {
		if e == u {
			return true
		}
	}
	return false
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Ternary is a helper function to inline ternary operations.
func Ternary[T any](condition bool, valTrue T, valFalse T) T {
	if condition {
		return valTrue
	}
	return valFalse
}
