// Package wire implements the binary codec primitives shared by the
// Timestamp format and the bare-tree format used in calendar responses:
// a little-endian base-128 UINT, a length-prefixed VARBYTES, and a
// cursor-tracking byte reader/writer pair that reports failures with
// the byte offset at which they occurred.
package wire

import (
	"bytes"
	"fmt"

	"github.com/chronoseal/ots/utils"
	"github.com/ztrue/tracerr"
)

var (
	// ErrorTruncated is returned when the reader runs out of bytes before
	// a value is fully decoded.
	ErrorTruncated = utils.NewCodecError("CODEC_TRUNCATED", "unexpected end of input")
	// ErrorGarbageAtEOF is returned when bytes remain after a Timestamp or
	// bare-tree has been fully parsed.
	ErrorGarbageAtEOF = utils.NewCodecError("CODEC_GARBAGE_AT_EOF", "garbage at EOF")
	// ErrorUnknownTag is returned when a byte does not match any defined
	// record tag at a position where one is required.
	ErrorUnknownTag = utils.NewCodecError("CODEC_UNKNOWN_TAG", "unknown tag byte")
	// ErrorEmptyTree is returned by timestamp.Validate for a Timestamp
	// whose tree is empty. The reader itself reports a level with zero
	// records as ErrorTruncated, since there is no byte left to parse.
	ErrorEmptyTree = utils.NewCodecError("CODEC_EMPTY_TREE", "empty tree is not a valid encoding")
	// ErrorOversizedLength is returned when a VARBYTES length would
	// require more bytes than remain in the input.
	ErrorOversizedLength = utils.NewCodecError("CODEC_OVERSIZED_LENGTH", "declared length exceeds remaining input")
)

func offsetErr(base utils.Error, offset int) error {
	return tracerr.Wrap(base.AddDetails(fmt.Sprintf("at byte offset %d", offset)))
}

// Reader reads the primitives of the wire format from a byte slice,
// tracking a cursor so every failure can report an offset.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the reader's current byte position.
func (r *Reader) Offset() int { return r.pos }

// AtEOF reports whether every byte of the input has been consumed.
func (r *Reader) AtEOF() bool { return r.pos >= len(r.buf) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// CheckEOF returns ErrorGarbageAtEOF if bytes remain unread.
func (r *Reader) CheckEOF() error {
	if !r.AtEOF() {
		return offsetErr(ErrorGarbageAtEOF, r.pos)
	}
	return nil
}

// ReadByte reads and returns a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, offsetErr(ErrorTruncated, r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// PeekByte returns the next byte without consuming it.
func (r *Reader) PeekByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, offsetErr(ErrorTruncated, r.pos)
	}
	return r.buf[r.pos], nil
}

// ReadRaw reads exactly n raw bytes.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, offsetErr(ErrorTruncated, r.pos)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// ReadUint reads a little-endian base-128 variable-length unsigned
// integer: each byte carries 7 bits of value, with bit 7 set meaning
// "more bytes follow". Any valid terminator is accepted (non-canonical
// encodings are not rejected, per spec §4.1).
func (r *Reader) ReadUint() (uint64, error) {
	var value uint64
	var shift uint
	start := r.pos
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, offsetErr(ErrorTruncated, start)
		}
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return value, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, offsetErr(ErrorOversizedLength, start)
		}
	}
}

// ReadVarBytes reads a UINT length followed by that many raw bytes.
// Bounds checking happens before slicing, so truncated input produces a
// CodecError rather than a panic.
func (r *Reader) ReadVarBytes() ([]byte, error) {
	start := r.pos
	length, err := r.ReadUint()
	if err != nil {
		return nil, err
	}
	if length > uint64(r.Remaining()) {
		return nil, offsetErr(ErrorOversizedLength, start)
	}
	return r.ReadRaw(int(length))
}

// HasPrefix reports whether the unread portion of the buffer starts
// with prefix, without consuming anything.
func (r *Reader) HasPrefix(prefix []byte) bool {
	return bytes.HasPrefix(r.buf[r.pos:], prefix)
}
