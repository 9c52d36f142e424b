package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteUint(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
	}
	for _, c := range cases {
		w := NewWriter()
		w.WriteUint(c.v)
		assert.Equal(t, c.want, w.Bytes())
	}
}

func TestWriteVarBytes(t *testing.T) {
	w := NewWriter()
	w.WriteVarBytes([]byte("abc"))
	assert.Equal(t, []byte{0x03, 'a', 'b', 'c'}, w.Bytes())
}

func TestWriteVarBytesEmpty(t *testing.T) {
	w := NewWriter()
	w.WriteVarBytes(nil)
	assert.Equal(t, []byte{0x00}, w.Bytes())
}

func TestWriteRawAndByte(t *testing.T) {
	w := NewWriter()
	w.WriteRaw([]byte{0x01, 0x02})
	assert.NoError(t, w.WriteByte(0x03))
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, w.Bytes())
}
