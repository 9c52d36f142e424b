package leaf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	p := Pending("https://example.com/1")
	assert.True(t, p.IsPending())
	assert.Equal(t, magicPending, p.Magic())

	b := Bitcoin(123)
	assert.True(t, b.IsChain(KindBitcoin))
	assert.Equal(t, magicBitcoin, b.Magic())

	u := Unknown(Magic{1, 2, 3, 4, 5, 6, 7, 8}, []byte("payload"))
	assert.Equal(t, Magic{1, 2, 3, 4, 5, 6, 7, 8}, u.Magic())
}

func TestKindFromMagic(t *testing.T) {
	k, ok := KindFromMagic(magicBitcoin)
	assert.True(t, ok)
	assert.Equal(t, KindBitcoin, k)

	_, ok = KindFromMagic(Magic{9, 9, 9, 9, 9, 9, 9, 9})
	assert.False(t, ok)
}

func TestEqual(t *testing.T) {
	assert.True(t, Bitcoin(1).Equal(Bitcoin(1)))
	assert.False(t, Bitcoin(1).Equal(Bitcoin(2)))
	assert.False(t, Bitcoin(1).Equal(Litecoin(1)))
	assert.True(t, Pending("a").Equal(Pending("a")))
	assert.False(t, Pending("a").Equal(Pending("b")))

	u1 := Unknown(Magic{1}, []byte("x"))
	u2 := Unknown(Magic{1}, []byte("x"))
	u3 := Unknown(Magic{1}, []byte("y"))
	assert.True(t, u1.Equal(u2))
	assert.False(t, u1.Equal(u3))
}

func TestValidate(t *testing.T) {
	assert.Error(t, Pending("").Validate())
	assert.NoError(t, Pending("https://x").Validate())
	assert.NoError(t, Bitcoin(0).Validate())
}

func TestKeyUniqueness(t *testing.T) {
	keys := map[string]bool{}
	for _, l := range []Leaf{
		Pending("a"), Pending("b"), Bitcoin(1), Bitcoin(2), Litecoin(1),
		Ethereum(1), Unknown(Magic{1}, []byte("x")), Unknown(Magic{2}, []byte("x")),
	} {
		k := l.Key()
		assert.False(t, keys[k], "duplicate key %s", k)
		keys[k] = true
	}
}
