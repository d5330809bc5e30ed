package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyRoundTrip(t *testing.T) {
	k := &Key{Code: KeyTypeAccountID, Hash: [32]byte{1, 2, 3}}
	s := EncodeKey(k)
	assert.NotEmpty(t, s)

	decoded, err := DecodeKey(s)
	assert.Nil(t, err)
	assert.Equal(t, k.Code, decoded.Code)
	assert.Equal(t, k.Hash, decoded.Hash)
}

func TestDecodeInvalidKey(t *testing.T) {
	_, err := DecodeKey("")
	assert.Equal(t, ErrInvalidKey, err)

	_, err = DecodeKey("not-base58-0OIl")
	assert.Equal(t, ErrInvalidKey, err)

	// A key with an unknown type code is invalid.
	s := EncodeKey(&Key{Code: KeyType(200), Hash: [32]byte{5}})
	_, err = DecodeKey(s)
	assert.Equal(t, ErrInvalidKey, err)
}

func TestNullAccountID(t *testing.T) {
	null := NullAccountID()
	assert.True(t, IsValidAccountID(null))
	assert.True(t, IsNullAccountID(null))

	pub, _, err := GetAccountKeypair()
	assert.Nil(t, err)
	assert.True(t, IsValidAccountID(pub))
	assert.False(t, IsNullAccountID(pub))
}

func TestIsValidAccountID(t *testing.T) {
	// A seed key is well formed but not an account identity.
	seed := EncodeKey(&Key{Code: KeyTypeSeed, Hash: [32]byte{9}})
	assert.False(t, IsValidAccountID(seed))
	assert.False(t, IsValidAccountID(""))
}
