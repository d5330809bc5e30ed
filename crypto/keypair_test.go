package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAccountKeypair(t *testing.T) {
	pub, seed, err := GetAccountKeypair()
	assert.Nil(t, err)

	pk, err := DecodeKey(pub)
	assert.Nil(t, err)
	assert.Equal(t, KeyTypeAccountID, pk.Code)

	sk, err := DecodeKey(seed)
	assert.Nil(t, err)
	assert.Equal(t, KeyTypeSeed, sk.Code)
}

func TestGetAccountKeypairFromSeed(t *testing.T) {
	seed := make([]byte, 32)
	seed[0] = 42

	pub1, _, err := GetAccountKeypairFromSeed(seed)
	assert.Nil(t, err)
	pub2, _, err := GetAccountKeypairFromSeed(seed)
	assert.Nil(t, err)
	// The same seed always derives the same account.
	assert.Equal(t, pub1, pub2)

	_, _, err = GetAccountKeypairFromSeed(seed[:16])
	assert.NotNil(t, err)
}
