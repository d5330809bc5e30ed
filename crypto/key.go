package crypto

import (
	"bytes"
	"encoding/binary"
	"errors"

	b58 "github.com/mr-tron/base58/base58"
)

type KeyType uint8

// enumeration of key type
const (
	_ KeyType = iota // skip zero
	KeyTypeAccountID
	KeyTypeSeed
	KeyTypeContractID
)

var (
	ErrInvalidKey = errors.New("invalid key string")
)

// Key is the internal representation of various key hashes, Code
// identifies the type of a certain key hash.
type Key struct {
	Code KeyType
	Hash [32]byte
}

// DecodeKey decodes a base58 encoded key string to a Key.
func DecodeKey(key string) (*Key, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	b, err := b58.Decode(key)
	if err != nil {
		return nil, ErrInvalidKey
	}

	var k Key
	r := bytes.NewReader(b)
	err = binary.Read(r, binary.BigEndian, &k)
	if err != nil {
		return nil, ErrInvalidKey
	}

	switch k.Code {
	case KeyTypeAccountID:
		fallthrough
	case KeyTypeSeed:
		fallthrough
	case KeyTypeContractID:
		return &k, nil
	}
	return nil, ErrInvalidKey
}

// EncodeKey encodes a Key to a base58 encoded key string.
func EncodeKey(k *Key) string {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, k)
	return b58.Encode(buf.Bytes())
}

// IsValidAccountID checks whether the supplied string is a well
// formed account identity.
func IsValidAccountID(accountID string) bool {
	k, err := DecodeKey(accountID)
	if err != nil {
		return false
	}
	return k.Code == KeyTypeAccountID
}

// NullAccountID returns the reserved all-zero account identity which
// is never a valid transfer or approval target.
func NullAccountID() string {
	return EncodeKey(&Key{Code: KeyTypeAccountID})
}

// IsNullAccountID checks whether the account identity is the
// reserved null identity.
func IsNullAccountID(accountID string) bool {
	k, err := DecodeKey(accountID)
	if err != nil {
		return false
	}
	return k.Code == KeyTypeAccountID && k.Hash == [32]byte{}
}
