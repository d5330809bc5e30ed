package crypto

import (
	"crypto/sha256"

	b58 "github.com/mr-tron/base58/base58"
)

// SHA256Hash computes the sha256 checksum (32 bytes) of the input
// and returns its base58 encoded string form.
func SHA256Hash(b []byte) string {
	v := sha256.Sum256(b)
	return b58.Encode(v[:])
}

// SHA256HashBytes computes the sha256 checksum (32 bytes) of the input.
func SHA256HashBytes(b []byte) [32]byte {
	return sha256.Sum256(b)
}
