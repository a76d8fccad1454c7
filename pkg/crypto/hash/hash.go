package hash

import (
	"crypto"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Digest hashes data with the named algorithm. SHA-512 is what the Ed25519
// construction uses internally; BLAKE2b-512 is the envelope digest.
func Digest(name string, data []byte) ([]byte, crypto.Hash, error) {
	switch name {
	case "sha256":
		h := sha256.Sum256(data)
		return h[:], crypto.SHA256, nil
	case "sha512":
		sum := sha512.Sum512(data)
		return sum[:], crypto.SHA512, nil
	case "blake2b512":
		sum := blake2b.Sum512(data)
		return sum[:], crypto.BLAKE2b_512, nil
	default:
		return nil, 0, fmt.Errorf("unsupported hash: %s", name)
	}
}
