package eddsa

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
)

const (
	// SeedSize is the length of an Ed25519 private seed.
	SeedSize = 32
	// PublicKeySize is the length of a compressed public point.
	PublicKeySize = 32
	// SignatureSize is the length of a signature (R || S).
	SignatureSize = 64
)

var (
	ErrRandomness = errors.New("eddsa: secure random source unavailable")
	ErrKeyLength  = errors.New("eddsa: wrong key length")
)

// group order L, little-endian. S in a signature must be strictly below it.
var orderLE = [32]byte{
	0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}

// Engine produces Ed25519 key pairs from an injected random source.
// Signing and verification are pure functions and live at package level;
// the engine only owns the entropy handle so tests can substitute a
// deterministic reader.
type Engine struct {
	rand io.Reader
}

// NewEngine returns an engine backed by the operating system CSPRNG.
func NewEngine() *Engine {
	return &Engine{rand: rand.Reader}
}

// NewEngineFromReader returns an engine drawing seed bytes from r.
func NewEngineFromReader(r io.Reader) *Engine {
	return &Engine{rand: r}
}

// Generate draws a fresh 32-byte seed and derives its public key.
func (e *Engine) Generate() (seed, pub []byte, err error) {
	seed = make([]byte, SeedSize)
	if _, err := io.ReadFull(e.rand, seed); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	pub, err = DerivePublicKey(seed)
	if err != nil {
		return nil, nil, err
	}
	return seed, pub, nil
}

// DerivePublicKey computes the public key for a 32-byte seed. Same seed
// always yields the same 32 bytes.
func DerivePublicKey(seed []byte) ([]byte, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed is %d bytes (want %d)", ErrKeyLength, len(seed), SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return append([]byte(nil), pub...), nil
}

// Sign produces the deterministic RFC 8032 signature of message under seed.
// Identical (seed, message) pairs yield byte-identical signatures.
func Sign(seed, message []byte) ([]byte, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed is %d bytes (want %d)", ErrKeyLength, len(seed), SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return ed25519.Sign(priv, message), nil
}

// Verify reports whether sig is a valid signature of message under pub.
// It is total: wrong lengths, non-canonical encodings and malformed points
// all yield false, never a panic. Safe on attacker-controlled input.
func Verify(pub, message, sig []byte) bool {
	if len(pub) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	if !scalarIsCanonical(sig[32:]) {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}

// scalarIsCanonical reports whether the little-endian scalar s is strictly
// below the group order. The usual top-three-bits shortcut is not enough:
// s = S + L keeps those bits clear, so compare against L in full.
func scalarIsCanonical(s []byte) bool {
	for i := 31; i >= 0; i-- {
		if s[i] < orderLE[i] {
			return true
		}
		if s[i] > orderLE[i] {
			return false
		}
	}
	return false // s == L
}

// KeyID derives a short identifier from public key bytes:
// base64(SHA256(pub))[:16].
func KeyID(pub []byte) string {
	h := sha256.Sum256(pub)
	return base64.RawStdEncoding.EncodeToString(h[:])[:16]
}
