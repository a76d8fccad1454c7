// Package vectors generates Ed25519 test vectors and renders them in the
// formats downstream test suites embed: decimal byte lists, hex, or Go
// source literals.
package vectors

import (
	"fmt"
	"strconv"
	"strings"

	"example.com/edsign/pkg/crypto/sign/eddsa"
)

// Vector is one (key, message, signature) triple. Seed is retained only when
// the vector was derived from a known seed, so suites can be regenerated.
type Vector struct {
	Name      string `json:"name,omitempty"`
	Seed      []byte `json:"seed,omitempty"`
	PublicKey []byte `json:"public_key"`
	Message   []byte `json:"message"`
	Signature []byte `json:"signature"`
}

// Generate signs message with a fresh key pair drawn from the engine.
func Generate(e *eddsa.Engine, message []byte) (Vector, error) {
	seed, pub, err := e.Generate()
	if err != nil {
		return Vector{}, err
	}
	sig, err := eddsa.Sign(seed, message)
	if err != nil {
		return Vector{}, err
	}
	return Vector{Seed: seed, PublicKey: pub, Message: message, Signature: sig}, nil
}

// FromSeed deterministically regenerates the vector for a fixed seed.
// Calling it twice with the same inputs yields byte-identical output.
func FromSeed(seed, message []byte) (Vector, error) {
	pub, err := eddsa.DerivePublicKey(seed)
	if err != nil {
		return Vector{}, err
	}
	sig, err := eddsa.Sign(seed, message)
	if err != nil {
		return Vector{}, err
	}
	return Vector{Seed: seed, PublicKey: pub, Message: message, Signature: sig}, nil
}

// KeyID returns the short identifier of the vector's public key.
func (v Vector) KeyID() string {
	return eddsa.KeyID(v.PublicKey)
}

// Verify checks the triple against the engine's verifier.
func (v Vector) Verify() bool {
	return eddsa.Verify(v.PublicKey, v.Message, v.Signature)
}

// FormatDecimal renders the vector as decimal byte lists, ready to paste
// into test suites that embed vectors as plain integer arrays.
func FormatDecimal(v Vector) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Public key (%d bytes):\n%s\n", len(v.PublicKey), decimalList(v.PublicKey))
	fmt.Fprintf(&b, "\nMessage:\n%s\n", decimalList(v.Message))
	fmt.Fprintf(&b, "\nSignature (%d bytes):\n%s\n", len(v.Signature), decimalList(v.Signature))
	return b.String()
}

// FormatHex renders the vector as key = hex lines.
func FormatHex(v Vector) string {
	var b strings.Builder
	fmt.Fprintf(&b, "public_key = %x\n", v.PublicKey)
	fmt.Fprintf(&b, "message    = %x\n", v.Message)
	fmt.Fprintf(&b, "signature  = %x\n", v.Signature)
	return b.String()
}

// FormatGo renders the vector as Go composite literals ready to paste into a
// _test.go file.
func FormatGo(v Vector) string {
	var b strings.Builder
	b.WriteString("var (\n")
	fmt.Fprintf(&b, "\tpublicKey = %s\n", goByteLiteral(v.PublicKey))
	fmt.Fprintf(&b, "\tmessage   = %s\n", goByteLiteral(v.Message))
	fmt.Fprintf(&b, "\tsignature = %s\n", goByteLiteral(v.Signature))
	b.WriteString(")\n")
	return b.String()
}

func decimalList(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.Itoa(int(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func goByteLiteral(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("0x%02x", v)
	}
	return "[]byte{" + strings.Join(parts, ", ") + "}"
}
