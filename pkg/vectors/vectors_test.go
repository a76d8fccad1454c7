package vectors

import (
	"bytes"
	"encoding/hex"
	"testing"

	"example.com/edsign/pkg/crypto/sign/eddsa"
)

const (
	seedHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	pubHex  = "03a107bff3ce10be1d70dd18e74bc09967e4d6309ba50d5f1ddc8664125531b8"
	sigHex  = "5c7df9ee11ea033f3a71764def33ceeba88783383b1ae84c995995a45b09963ffa910b971a012cc57b69582bf4ddbecad7789ee13f2cd11b61a5005f74337900"
)

func fixedSeed(t *testing.T) []byte {
	t.Helper()
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		t.Fatalf("bad seed hex: %v", err)
	}
	return seed
}

func TestFromSeedDeterministic(t *testing.T) {
	seed := fixedSeed(t)
	msg := []byte("Test message")

	v1, err := FromSeed(seed, msg)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	if hex.EncodeToString(v1.PublicKey) != pubHex {
		t.Fatalf("public key = %x, want %s", v1.PublicKey, pubHex)
	}
	if hex.EncodeToString(v1.Signature) != sigHex {
		t.Fatalf("signature = %x, want %s", v1.Signature, sigHex)
	}
	if !v1.Verify() {
		t.Fatalf("vector does not verify")
	}

	v2, err := FromSeed(seed, msg)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	if !bytes.Equal(v1.Signature, v2.Signature) || !bytes.Equal(v1.PublicKey, v2.PublicKey) {
		t.Fatalf("regenerated vector differs")
	}
}

func TestFromSeedBadLength(t *testing.T) {
	if _, err := FromSeed(make([]byte, 31), []byte("m")); err == nil {
		t.Fatalf("expected error for 31-byte seed")
	}
}

func TestGenerateFresh(t *testing.T) {
	seed := fixedSeed(t)
	e := eddsa.NewEngineFromReader(bytes.NewReader(seed))

	v, err := Generate(e, []byte("Test message"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(v.Seed, seed) {
		t.Fatalf("seed = %x, want %x", v.Seed, seed)
	}
	if hex.EncodeToString(v.Signature) != sigHex {
		t.Fatalf("signature = %x, want %s", v.Signature, sigHex)
	}
	if !v.Verify() {
		t.Fatalf("generated vector does not verify")
	}
	if v.KeyID() != eddsa.KeyID(v.PublicKey) {
		t.Fatalf("KeyID mismatch")
	}
}

func TestFormatDecimal(t *testing.T) {
	v := Vector{
		PublicKey: []byte{3, 161, 7},
		Message:   []byte("Hi"),
		Signature: []byte{255, 0},
	}
	want := "Public key (3 bytes):\n[3, 161, 7]\n" +
		"\nMessage:\n[72, 105]\n" +
		"\nSignature (2 bytes):\n[255, 0]\n"
	if got := FormatDecimal(v); got != want {
		t.Fatalf("FormatDecimal:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatHex(t *testing.T) {
	v := Vector{
		PublicKey: []byte{0x03, 0xa1},
		Message:   []byte{0x48},
		Signature: []byte{0xff, 0x00},
	}
	want := "public_key = 03a1\nmessage    = 48\nsignature  = ff00\n"
	if got := FormatHex(v); got != want {
		t.Fatalf("FormatHex:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatGo(t *testing.T) {
	v := Vector{
		PublicKey: []byte{0x03},
		Message:   []byte{0x48, 0x69},
		Signature: []byte{0xff},
	}
	want := "var (\n" +
		"\tpublicKey = []byte{0x03}\n" +
		"\tmessage   = []byte{0x48, 0x69}\n" +
		"\tsignature = []byte{0xff}\n" +
		")\n"
	if got := FormatGo(v); got != want {
		t.Fatalf("FormatGo:\n%q\nwant:\n%q", got, want)
	}
}
