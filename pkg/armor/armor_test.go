package armor

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := []byte{0x03, 0xA1, 0x07, 0xBF, 0xF3, 0xCE, 0x10, 0xBE}
	enc, err := Encode(TypePublicKey, raw, map[string]string{"KeyID": "abc123"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(enc), "BEGIN "+TypePublicKey) {
		t.Fatalf("missing armor header:\n%s", enc)
	}

	gotType, headers, got, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if gotType != TypePublicKey {
		t.Fatalf("block type = %q, want %q", gotType, TypePublicKey)
	}
	if headers["KeyID"] != "abc123" {
		t.Fatalf("headers = %v", headers)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("payload = %x, want %x", got, raw)
	}
}

func TestDecodeTypedMismatch(t *testing.T) {
	enc, err := Encode(TypeSignature, []byte{1, 2, 3}, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := DecodeTyped(enc, TypePrivateKey); err == nil {
		t.Fatalf("expected type mismatch error")
	}
	raw, err := DecodeTyped(enc, TypeSignature)
	if err != nil {
		t.Fatalf("DecodeTyped: %v", err)
	}
	if !bytes.Equal(raw, []byte{1, 2, 3}) {
		t.Fatalf("payload = %x", raw)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, _, err := Decode([]byte("not an armor block")); err == nil {
		t.Fatalf("expected error for non-armored input")
	}
}
