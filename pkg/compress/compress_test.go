package compress

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("test vector payload "), 64)
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			c, err := Get(name)
			if err != nil {
				t.Fatalf("Get(%q): %v", name, err)
			}
			packed, err := c.Compress(payload)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			got, err := c.Decompress(packed)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("round trip mismatch for %s", name)
			}
		})
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("lz4"); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}
