package vectors

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"example.com/edsign/pkg/crypto/sign/eddsa"
)

const manifestTOML = `
[[suite]]
name = "default"
message = "Test message"
seed = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

[[suite]]
name = "empty-message"
message = ""
seed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

[[suite]]
name = "fresh"
message = "ephemeral"
`

func TestManifestGenerate(t *testing.T) {
	m, err := ParseManifest([]byte(manifestTOML))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(m.Suites) != 3 {
		t.Fatalf("suites = %d, want 3", len(m.Suites))
	}

	e := eddsa.NewEngine()
	vecs, err := m.Generate(e)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("vectors = %d, want 3", len(vecs))
	}
	for _, v := range vecs {
		if !v.Verify() {
			t.Fatalf("suite %q does not verify", v.Name)
		}
	}
	if hex.EncodeToString(vecs[0].Signature) != sigHex {
		t.Fatalf("suite %q signature = %x, want %s", vecs[0].Name, vecs[0].Signature, sigHex)
	}

	// Seeded suites regenerate identically; the fresh one must not.
	again, err := m.Generate(eddsa.NewEngine())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(again[0].Signature, vecs[0].Signature) {
		t.Fatalf("seeded suite regenerated differently")
	}
	if bytes.Equal(again[2].PublicKey, vecs[2].PublicKey) {
		t.Fatalf("fresh suite reused a key")
	}
}

func TestLoadManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.toml")
	if err := os.WriteFile(path, []byte(manifestTOML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Suites[0].Name != "default" {
		t.Fatalf("first suite = %q", m.Suites[0].Name)
	}
}

func TestManifestValidation(t *testing.T) {
	cases := []struct {
		name string
		toml string
		want string
	}{
		{"empty", "", "no suites"},
		{"missing name", "[[suite]]\nmessage = \"m\"\n", "missing name"},
		{"duplicate", "[[suite]]\nname = \"a\"\n[[suite]]\nname = \"a\"\n", "duplicate"},
		{"bad seed hex", "[[suite]]\nname = \"a\"\nseed = \"zz\"\n", "not hex"},
		{"short seed", "[[suite]]\nname = \"a\"\nseed = \"0102\"\n", "2 bytes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tc.toml))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
