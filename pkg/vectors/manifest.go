package vectors

import (
	"encoding/hex"
	"fmt"

	"github.com/BurntSushi/toml"

	"example.com/edsign/pkg/crypto/sign/eddsa"
)

// Manifest is a checked-in TOML description of vector suites, so a consuming
// test suite gets a stable set it can regenerate instead of fresh random
// vectors on every run.
//
//	[[suite]]
//	name = "default"
//	message = "Test message"
//	seed = "000102...1f"   # hex; omit for a fresh random key
type Manifest struct {
	Suites []Suite `toml:"suite"`
}

type Suite struct {
	Name    string `toml:"name"`
	Message string `toml:"message"`
	Seed    string `toml:"seed"`
}

// LoadManifest reads and validates a TOML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// ParseManifest parses manifest TOML from memory.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Suites) == 0 {
		return fmt.Errorf("no suites defined")
	}
	seen := make(map[string]bool, len(m.Suites))
	for i, s := range m.Suites {
		if s.Name == "" {
			return fmt.Errorf("suite %d: missing name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate suite name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Seed != "" {
			raw, err := hex.DecodeString(s.Seed)
			if err != nil {
				return fmt.Errorf("suite %q: seed is not hex: %v", s.Name, err)
			}
			if len(raw) != eddsa.SeedSize {
				return fmt.Errorf("suite %q: seed is %d bytes (want %d)", s.Name, len(raw), eddsa.SeedSize)
			}
		}
	}
	return nil
}

// Generate produces one vector per suite. Suites with a seed regenerate
// deterministically; the rest draw fresh keys from the engine.
func (m *Manifest) Generate(e *eddsa.Engine) ([]Vector, error) {
	out := make([]Vector, 0, len(m.Suites))
	for _, s := range m.Suites {
		var (
			v   Vector
			err error
		)
		if s.Seed != "" {
			seed, _ := hex.DecodeString(s.Seed)
			v, err = FromSeed(seed, []byte(s.Message))
		} else {
			v, err = Generate(e, []byte(s.Message))
		}
		if err != nil {
			return nil, fmt.Errorf("suite %q: %w", s.Name, err)
		}
		v.Name = s.Name
		out = append(out, v)
	}
	return out, nil
}
