// Package keyring tracks generated signing keys in a small JSON file:
// which key id lives at which path, when it was created, and whether it
// has been revoked.
package keyring

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"time"

	"example.com/edsign/pkg/util/perm"
)

type Entry struct {
	KeyID     string    `json:"key_id"`
	PublicKey string    `json:"public_key"` // hex
	Path      string    `json:"path"`
	Created   time.Time `json:"created"`
	Revoked   bool      `json:"revoked"`
}

type Store struct {
	Entries []Entry `json:"entries"`
}

var ErrNotFound = errors.New("keyring: key not found")

func load(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Store{}, nil
	}
	if err != nil {
		return nil, err
	}
	var s Store
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func save(path string, s *Store) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// Add records a freshly generated key. keyPath must hold the private key
// with 0600 permissions.
func Add(path, keyID string, pub []byte, keyPath string) error {
	if err := perm.Check0600(keyPath); err != nil {
		return err
	}
	s, err := load(path)
	if err != nil {
		return err
	}
	for _, e := range s.Entries {
		if e.KeyID == keyID && !e.Revoked {
			return errors.New("keyring: key id already present")
		}
	}
	s.Entries = append(s.Entries, Entry{
		KeyID:     keyID,
		PublicKey: hex.EncodeToString(pub),
		Path:      keyPath,
		Created:   time.Now().UTC(),
	})
	return save(path, s)
}

// Rotate points an existing key id at a new private key file, or records it
// if absent. The new file must pass the 0600 check.
func Rotate(path, keyID string, pub []byte, newPriv string) error {
	if err := perm.Check0600(newPriv); err != nil {
		return err
	}
	s, err := load(path)
	if err != nil {
		return err
	}
	found := false
	for i := range s.Entries {
		if s.Entries[i].KeyID == keyID {
			s.Entries[i].Path = newPriv
			s.Entries[i].PublicKey = hex.EncodeToString(pub)
			s.Entries[i].Created = time.Now().UTC()
			s.Entries[i].Revoked = false
			found = true
		}
	}
	if !found {
		s.Entries = append(s.Entries, Entry{
			KeyID:     keyID,
			PublicKey: hex.EncodeToString(pub),
			Path:      newPriv,
			Created:   time.Now().UTC(),
		})
	}
	return save(path, s)
}

// Revoke marks a key id as no longer usable for signing.
func Revoke(path, keyID string) error {
	s, err := load(path)
	if err != nil {
		return err
	}
	found := false
	for i := range s.Entries {
		if s.Entries[i].KeyID == keyID {
			s.Entries[i].Revoked = true
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	return save(path, s)
}

// Lookup returns the active entry for a key id.
func Lookup(path, keyID string) (Entry, error) {
	s, err := load(path)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range s.Entries {
		if e.KeyID == keyID && !e.Revoked {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// List returns every entry, revoked ones included.
func List(path string) ([]Entry, error) {
	s, err := load(path)
	if err != nil {
		return nil, err
	}
	return s.Entries, nil
}
