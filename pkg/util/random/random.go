package random

import (
	"crypto/rand"
	"io"
)

// Reader is the process-wide secure random source. Safe for concurrent use.
var Reader io.Reader = rand.Reader

// Bytes returns n bytes from the secure random source, or an error if the
// source cannot supply them. Entropy failures are never papered over with
// zero bytes.
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
