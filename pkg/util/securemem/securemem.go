package securemem

import (
	"github.com/awnumar/memguard"
)

// Secret wraps a memguard locked buffer holding private key material.
// The backing memory is locked against swap and wiped on Destroy.
type Secret struct {
	buf *memguard.LockedBuffer
}

// NewRandom allocates a locked buffer filled with n secure random bytes.
func NewRandom(n int) *Secret {
	return &Secret{buf: memguard.NewBufferRandom(n)}
}

// New takes ownership of b; the source slice is wiped by memguard.
func New(b []byte) *Secret {
	return &Secret{buf: memguard.NewBufferFromBytes(b)}
}

func (s *Secret) Bytes() []byte { return s.buf.Bytes() }
func (s *Secret) Len() int      { return s.buf.Size() }
func (s *Secret) Destroy()      { s.buf.Destroy() }

// Wipe zeroes a byte slice in place. For transient copies that never made it
// into a locked buffer.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
