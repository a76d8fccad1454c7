// Package signer signs and verifies timestamped envelopes. Envelopes carry
// a monotonically increasing nonce for replay protection and expire after a
// configurable age. The envelope JSON is digested with BLAKE2b-512 and the
// digest is what gets signed.
package signer

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"example.com/edsign/pkg/crypto/hash"
	"example.com/edsign/pkg/crypto/sign/eddsa"
)

const (
	// DefaultMaxAge is how long a signed envelope stays acceptable.
	DefaultMaxAge = time.Hour
	// minNonce is the lowest nonce a valid envelope may carry.
	minNonce = 1
)

var (
	ErrReplay    = errors.New("signer: nonce not above last processed value")
	ErrStale     = errors.New("signer: envelope timestamp outside accepted age")
	ErrSignature = errors.New("signer: signature verification failed")
)

type Envelope struct {
	ID        string `json:"id"`
	Payload   []byte `json:"payload"`
	Nonce     uint64 `json:"nonce"`
	Timestamp int64  `json:"timestamp"` // unix seconds
}

type SignedEnvelope struct {
	Envelope  Envelope `json:"envelope"`
	Signer    []byte   `json:"signer"` // public key
	Signature []byte   `json:"signature"`
}

type Config struct {
	MaxAge time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{MaxAge: DefaultMaxAge}
}

func (c Config) clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Config) maxAge() time.Duration {
	if c.MaxAge <= 0 {
		return DefaultMaxAge
	}
	return c.MaxAge
}

// Signer holds a keypair and the last processed nonce. Safe for concurrent
// use; the nonce check and update happen under one lock.
type Signer struct {
	mu        sync.Mutex
	seed      []byte
	pub       []byte
	cfg       Config
	lastNonce uint64
}

// New creates a signer with a fresh keypair drawn from the engine.
func New(e *eddsa.Engine, cfg Config) (*Signer, error) {
	seed, pub, err := e.Generate()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("key_id", eddsa.KeyID(pub)).Msg("created signer with fresh keypair")
	return &Signer{seed: seed, pub: pub, cfg: cfg}, nil
}

// FromSeed creates a signer from an existing 32-byte seed.
func FromSeed(seed []byte, cfg Config) (*Signer, error) {
	pub, err := eddsa.DerivePublicKey(seed)
	if err != nil {
		return nil, err
	}
	return &Signer{seed: append([]byte(nil), seed...), pub: pub, cfg: cfg}, nil
}

// PublicKey returns the signer's 32-byte public key.
func (s *Signer) PublicKey() []byte {
	return append([]byte(nil), s.pub...)
}

// KeyID returns the signer's short key identifier.
func (s *Signer) KeyID() string {
	return eddsa.KeyID(s.pub)
}

// Sign validates the envelope's nonce and age, then signs its digest.
// The nonce watermark only advances on success.
func (s *Signer) Sign(env Envelope) (SignedEnvelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if env.Nonce < minNonce || env.Nonce <= s.lastNonce {
		log.Warn().Uint64("nonce", env.Nonce).Uint64("last", s.lastNonce).Msg("rejecting envelope nonce")
		return SignedEnvelope{}, fmt.Errorf("%w: got %d, last %d", ErrReplay, env.Nonce, s.lastNonce)
	}
	if err := checkAge(env.Timestamp, s.cfg); err != nil {
		return SignedEnvelope{}, err
	}

	digest, err := envelopeDigest(env)
	if err != nil {
		return SignedEnvelope{}, err
	}
	sig, err := eddsa.Sign(s.seed, digest)
	if err != nil {
		return SignedEnvelope{}, err
	}
	s.lastNonce = env.Nonce
	log.Debug().Str("id", env.ID).Uint64("nonce", env.Nonce).Msg("signed envelope")

	return SignedEnvelope{
		Envelope:  env,
		Signer:    append([]byte(nil), s.pub...),
		Signature: sig,
	}, nil
}

// Verify accepts a signed envelope against the signer's own public key:
// nonce monotonicity first, then age, then the signature over the envelope
// digest. The nonce watermark advances only when every check passes, so a
// replayed envelope is rejected on its second delivery.
func (s *Signer) Verify(signed SignedEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce := signed.Envelope.Nonce
	if nonce < minNonce || nonce <= s.lastNonce {
		log.Warn().Uint64("nonce", nonce).Uint64("last", s.lastNonce).Msg("rejecting replayed envelope")
		return fmt.Errorf("%w: got %d, last %d", ErrReplay, nonce, s.lastNonce)
	}
	if err := Verify(s.pub, signed, s.cfg); err != nil {
		return err
	}
	s.lastNonce = nonce
	return nil
}

// Verify checks a signed envelope against the given public key: age first,
// then the signature over the envelope digest. It is stateless and carries
// no replay protection; acceptors that process envelopes use Signer.Verify.
func Verify(pub []byte, signed SignedEnvelope, cfg Config) error {
	if err := checkAge(signed.Envelope.Timestamp, cfg); err != nil {
		return err
	}
	digest, err := envelopeDigest(signed.Envelope)
	if err != nil {
		return err
	}
	if !eddsa.Verify(pub, digest, signed.Signature) {
		log.Warn().Str("id", signed.Envelope.ID).Msg("envelope signature rejected")
		return ErrSignature
	}
	return nil
}

func checkAge(ts int64, cfg Config) error {
	now := cfg.clock().Unix()
	age := now - ts
	if age < 0 {
		age = -age
	}
	if time.Duration(age)*time.Second > cfg.maxAge() {
		return fmt.Errorf("%w: envelope is %ds from now", ErrStale, age)
	}
	return nil
}

func envelopeDigest(env Envelope) ([]byte, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	digest, _, err := hash.Digest("blake2b512", raw)
	return digest, err
}
