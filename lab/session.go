package lab

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kochabx/rsalab/core/prime"
	"github.com/kochabx/rsalab/core/rsa"
)

// Session holds the current prime pair and the key pair derived from it. A new
// pair always drops the keys of the previous one.
type Session struct {
	mu   sync.RWMutex
	id   string
	pair *prime.Pair
	keys *rsa.KeyPair
}

func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Pair() *prime.Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

func (s *Session) KeyPair() *rsa.KeyPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys
}

// SetPair stores p and clears the key pair.
func (s *Session) SetPair(p *prime.Pair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = p
	s.keys = nil
}

// SetKeyPair stores k if pair is still the current pair. It reports false when
// the primes were replaced or cleared while k was being derived.
func (s *Session) SetKeyPair(pair *prime.Pair, k *rsa.KeyPair) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair != pair {
		return false
	}
	s.keys = k
	return true
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	s.keys = nil
}

// Status reports which artifacts the session currently holds.
func (s *Session) Status() (primes, keys bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair != nil, s.keys != nil
}
