// Package tokenstore keeps short-lived single-use codes, such as password
// reset codes, keyed by an owner string.
package tokenstore

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// CodeLength is the number of digits in an issued code.
const CodeLength = 6

type entry struct {
	code      string
	expiresAt time.Time
}

// Store is an in-memory code store safe for concurrent use. Issuing a new
// code for a key replaces any outstanding one.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// New creates a Store whose codes expire after ttl.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// WithClock replaces the clock; intended for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Issue generates a fresh numeric code for key.
func (s *Store) Issue(key string) (string, error) {
	code, err := randomDigits(CodeLength)
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{code: code, expiresAt: s.now().Add(s.ttl)}
	return code, nil
}

// Consume reports whether code is the live code for key. A successful match
// removes it.
func (s *Store) Consume(key, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(e.code), []byte(code)) != 1 {
		return false
	}
	delete(s.entries, key)
	return true
}

// Purge drops expired entries and returns how many were removed.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func randomDigits(n int) (string, error) {
	buf := make([]byte, n)
	ten := big.NewInt(10)
	for i := range buf {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + d.Int64())
	}
	return string(buf), nil
}
