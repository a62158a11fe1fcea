package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/stakeboard/stakeboard/internal/keylock"
	"github.com/stakeboard/stakeboard/pkg/bet"
)

// Store is a concurrency-safe, in-memory session store. It owns the
// token→session map and the customer→token index; both are mutated
// together under the customer's lock, so a customer holds at most one
// live token at any instant. The `now` function is injectable for
// deterministic testing.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	byCustomer map[int64]string

	ttl   time.Duration
	locks *keylock.Registry

	// now is injectable for testing. Defaults to time.Now.
	now func() time.Time
}

// NewStore creates a session store with the given time-to-live. The lock
// registry is shared with the leaderboard cache so all per-customer work
// serializes on the same lock family.
func NewStore(ttl time.Duration, locks *keylock.Registry) *Store {
	return &Store{
		sessions:   make(map[string]*Session),
		byCustomer: make(map[int64]string),
		ttl:        ttl,
		locks:      locks,
		now:        time.Now,
	}
}

// TTL returns the configured session time-to-live.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// GetOrCreate returns the customer's current token, refreshed, or creates
// a new session when none exists or the previous one has expired.
// Concurrent calls for one customer serialize on that customer's lock, so
// they converge on a single token.
func (s *Store) GetOrCreate(customerID int64) (string, error) {
	if customerID <= 0 {
		return "", fmt.Errorf("session: customer id %d: %w", customerID, bet.ErrInvalidArgument)
	}

	s.locks.Acquire(customerID)
	defer s.locks.Release(customerID)

	now := s.now()

	s.mu.Lock()
	if token, ok := s.byCustomer[customerID]; ok {
		if sess, ok := s.sessions[token]; ok && !sess.expired(now, s.ttl) {
			sess.LastAccessAt = now
			s.mu.Unlock()
			return token, nil
		}
		// Expired or dangling index entry: drop both sides and fall
		// through to creation.
		delete(s.sessions, token)
		delete(s.byCustomer, customerID)
	}
	s.mu.Unlock()

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	sess := &Session{
		Token:        token,
		CustomerID:   customerID,
		CreatedAt:    now,
		LastAccessAt: now,
	}

	s.mu.Lock()
	s.sessions[token] = sess
	s.byCustomer[customerID] = token
	s.mu.Unlock()

	return token, nil
}

// Access looks up a token, removing it when expired, and slides the
// expiration clock on success. Every successful access resets the idle
// timer.
func (s *Store) Access(token string) (Session, error) {
	if token == "" {
		return Session{}, fmt.Errorf("session: empty token: %w", bet.ErrInvalidArgument)
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, fmt.Errorf("session: unknown token: %w", bet.ErrSessionInvalid)
	}
	if sess.expired(now, s.ttl) {
		delete(s.sessions, token)
		delete(s.byCustomer, sess.CustomerID)
		return Session{}, fmt.Errorf("session: token expired: %w", bet.ErrSessionInvalid)
	}

	sess.LastAccessAt = now
	return *sess, nil
}

// Delete removes the session for token, if any, along with its index
// entry. Used by the admin surface; no-op for unknown tokens.
func (s *Store) Delete(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return false
	}
	delete(s.sessions, token)
	delete(s.byCustomer, sess.CustomerID)
	return true
}

// PurgeExpired sweeps all sessions and removes the expired ones together
// with their index entries. Returns the number removed. Idempotent and
// safe to run concurrently with reads and writes; expiry on access does
// not depend on the sweep having run.
func (s *Store) PurgeExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for token, sess := range s.sessions {
		if sess.expired(now, s.ttl) {
			delete(s.sessions, token)
			delete(s.byCustomer, sess.CustomerID)
			purged++
		}
	}
	return purged
}

// Len returns the number of stored sessions, expired-but-unswept included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Range calls fn with a copy of each session. If fn returns false,
// iteration stops. The read lock is held for the whole iteration — keep
// fn fast.
func (s *Store) Range(fn func(Session) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if !fn(*sess) {
			return
		}
	}
}

// generateToken produces a 32-character hex string from 16 random bytes.
// crypto/rand keeps tokens unguessable.
func generateToken() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("session: crypto/rand unavailable: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
