// Package session implements the customer session store: opaque tokens
// with sliding expiration, lazily evaluated at access time and reclaimed
// by a periodic purge sweep.
package session

import "time"

// Session is one live customer session.
type Session struct {
	Token        string    `json:"token"`
	CustomerID   int64     `json:"customerId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastAccessAt time.Time `json:"lastAccessAt"`
}

// expired reports whether the session's idle time exceeds ttl at now.
// Liveness is always computed from the clock; there is no stored flag
// that could drift from it.
func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastAccessAt) > ttl
}
