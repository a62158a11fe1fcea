// Package betting wires the session store, leaderboard cache, and purge
// scheduler into a single engine module, and exposes the stake service
// that the HTTP gateway calls.
package betting

import (
	"log/slog"

	"github.com/stakeboard/stakeboard/internal/leaderboard"
	"github.com/stakeboard/stakeboard/internal/session"
)

// Service records stakes on behalf of authenticated sessions. It is the
// only write path into the leaderboard: callers hold a session token, not
// a customer ID.
type Service struct {
	sessions *session.Store
	board    *leaderboard.Cache
	logger   *slog.Logger
}

// NewService creates a stake service bound to the given store and cache.
func NewService(sessions *session.Store, board *leaderboard.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sessions: sessions, board: board, logger: logger}
}

// PlaceStake resolves token to a customer and records stake on the offer's
// leaderboard. Accessing the session refreshes its TTL, so an active bettor
// never expires mid-play. Errors from the store and cache pass through
// unchanged so callers can map them to transport codes.
func (s *Service) PlaceStake(token string, offerID, stake int64) error {
	sess, err := s.sessions.Access(token)
	if err != nil {
		return err
	}
	if err := s.board.RecordStake(offerID, sess.CustomerID, stake); err != nil {
		return err
	}
	s.logger.Debug("stake recorded",
		"offer_id", offerID,
		"customer_id", sess.CustomerID,
		"stake", stake)
	return nil
}
