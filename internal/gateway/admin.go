// Package gateway provides the HTTP surface of stakeboard: the public
// betting API, a live WebSocket feed, and authenticated admin endpoints.
// It binds to loopback by default and follows the module system pattern.
package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stakeboard/stakeboard/internal/session"
)

// sessionJSON is a serializable session snapshot.
type sessionJSON struct {
	Token        string `json:"token"`
	CustomerID   int64  `json:"customer_id"`
	CreatedAt    string `json:"created_at"`
	LastAccessAt string `json:"last_access_at"`
}

// handleListSessions returns all live sessions as JSON.
func (g *Gateway) handleListSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var sessions []sessionJSON

		if g.sessions != nil {
			g.sessions.Range(func(s session.Session) bool {
				sessions = append(sessions, sessionJSON{
					Token:        s.Token,
					CustomerID:   s.CustomerID,
					CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z"),
					LastAccessAt: s.LastAccessAt.Format("2006-01-02T15:04:05Z"),
				})
				return true
			})
		}

		if sessions == nil {
			sessions = []sessionJSON{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sessions)
	}
}

// handleDeleteSession revokes a session by token.
func (g *Gateway) handleDeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusBadRequest)
			return
		}

		if g.sessions == nil || !g.sessions.Delete(token) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
