package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stakeboard/stakeboard/internal/betting"
	"github.com/stakeboard/stakeboard/internal/keylock"
	"github.com/stakeboard/stakeboard/internal/leaderboard"
	"github.com/stakeboard/stakeboard/internal/session"
)

// newTestGateway builds a Gateway over a fresh betting stack, bypassing
// the module lifecycle.
func newTestGateway(t *testing.T, cfg Config) *Gateway {
	t.Helper()
	cfg.defaults()

	locks := keylock.NewRegistry()
	store := session.NewStore(time.Minute, locks)
	board := leaderboard.NewCache(20, locks)

	return &Gateway{
		config:    cfg,
		logger:    slog.Default(),
		metrics:   NewMetrics(),
		sessions:  store,
		board:     board,
		stakes:    betting.NewService(store, board, slog.Default()),
		startedAt: time.Now(),
	}
}

// openSession issues a session token for customerID through the router.
func openSession(t *testing.T, handler http.Handler, customerID int64) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/"+strconv.FormatInt(customerID, 10)+"/session", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("open session: status = %d, body = %q", rr.Code, rr.Body.String())
	}
	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("reading token: %v", err)
	}
	return string(body)
}
