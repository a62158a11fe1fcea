package gateway

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stakeboard/stakeboard/pkg/bet"
)

// maxStakeBodyBytes bounds the stake request body. A 64-bit integer in
// decimal needs at most 20 bytes; anything bigger is garbage.
const maxStakeBodyBytes = 64

// handleOpenSession returns the customer's session token, minting a new
// one only when no live session exists.
//
//	POST /{customerID}/session → 200 text/plain token
func (g *Gateway) handleOpenSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
		if err != nil {
			g.metrics.RecordError()
			http.Error(w, "invalid customer id", http.StatusBadRequest)
			return
		}

		token, err := g.sessions.GetOrCreate(customerID)
		if err != nil {
			g.writeBettingError(w, err)
			return
		}

		g.metrics.RecordSession()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, token)
	}
}

// handlePostStake records a stake against an offer on behalf of the
// session named in the sessionkey query parameter.
//
//	POST /{betOfferID}/stake?sessionkey=tok, body = decimal stake → 204
func (g *Gateway) handlePostStake() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offerID, err := strconv.ParseInt(chi.URLParam(r, "betOfferID"), 10, 64)
		if err != nil {
			g.metrics.RecordError()
			http.Error(w, "invalid bet offer id", http.StatusBadRequest)
			return
		}

		token := r.URL.Query().Get("sessionkey")

		body, err := io.ReadAll(io.LimitReader(r.Body, maxStakeBodyBytes))
		if err != nil {
			g.metrics.RecordError()
			http.Error(w, "reading body", http.StatusBadRequest)
			return
		}
		stake, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
		if err != nil {
			g.metrics.RecordError()
			http.Error(w, "invalid stake", http.StatusBadRequest)
			return
		}

		if err := g.stakes.PlaceStake(token, offerID, stake); err != nil {
			g.writeBettingError(w, err)
			return
		}

		g.metrics.RecordStake()
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleHighStakes reports the offer's top stakes as CSV.
//
//	GET /{betOfferID}/highstakes → 200 text/plain "cid=stake,cid=stake"
func (g *Gateway) handleHighStakes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offerID, err := strconv.ParseInt(chi.URLParam(r, "betOfferID"), 10, 64)
		if err != nil {
			g.metrics.RecordError()
			http.Error(w, "invalid bet offer id", http.StatusBadRequest)
			return
		}

		top, err := g.board.QueryTop(offerID)
		if err != nil {
			g.writeBettingError(w, err)
			return
		}

		g.metrics.RecordQuery()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, bet.EncodeCSV(top))
	}
}

// writeBettingError maps domain errors to HTTP status codes.
func (g *Gateway) writeBettingError(w http.ResponseWriter, err error) {
	g.metrics.RecordError()
	switch {
	case errors.Is(err, bet.ErrSessionInvalid):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, bet.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
