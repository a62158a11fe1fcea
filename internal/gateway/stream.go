package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/stakeboard/stakeboard/pkg/bet"
)

// highStakesEvent is one WebSocket frame: the offer's current top stakes.
type highStakesEvent struct {
	BetOfferID int64       `json:"bet_offer_id"`
	Top        []entryJSON `json:"top"`
}

type entryJSON struct {
	CustomerID int64 `json:"customer_id"`
	Stake      int64 `json:"stake"`
}

func toEntryJSON(entries []bet.Entry) []entryJSON {
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = entryJSON{CustomerID: e.CustomerID, Stake: e.Stake}
	}
	return out
}

// handleStreamHighStakes upgrades to WebSocket and pushes a fresh top-N
// snapshot whenever the offer's leaderboard changes. The first frame is the
// current snapshot so clients render immediately.
//
//	GET /ws/highstakes/{betOfferID}
func (g *Gateway) handleStreamHighStakes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offerID, err := strconv.ParseInt(chi.URLParam(r, "betOfferID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid bet offer id", http.StatusBadRequest)
			return
		}
		initial, err := g.board.QueryTop(offerID)
		if err != nil {
			g.writeBettingError(w, err)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Error("websocket accept failed", "error", err)
			return
		}
		defer func() {
			_ = conn.Close(websocket.StatusInternalError, "unexpected close")
		}()

		updates, cancel := g.board.Watch(offerID)
		defer cancel()

		// CloseRead discards inbound frames and cancels the context when
		// the client goes away.
		ctx := conn.CloseRead(r.Context())

		if err := g.sendSnapshot(ctx, conn, offerID, initial); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return
			case top := <-updates:
				if err := g.sendSnapshot(ctx, conn, offerID, top); err != nil {
					return
				}
			}
		}
	}
}

func (g *Gateway) sendSnapshot(ctx context.Context, conn *websocket.Conn, offerID int64, top []bet.Entry) error {
	data, err := json.Marshal(highStakesEvent{
		BetOfferID: offerID,
		Top:        toEntryJSON(top),
	})
	if err != nil {
		g.logger.Error("snapshot marshal failed", "error", err)
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		g.logger.Debug("websocket write failed", "offer_id", offerID, "error", err)
		return err
	}
	return nil
}
