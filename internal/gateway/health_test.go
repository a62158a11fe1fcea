package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})
	router := g.buildRouter()

	token := openSession(t, router, 42)
	if rr := postStake(router, "/888/stake?sessionkey="+token, "100"); rr.Code != http.StatusNoContent {
		t.Fatalf("stake: status = %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want %q", resp.Status, "ok")
	}
	if resp.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", resp.Sessions)
	}
	if resp.Offers != 1 {
		t.Errorf("offers = %d, want 1", resp.Offers)
	}
}

func TestHealth_EmptyStack(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	g.handleHealth().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Sessions != 0 || resp.Offers != 0 {
		t.Errorf("expected empty counts, got %+v", resp)
	}
}
