package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postStake(handler http.Handler, path, stake string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(stake))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAPI_OpenSession(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})
	router := g.buildRouter()

	token := openSession(t, router, 42)
	if len(token) != 32 {
		t.Errorf("token length = %d, want 32: %q", len(token), token)
	}

	// A second request for the same live customer returns the same token.
	again := openSession(t, router, 42)
	if again != token {
		t.Errorf("second call minted a new token: %q vs %q", again, token)
	}
}

func TestAPI_OpenSession_BadCustomerID(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})
	router := g.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/notanumber/session", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAPI_StakeAndHighStakes(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})
	router := g.buildRouter()

	tok1 := openSession(t, router, 1)
	tok2 := openSession(t, router, 2)

	if rr := postStake(router, "/888/stake?sessionkey="+tok1, "2500"); rr.Code != http.StatusNoContent {
		t.Fatalf("stake 1: status = %d, body = %q", rr.Code, rr.Body.String())
	}
	if rr := postStake(router, "/888/stake?sessionkey="+tok2, "4500"); rr.Code != http.StatusNoContent {
		t.Fatalf("stake 2: status = %d, body = %q", rr.Code, rr.Body.String())
	}
	// Lower repeat stake must not displace the customer's max.
	if rr := postStake(router, "/888/stake?sessionkey="+tok1, "1000"); rr.Code != http.StatusNoContent {
		t.Fatalf("stake 3: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/888/highstakes", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("highstakes: status = %d", rr.Code)
	}
	if got, want := rr.Body.String(), "2=4500,1=2500"; got != want {
		t.Errorf("highstakes = %q, want %q", got, want)
	}
}

func TestAPI_HighStakes_UnknownOffer(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})
	router := g.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/999/highstakes", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "" {
		t.Errorf("body = %q, want empty", rr.Body.String())
	}
}

func TestAPI_Stake_MissingSessionKey(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})
	router := g.buildRouter()

	rr := postStake(router, "/888/stake", "100")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAPI_Stake_UnknownToken(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})
	router := g.buildRouter()

	rr := postStake(router, "/888/stake?sessionkey=deadbeefdeadbeefdeadbeefdeadbeef", "100")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAPI_Stake_BadBody(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})
	router := g.buildRouter()
	token := openSession(t, router, 1)

	for _, body := range []string{"", "abc", "12.5", "99999999999999999999999999"} {
		rr := postStake(router, "/888/stake?sessionkey="+token, body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want %d", body, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestAPI_Stake_NegativeStake(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, Config{})
	router := g.buildRouter()
	token := openSession(t, router, 1)

	rr := postStake(router, "/888/stake?sessionkey="+token, "-5")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
