package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(traceMiddleware)

	// Public betting API — no auth required.
	r.Post("/{customerID}/session", g.handleOpenSession())
	r.Post("/{betOfferID}/stake", g.handlePostStake())
	r.Get("/{betOfferID}/highstakes", g.handleHighStakes())

	// Live top-N feed over WebSocket.
	r.Get("/ws/highstakes/{betOfferID}", g.handleStreamHighStakes())

	// Operational endpoints.
	r.Get("/health", g.handleHealth())
	r.Handle("/metrics", g.metrics.Handler())

	// Admin endpoints — auth required. Not mounted if no auth configured.
	if g.config.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.config.Auth))
			r.Get("/status", g.handleStatus())
			r.Route("/api", func(r chi.Router) {
				r.Get("/sessions", g.handleListSessions())
				r.Delete("/sessions/{token}", g.handleDeleteSession())
			})
		})
	}

	return r
}

// traceMiddleware opens a span per request on the global tracer provider.
// A no-op unless the tracing module is loaded.
func traceMiddleware(next http.Handler) http.Handler {
	tracer := otel.Tracer("stakeboard/gateway")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
