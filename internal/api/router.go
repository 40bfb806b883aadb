package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/yada/internal/tracker"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *tracker.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Catalog.
	r.Get("/foods", h.ListFoods)
	r.Get("/foods/search", h.SearchFoods)
	r.Post("/foods/atomic", h.CreateAtomicFood)
	r.Post("/foods/composite", h.CreateCompositeFood)
	r.Get("/foods/{id}", h.GetFood)

	// Daily log.
	r.Get("/log", h.GetActiveDay)
	r.Put("/log/date", h.SetDate)
	r.Get("/log/dates", h.ListDates)
	r.Get("/log/{date}", h.GetDay)
	r.Post("/log/entries", h.LogFood)
	r.Delete("/log/entries/{food}", h.RemoveFood)
	r.Post("/log/undo", h.Undo)

	// Target comparison.
	r.Get("/summary", h.Summary)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
