package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/yada/internal/foodlog"
	"github.com/starford/yada/internal/tracker"
)

const (
	defaultSearchLimit = 20
	// maxSummaryDays bounds one summary request to about a year.
	maxSummaryDays = 366
)

var errSummaryTooLong = fmt.Errorf("summary range exceeds %d days", maxSummaryDays)

// Handler holds API route handlers.
type Handler struct {
	svc *tracker.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc}
}

// ListFoods handles GET /api/foods.
//
//	@Summary		List foods whose identifier or a keyword starts with q
//	@Tags			foods
//	@Produce		json
//	@Param			q	query		string	false	"Prefix or keyword (empty lists all)"
//	@Success		200	{object}	FoodListResponse
//	@Security		BearerAuth
//	@Router			/foods [get]
func (h *Handler) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods := h.svc.SearchFoods(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, FoodListResponse{Foods: foods})
}

// SearchFoods handles GET /api/foods/search.
//
//	@Summary		Full-text search across identifiers, keywords and ingredients
//	@Tags			foods
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/foods/search [get]
func (h *Handler) SearchFoods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	hits, err := h.svc.FullTextSearch(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search foods", err)
		return
	}
	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SearchResult{
			Identifier: hit.Identifier,
			Kind:       hit.Kind,
			Calories:   hit.Calories,
			Snippet:    hit.Snippet,
		})
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// GetFood handles GET /api/foods/{id}.
//
//	@Summary		Get a single food with its flattened components
//	@Tags			foods
//	@Produce		json
//	@Param			id	path		string	true	"Food identifier"
//	@Success		200	{object}	FoodDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/foods/{id} [get]
func (h *Handler) GetFood(w http.ResponseWriter, r *http.Request) {
	food, err := h.svc.Food(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get food", err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

// CreateAtomicFood handles POST /api/foods/atomic.
//
//	@Summary		Add an atomic food
//	@Tags			foods
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateAtomicFoodRequest	true	"Food to add"
//	@Success		201		{object}	FoodDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/foods/atomic [post]
func (h *Handler) CreateAtomicFood(w http.ResponseWriter, r *http.Request) {
	var req CreateAtomicFoodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	food, err := h.svc.AddAtomicFood(r.Context(), req.Identifier, req.Keywords, req.Calories)
	if err != nil {
		writeError(w, "create atomic food", err)
		return
	}
	writeJSON(w, http.StatusCreated, food)
}

// CreateCompositeFood handles POST /api/foods/composite.
//
//	@Summary		Add a composite food built from existing foods
//	@Tags			foods
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateCompositeFoodRequest	true	"Food to add"
//	@Success		201		{object}	FoodDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/foods/composite [post]
func (h *Handler) CreateCompositeFood(w http.ResponseWriter, r *http.Request) {
	var req CreateCompositeFoodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	food, err := h.svc.AddCompositeFood(r.Context(), req.Identifier, req.Keywords, req.refs())
	if err != nil {
		writeError(w, "create composite food", err)
		return
	}
	writeJSON(w, http.StatusCreated, food)
}

// GetActiveDay handles GET /api/log.
//
//	@Summary		Get the active date's log
//	@Tags			log
//	@Produce		json
//	@Success		200	{object}	DayView
//	@Security		BearerAuth
//	@Router			/log [get]
func (h *Handler) GetActiveDay(w http.ResponseWriter, r *http.Request) {
	day, err := h.svc.Day(r.Context(), "")
	if err != nil {
		writeError(w, "get active day", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// SetDate handles PUT /api/log/date.
//
//	@Summary		Change the date that log mutations apply to
//	@Tags			log
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SetDateRequest	true	"New active date"
//	@Success		200		{object}	DayView
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/log/date [put]
func (h *Handler) SetDate(w http.ResponseWriter, r *http.Request) {
	var req SetDateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	day, err := h.svc.SetDate(r.Context(), req.Date)
	if err != nil {
		writeError(w, "set date", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// ListDates handles GET /api/log/dates.
//
//	@Summary		List dates that have a log
//	@Tags			log
//	@Produce		json
//	@Success		200	{object}	DatesResponse
//	@Security		BearerAuth
//	@Router			/log/dates [get]
func (h *Handler) ListDates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DatesResponse{Dates: h.svc.Dates(r.Context())})
}

// GetDay handles GET /api/log/{date}.
//
//	@Summary		Get one day's log
//	@Tags			log
//	@Produce		json
//	@Param			date	path		string	true	"Date (YYYY-MM-DD)"
//	@Success		200		{object}	DayView
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/log/{date} [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	day, err := h.svc.Day(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, "get day", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// LogFood handles POST /api/log/entries.
//
//	@Summary		Log servings of a food on the active date
//	@Tags			log
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LogFoodRequest	true	"Food and servings"
//	@Success		200		{object}	DayView
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/log/entries [post]
func (h *Handler) LogFood(w http.ResponseWriter, r *http.Request) {
	var req LogFoodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	day, err := h.svc.LogFood(r.Context(), req.Food, req.Servings)
	if err != nil {
		writeError(w, "log food", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// RemoveFood handles DELETE /api/log/entries/{food}.
//
//	@Summary		Remove a food from the active date's log
//	@Tags			log
//	@Produce		json
//	@Param			food	path		string	true	"Food identifier"
//	@Success		200		{object}	DayView
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/log/entries/{food} [delete]
func (h *Handler) RemoveFood(w http.ResponseWriter, r *http.Request) {
	day, err := h.svc.RemoveFood(r.Context(), chi.URLParam(r, "food"))
	if err != nil {
		writeError(w, "remove food", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// Undo handles POST /api/log/undo.
//
//	@Summary		Undo the last change to the active date's log
//	@Tags			log
//	@Produce		json
//	@Success		200	{object}	DayView
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/log/undo [post]
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	day, err := h.svc.Undo(r.Context())
	if err != nil {
		writeError(w, "undo", err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// Summary handles GET /api/summary.
//
//	@Summary		Compare each day in a range against the calorie target
//	@Tags			summary
//	@Produce		json
//	@Param			start	query		string	true	"First date (YYYY-MM-DD)"
//	@Param			end		query		string	true	"Last date (YYYY-MM-DD)"
//	@Param			target	query		number	false	"Target override"
//	@Success		200		{object}	SummaryResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameters 'start' and 'end' are required"))
		return
	}
	days, err := foodlog.SpanDays(start, end)
	if err == nil && days > maxSummaryDays {
		err = errSummaryTooLong
	}
	if err != nil {
		writeError(w, "summary", err)
		return
	}
	var target *float64
	if raw := q.Get("target"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			writeJSON(w, http.StatusBadRequest, errorBody("target must be a finite number"))
			return
		}
		target = &v
	}
	summary, err := h.svc.Summary(r.Context(), start, end, target)
	if err != nil {
		writeError(w, "summary", err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Days: summary})
}
