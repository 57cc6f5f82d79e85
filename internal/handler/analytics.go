package handler

import (
	"net/http"
	"time"

	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/store"
)

type AnalyticsHandler struct {
	analytics *store.AnalyticsStore
}

func NewAnalyticsHandler(as *store.AnalyticsStore) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: as}
}

// dateRange reads the optional from/to query params and validates the format.
func dateRange(w http.ResponseWriter, r *http.Request) (from, to string, ok bool) {
	from = r.URL.Query().Get("from")
	to = r.URL.Query().Get("to")
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dates must be YYYY-MM-DD"})
			return "", "", false
		}
	}
	return from, to, true
}

func (h *AnalyticsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	months, err := h.analytics.MonthlySpending(ac.GroupID, from, to)
	if err != nil {
		writeError(w, err, "failed to compute monthly spending")
		return
	}
	if months == nil {
		months = []store.MonthlySpending{}
	}
	writeJSON(w, http.StatusOK, months)
}

func (h *AnalyticsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	categories, err := h.analytics.CategoryBreakdown(ac.GroupID, from, to)
	if err != nil {
		writeError(w, err, "failed to compute category breakdown")
		return
	}
	if categories == nil {
		categories = []store.CategorySpending{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	summary, err := h.analytics.Summary(ac.GroupID)
	if err != nil {
		writeError(w, err, "failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
