package handlers

import (
	"net/http"
	"strconv"

	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/web/middleware"
)

// DashboardHandler handles dashboard and analytics endpoints
type DashboardHandler struct {
	config *config.Config
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{config: cfg}
}

// Stats returns the headline dashboard numbers
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	stats, err := client.DashboardStats(r.Context())
	if err != nil {
		respondBackendError(w, err, "failed to get dashboard stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Activity returns the recent-activity feed
func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	activity, err := client.DashboardActivity(r.Context())
	if err != nil {
		respondBackendError(w, err, "failed to get dashboard activity")
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

// Analytics returns daily recognition trends for the last N days
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	overview, err := client.AnalyticsOverview(r.Context(), days)
	if err != nil {
		respondBackendError(w, err, "failed to get analytics overview")
		return
	}

	respondJSON(w, http.StatusOK, overview)
}
