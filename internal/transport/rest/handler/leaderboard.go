package handler

import (
	"net/http"

	"spin2win/internal/service"
)

// LeaderboardHandler handles the ranked standings endpoint
type LeaderboardHandler struct {
	lbSvc *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(lbSvc *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{lbSvc: lbSvc}
}

// Get handles GET /v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit, page := pageParams(r)
	lb, err := h.lbSvc.Compute(r.Context(), limit, page)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}
