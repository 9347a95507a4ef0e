package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"spin2win/internal/model"
	"spin2win/internal/repository"
	"spin2win/internal/service"
	"spin2win/internal/transport/rest/middleware"
)

// QuizSetHandler handles quiz set endpoints
type QuizSetHandler struct {
	setSvc *service.QuizSetService
}

// NewQuizSetHandler creates a new quiz set handler
func NewQuizSetHandler(setSvc *service.QuizSetService) *QuizSetHandler {
	return &QuizSetHandler{setSvc: setSvc}
}

// Create handles POST /v1/quiz-sets
func (h *QuizSetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateQuizSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := h.setSvc.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, set.View(true))
}

// List handles GET /v1/quiz-sets
func (h *QuizSetHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, page := pageParams(r)
	filter := repository.QuizSetFilter{
		IsActive:     boolParam(r, "isActive"),
		IsCompleted:  boolParam(r, "isCompleted"),
		BattleNumber: r.URL.Query().Get("battleNumber"),
		Limit:        limit,
		Page:         page,
	}

	sets, total, err := h.setSvc.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	admin := middleware.IsAdmin(r.Context())
	views := make([]model.QuizSetView, len(sets))
	for i, set := range sets {
		views[i] = set.View(admin)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quizSets": views,
		"pagination": model.Pagination{
			Current: page,
			Pages:   model.PageCount(total, limit),
			Total:   total,
		},
	})
}

// GetActive handles GET /v1/quiz-sets/active
func (h *QuizSetHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	set, err := h.setSvc.GetActive(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if set == nil {
		writeError(w, http.StatusNotFound, "no active quiz set")
		return
	}
	writeJSON(w, http.StatusOK, set.View(middleware.IsAdmin(r.Context())))
}

// Get handles GET /v1/quiz-sets/{setId}
func (h *QuizSetHandler) Get(w http.ResponseWriter, r *http.Request) {
	set, err := h.setSvc.Get(r.Context(), mux.Vars(r)["setId"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set.View(middleware.IsAdmin(r.Context())))
}

// Update handles PUT /v1/quiz-sets/{setId}
func (h *QuizSetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch service.UpdateQuizSetRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := h.setSvc.Update(r.Context(), mux.Vars(r)["setId"], patch)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set.View(true))
}

// Start handles POST /v1/quiz-sets/{setId}/start
func (h *QuizSetHandler) Start(w http.ResponseWriter, r *http.Request) {
	set, err := h.setSvc.Start(r.Context(), mux.Vars(r)["setId"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set.View(true))
}

// End handles POST /v1/quiz-sets/{setId}/end
func (h *QuizSetHandler) End(w http.ResponseWriter, r *http.Request) {
	set, err := h.setSvc.End(r.Context(), mux.Vars(r)["setId"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set.View(true))
}

// ApplyMatchResult handles POST /v1/quiz-sets/{setId}/match-result
func (h *QuizSetHandler) ApplyMatchResult(w http.ResponseWriter, r *http.Request) {
	var req service.MatchResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := h.setSvc.ApplyMatchResult(r.Context(), mux.Vars(r)["setId"], req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set.View(true))
}

// Delete handles DELETE /v1/quiz-sets/{setId}
func (h *QuizSetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.setSvc.Delete(r.Context(), mux.Vars(r)["setId"]); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "quiz set deleted"})
}
