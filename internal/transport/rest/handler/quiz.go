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

// QuizHandler handles standalone quiz endpoints
type QuizHandler struct {
	quizSvc *service.QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizSvc *service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// Create handles POST /v1/quizzes
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quiz, err := h.quizSvc.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz.View(true))
}

// List handles GET /v1/quizzes
func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, page := pageParams(r)
	filter := repository.QuizFilter{
		IsActive:    boolParam(r, "isActive"),
		IsCompleted: boolParam(r, "isCompleted"),
		Category:    r.URL.Query().Get("category"),
		Difficulty:  r.URL.Query().Get("difficulty"),
		Limit:       limit,
		Page:        page,
	}

	quizzes, total, err := h.quizSvc.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	admin := middleware.IsAdmin(r.Context())
	views := make([]model.QuizView, len(quizzes))
	for i, quiz := range quizzes {
		views[i] = quiz.View(admin)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quizzes": views,
		"pagination": model.Pagination{
			Current: page,
			Pages:   model.PageCount(total, limit),
			Total:   total,
		},
	})
}

// GetActive handles GET /v1/quizzes/active
func (h *QuizHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizSvc.GetActive(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if quiz == nil {
		writeError(w, http.StatusNotFound, "no active quiz")
		return
	}
	writeJSON(w, http.StatusOK, quiz.View(middleware.IsAdmin(r.Context())))
}

// Get handles GET /v1/quizzes/{quizId}
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizSvc.Get(r.Context(), mux.Vars(r)["quizId"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz.View(middleware.IsAdmin(r.Context())))
}

// Update handles PUT /v1/quizzes/{quizId}
func (h *QuizHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch service.UpdateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quiz, err := h.quizSvc.Update(r.Context(), mux.Vars(r)["quizId"], patch)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz.View(true))
}

// Start handles POST /v1/quizzes/{quizId}/start
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizSvc.Start(r.Context(), mux.Vars(r)["quizId"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz.View(true))
}

// End handles POST /v1/quizzes/{quizId}/end
func (h *QuizHandler) End(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizSvc.End(r.Context(), mux.Vars(r)["quizId"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz.View(true))
}

// Delete handles DELETE /v1/quizzes/{quizId}
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.quizSvc.Delete(r.Context(), mux.Vars(r)["quizId"]); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "quiz deleted"})
}
