package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"spin2win/internal/model"
	"spin2win/internal/service"
	"spin2win/internal/transport/rest/middleware"
)

// ResponseHandler handles submission and response listing endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// Submit handles POST /v1/responses
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.responseSvc.Submit(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ListByParticipant handles GET /v1/responses/user/{userId}. Participants may
// only read their own history; admins may read anyone's.
func (h *ResponseHandler) ListByParticipant(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if !middleware.IsAdmin(r.Context()) && userID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	limit, page := pageParams(r)
	responses, total, err := h.responseSvc.ListByParticipant(r.Context(), userID, limit, page)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"responses": responses,
		"pagination": model.Pagination{
			Current: page,
			Pages:   model.PageCount(total, limit),
			Total:   total,
		},
	})
}

// ListByQuiz handles GET /v1/responses/quiz/{quizId} (admin only).
func (h *ResponseHandler) ListByQuiz(w http.ResponseWriter, r *http.Request) {
	limit, page := pageParams(r)
	responses, total, err := h.responseSvc.ListByQuiz(r.Context(), mux.Vars(r)["quizId"], limit, page)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"responses": responses,
		"pagination": model.Pagination{
			Current: page,
			Pages:   model.PageCount(total, limit),
			Total:   total,
		},
	})
}

// Stats handles GET /v1/responses/user/{userId}/stats.
func (h *ResponseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if !middleware.IsAdmin(r.Context()) && userID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	stats, err := h.responseSvc.Stats(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
