package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"spin2win/internal/model"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", &model.ValidationError{Field: "points", Message: "must be between 1 and 10"}, http.StatusBadRequest, "points must be between 1 and 10"},
		{"not found", &model.NotFoundError{Resource: "quiz", ID: "abc"}, http.StatusNotFound, "quiz not found: abc"},
		{"conflict", &model.ConflictError{Reason: "quiz is already active"}, http.StatusConflict, "quiz is already active"},
		{"internal", errors.New("mongo: connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json body: %v", err)
			}
			if body["error"] != tc.wantBody {
				t.Fatalf("expected error %q, got %q", tc.wantBody, body["error"])
			}
		})
	}
}

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/leaderboard?limit=50&page=3", nil)
	limit, page := pageParams(r)
	if limit != 50 || page != 3 {
		t.Fatalf("expected 50/3, got %d/%d", limit, page)
	}

	r = httptest.NewRequest(http.MethodGet, "/v1/leaderboard?limit=-1&page=junk", nil)
	limit, page = pageParams(r)
	if limit != 20 || page != 1 {
		t.Fatalf("expected defaults 20/1, got %d/%d", limit, page)
	}
}

func TestBoolParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/quizzes?isActive=true", nil)
	if v := boolParam(r, "isActive"); v == nil || !*v {
		t.Fatalf("expected true, got %v", v)
	}
	if v := boolParam(r, "isCompleted"); v != nil {
		t.Fatalf("expected nil for absent param, got %v", v)
	}
}
