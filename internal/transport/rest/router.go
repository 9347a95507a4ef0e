package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"spin2win/internal/service"
	"spin2win/internal/transport/rest/handler"
	"spin2win/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService        *service.AuthService
	QuizService        *service.QuizService
	QuizSetService     *service.QuizSetService
	ResponseService    *service.ResponseService
	LeaderboardService *service.LeaderboardService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	quizHandler := handler.NewQuizHandler(c.QuizService)
	setHandler := handler.NewQuizSetHandler(c.QuizSetService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	lbHandler := handler.NewLeaderboardHandler(c.LeaderboardService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Read routes: public, but answer keys are redacted unless the caller is
	// an admin or the key has been revealed.
	readRoutes := v1.NewRoute().Subrouter()
	readRoutes.Use(authMW.OptionalAuth)

	readRoutes.HandleFunc("/quizzes", quizHandler.List).Methods("GET", "OPTIONS")
	readRoutes.HandleFunc("/quizzes/active", quizHandler.GetActive).Methods("GET", "OPTIONS")
	readRoutes.HandleFunc("/quizzes/{quizId}", quizHandler.Get).Methods("GET", "OPTIONS")
	readRoutes.HandleFunc("/quiz-sets", setHandler.List).Methods("GET", "OPTIONS")
	readRoutes.HandleFunc("/quiz-sets/active", setHandler.GetActive).Methods("GET", "OPTIONS")
	readRoutes.HandleFunc("/quiz-sets/{setId}", setHandler.Get).Methods("GET", "OPTIONS")
	readRoutes.HandleFunc("/leaderboard", lbHandler.Get).Methods("GET", "OPTIONS")

	// Admin routes (lifecycle and editing)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/quizzes", quizHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes/{quizId}", quizHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes/{quizId}", quizHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes/{quizId}/start", quizHandler.Start).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes/{quizId}/end", quizHandler.End).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/quiz-sets", setHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/quiz-sets/{setId}", setHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/quiz-sets/{setId}", setHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/quiz-sets/{setId}/start", setHandler.Start).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/quiz-sets/{setId}/end", setHandler.End).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/quiz-sets/{setId}/match-result", setHandler.ApplyMatchResult).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/responses/quiz/{quizId}", responseHandler.ListByQuiz).Methods("GET", "OPTIONS")

	// Participant routes (any valid token)
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireAuth)

	userRoutes.HandleFunc("/responses", responseHandler.Submit).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/responses/user/{userId}", responseHandler.ListByParticipant).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/responses/user/{userId}/stats", responseHandler.Stats).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
