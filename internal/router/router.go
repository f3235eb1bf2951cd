package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"elevateu-backend/internal/handlers"
	"elevateu-backend/internal/middleware"
)

func New(
	tokenAuth *middleware.TokenAuth,
	healthHandler *handlers.HealthHandler,
	courseHandler *handlers.CourseHandler,
	userHandler *handlers.UserHandler,
	enrollmentHandler *handlers.EnrollmentHandler,
	progressHandler *handlers.ProgressHandler,
	studyUpdateHandler *handlers.StudyUpdateHandler,
	adminHandler *handlers.AdminHandler,
	chatbotHandler *handlers.ChatbotHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Chat rate limiter (20 req/min per IP); every chat turn may fan out
	// into a completion-service call.
	chatLimiter := middleware.NewRateLimiter(20, time.Minute)

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {

		// ──── Course Routes ────
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courseHandler.List)
			r.Get("/{courseID}", courseHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(tokenAuth.AdminOnly)
				r.Post("/", courseHandler.Create)
				r.Put("/{courseID}", courseHandler.Update)
				r.Delete("/{courseID}", courseHandler.Delete)
			})
		})

		// ──── User Routes ────
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/{userRef}", userHandler.Get)

			// Profile updates require a session token.
			r.Group(func(r chi.Router) {
				r.Use(tokenAuth.Middleware)
				r.Put("/{userRef}", userHandler.Update)
			})
		})

		// ──── Enrollment Routes ────
		r.Route("/enrollments", func(r chi.Router) {
			r.Post("/", enrollmentHandler.Enroll)
			r.Get("/user/{userRef}", enrollmentHandler.ListByUser)
		})

		// ──── Progress Routes ────
		r.Route("/progress", func(r chi.Router) {
			r.Post("/", progressHandler.Update)
			r.Get("/{userRef}/{courseID}", progressHandler.Get)
		})

		// ──── Study Update Routes ────
		r.Route("/study-updates", func(r chi.Router) {
			r.Post("/", studyUpdateHandler.Create)
			r.Get("/user/{userRef}", studyUpdateHandler.ListByUser)

			r.Group(func(r chi.Router) {
				r.Use(tokenAuth.AdminOnly)
				r.Put("/{updateID}/verify", studyUpdateHandler.Verify)
			})
		})

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(tokenAuth.AdminOnly)
			r.Get("/stats", adminHandler.Stats)
			r.Get("/students", adminHandler.Roster)
			r.Get("/students/{userRef}", adminHandler.StudentDetail)
		})

		// ──── Chatbot Routes ────
		r.Route("/chatbot", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(chatLimiter.Middleware)
				r.Post("/message", chatbotHandler.Message)
			})
			r.Get("/history/{sessionID}", chatbotHandler.SessionHistory)
			r.Get("/sessions/{userRef}", chatbotHandler.UserSessions)
		})
	})

	return r
}
