package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/gymbuddy/internal/ingest"
	"github.com/claude/gymbuddy/internal/ingest/alpha"
	"github.com/claude/gymbuddy/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the persistence the HTTP layer needs beyond the workout service.
type Store interface {
	Accounts
	InsertImportLog(ctx context.Context, entry ingest.LogEntry) (int64, error)
	QueryImportLogs(ctx context.Context, userID int64, limit int) ([]ingest.LogEntry, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc      *workout.Service
	store    Store
	alpha    *alpha.Provider
	identity func(http.Handler) http.Handler
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *HTTPMetrics
	mcp      http.Handler
	router   chi.Router
}

// New creates a new Server. identity authenticates every API request; see
// Identity. Routes are built by the first call to Handler, so SetMCP must
// come before it.
func New(svc *workout.Service, store Store, alphaProvider *alpha.Provider, identity func(http.Handler) http.Handler, log *slog.Logger) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Server{
		svc:      svc,
		store:    store,
		alpha:    alphaProvider,
		identity: identity,
		log:      log,
		registry: reg,
		metrics:  NewHTTPMetrics(reg),
	}
}

// SetMCP mounts an MCP handler at /mcp behind the identity middleware.
func (s *Server) SetMCP(h http.Handler) {
	s.mcp = h
}

// Handler returns the fully routed handler.
func (s *Server) Handler() http.Handler {
	if s.router == nil {
		s.router = chi.NewRouter()
		s.routes()
	}
	return s.router
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(s.metrics.Middleware)
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.identity)

		r.Get("/me", s.handleMe)

		r.Get("/exercises", s.handleListExerciseTypes)
		r.Post("/exercises", s.handleCreateExerciseType)
		r.Get("/exercises/{id}", s.handleGetExerciseType)

		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts/template", s.handleTemplate)
		r.Get("/workouts/user_exercises", s.handleUserExercises)
		r.Get("/workouts/last_exercise_performance", s.handleLastExercisePerformance)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Patch("/workouts/{id}", s.handleUpdateWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)
		r.Get("/workouts/{id}/previous_exercises", s.handlePreviousExercises)
		r.Get("/workouts/{id}/exercises", s.handleListWorkoutExercises)
		r.Post("/workouts/{id}/exercises", s.handleAddWorkoutExercise)

		r.Get("/performed-exercises/{id}", s.handleGetPerformedExercise)
		r.Patch("/performed-exercises/{id}", s.handleUpdatePerformedExercise)
		r.Delete("/performed-exercises/{id}", s.handleDeletePerformedExercise)
		r.Post("/performed-exercises/{id}/sets", s.handleAddSet)

		r.Get("/set-entries/{id}", s.handleGetSet)
		r.Patch("/set-entries/{id}", s.handleUpdateSet)
		r.Delete("/set-entries/{id}", s.handleDeleteSet)

		r.Get("/exercise-notes/{exerciseID}", s.handleGetNote)
		r.Put("/exercise-notes/{exerciseID}", s.handleSaveNote)

		r.Get("/programs", s.handleListPrograms)
		r.Post("/programs", s.handleCreateProgram)
		r.Get("/programs/{id}", s.handleGetProgram)
		r.Delete("/programs/{id}", s.handleDeleteProgram)

		r.Post("/import/alpha", s.handleAlphaImport)
		r.Get("/import/logs", s.handleImportLogs)
	})

	if s.mcp != nil {
		s.router.With(s.identity).Handle("/mcp", s.mcp)
	}
}
