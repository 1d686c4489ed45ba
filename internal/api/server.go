// Package api serves the JSON endpoints and the assistant over HTTP.
package api

import (
	"context"
	"net/http"

	"cert-tracker/internal/common/auth"
	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/storage"
	"cert-tracker/internal/notify"
	"cert-tracker/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Answerer turns a question into an answer. It never fails.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

type Options struct {
	CookieName    string
	AuthRequired  bool
	MaxUploadSize int64
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Assistant   Answerer
	Employees   *store.EmployeeStore
	Users       *store.UserStore
	Sessions    *store.SessionStore
	Events      *store.EventStore
	Submissions *store.SubmissionStore
	Uploads     storage.Store
	Notifier    *notify.Notifier
	Hasher      *auth.Hasher
	Cookies     sessions.Store
	// Ready reports whether the database is reachable.
	Ready   func(ctx context.Context) error
	Options Options
	Logger  logger.Logger
}

type Server struct {
	deps   Deps
	errs   *apperrors.ErrorHandler
	logger logger.Logger
}

func NewServer(deps Deps) *Server {
	if deps.Options.CookieName == "" {
		deps.Options.CookieName = "cert-tracker"
	}
	if deps.Options.MaxUploadSize == 0 {
		deps.Options.MaxUploadSize = 10 << 20
	}
	log := deps.Logger.WithFields(map[string]interface{}{"component": "api"})
	return &Server{
		deps:   deps,
		errs:   apperrors.NewErrorHandler(log),
		logger: log,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		s.instrument,
		middleware.Recoverer,
	)

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/logout", s.logout)
		r.Get("/llm_query/suggested-questions", s.suggestedQuestions)

		r.Group(func(r chi.Router) {
			if s.deps.Options.AuthRequired {
				r.Use(s.requireSession)
			}

			r.Post("/llm_query", s.llmQuery)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.listUsers)
				r.Post("/", s.createUser)
				r.Get("/{eid}", s.getUser)
				r.Put("/{eid}", s.updateUser)
				r.Delete("/{eid}", s.deleteUser)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", s.createSession)
				r.Post("/cleanup", s.cleanupSessions)
				r.Get("/{id}", s.getSession)
				r.Delete("/{id}", s.deleteSession)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", s.listEmployees)
				r.Post("/", s.createEmployee)
				r.Get("/certifications", s.listRecords)
				r.Post("/certifications", s.createRecord)
				r.Get("/certificates", s.listCatalog)
				r.Get("/get_certifications", s.listRecordsWithLevels)
				r.Post("/update_progress", s.updateProgress)
				r.Put("/records/{id}", s.updateRecord)
				r.Patch("/records/{id}", s.patchRecord)
				r.Delete("/records/{id}", s.deleteRecord)
				r.Get("/{eid}", s.getEmployee)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", s.listEvents)
				r.Post("/", s.createEvent)
				r.Put("/{id}", s.updateEvent)
				r.Delete("/{id}", s.deleteEvent)
			})

			r.Route("/submissions", func(r chi.Router) {
				r.Post("/", s.createSubmission)
				r.Get("/pending", s.listPendingSubmissions)
				r.Post("/approve", s.approveSubmission)
			})
		})
	})

	return r
}
