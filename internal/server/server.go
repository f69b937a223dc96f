package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vaultd/internal/database"
	"vaultd/internal/storage"
)

// Server is the thin dispatch layer: every operation is an explicit route,
// handlers decode and validate, then call the query/command layer.
type Server struct {
	db       *database.Database
	files    *storage.Store
	log      *zap.Logger
	validate *validator.Validate
	addr     string
}

func New(db *database.Database, files *storage.Store, log *zap.Logger, addr string) *Server {
	return &Server{
		db:       db,
		files:    files,
		log:      log,
		validate: validator.New(),
		addr:     addr,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.createUser)
			r.Get("/", s.listUsers)
			r.Delete("/{userID}", s.deleteUser)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.createCategory)
			r.Get("/", s.listCategories)
			r.Delete("/{categoryID}", s.deleteCategory)
		})
		r.Route("/concepts", func(r chi.Router) {
			r.Post("/", s.createConcept)
			r.Get("/", s.listConcepts)
			r.Get("/{conceptID}", s.getConcept)
			r.Delete("/{conceptID}", s.deleteConcept)
			r.Get("/{conceptID}/details", s.getConceptDetails)
			r.Get("/{conceptID}/linked", s.getLinkedConcepts)
		})
		r.Route("/notes", func(r chi.Router) {
			r.Post("/", s.createNote)
			r.Get("/", s.listNotes)
			r.Delete("/{noteID}", s.deleteNote)
		})
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.createTask)
			r.Get("/", s.listTasks)
			r.Put("/{taskID}/status", s.updateTaskStatus)
			r.Post("/{taskID}/complete", s.completeTask)
			r.Get("/{taskID}/days-remaining", s.daysRemaining)
			r.Delete("/{taskID}", s.deleteTask)
		})
		r.Route("/links", func(r chi.Router) {
			r.Post("/", s.createLink)
			r.Get("/", s.listLinks)
			r.Delete("/{linkID}", s.deleteLink)
		})
		r.Route("/collaborators", func(r chi.Router) {
			r.Post("/", s.addCollaborator)
			r.Get("/", s.listCollaborators)
			r.Delete("/{userID}/{conceptID}", s.removeCollaborator)
		})
		r.Route("/tags", func(r chi.Router) {
			r.Post("/", s.createTag)
			r.Get("/", s.listTags)
			r.Post("/assignments", s.assignTag)
			r.Delete("/assignments/{conceptID}/{tagID}", s.unassignTag)
			r.Get("/assignments", s.listTaggedConcepts)
		})
		r.Route("/attachments", func(r chi.Router) {
			r.Post("/", s.uploadAttachment)
			r.Get("/", s.listAttachments)
			r.Get("/{attachmentID}/download", s.downloadAttachment)
			r.Delete("/{attachmentID}", s.deleteAttachment)
		})
		r.Route("/reports", func(r chi.Router) {
			r.Get("/notes-per-concept", s.reportNotesPerConcept)
			r.Get("/pending-tasks", s.reportPendingTasks)
			r.Get("/avg-tasks", s.reportAvgTasks)
			r.Get("/multi-note-concepts", s.reportMultiNoteConcepts)
			r.Get("/tasks-with-owner", s.reportTasksWithOwner)
			r.Get("/concept-summary", s.reportConceptSummary)
		})
	})

	return r
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("http server listening", zap.String("addr", s.addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DB.PingContext(r.Context()); err != nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
