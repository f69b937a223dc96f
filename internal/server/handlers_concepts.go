package server

import (
	"net/http"

	"go.uber.org/zap"

	"vaultd/internal/models"
)

type createConceptRequest struct {
	Type       string `json:"type" validate:"required,max=64"`
	Title      string `json:"title" validate:"required,max=256"`
	CategoryID *int64 `json:"category_id"`
	UserID     *int64 `json:"user_id"`
}

func (s *Server) createConcept(w http.ResponseWriter, r *http.Request) {
	var req createConceptRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	c, err := s.db.CreateConcept(r.Context(), models.CreateConceptInput{
		Type:       req.Type,
		Title:      req.Title,
		CategoryID: req.CategoryID,
		UserID:     req.UserID,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, c)
}

func (s *Server) listConcepts(w http.ResponseWriter, r *http.Request) {
	concepts, err := s.db.ListConcepts(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, concepts)
}

func (s *Server) getConcept(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conceptID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	c, err := s.db.GetConcept(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

// deleteConcept removes the concept with everything it owns, then clears the
// stored attachment files. File removal is best effort; the rows are already
// gone, so a failed unlink only leaves an unreferenced file behind.
func (s *Server) deleteConcept(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conceptID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	filePaths, err := s.db.DeleteConcept(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	for _, p := range filePaths {
		if err := s.files.Remove(p); err != nil {
			s.log.Warn("removing attachment file", zap.String("path", p), zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "concept deleted along with its notes, tasks, links and attachments",
	})
}

func (s *Server) getConceptDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conceptID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	details, err := s.db.GetConceptDetails(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if details == nil {
		// No-row result, not an error; render an empty body.
		s.respondJSON(w, http.StatusOK, map[string]any{})
		return
	}
	s.respondJSON(w, http.StatusOK, details)
}

func (s *Server) getLinkedConcepts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conceptID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	linked, err := s.db.GetLinkedConcepts(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, linked)
}
