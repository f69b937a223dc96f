package server

import (
	"net/http"

	"vaultd/internal/models"
)

type createLinkRequest struct {
	SrcConceptID int64  `json:"src_concept_id" validate:"required"`
	DstConceptID int64  `json:"dst_concept_id" validate:"required"`
	RelationType string `json:"relation_type" validate:"required,max=64"`
}

func (s *Server) createLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := s.db.CreateLink(r.Context(), models.CreateLinkInput{
		SrcConceptID: req.SrcConceptID,
		DstConceptID: req.DstConceptID,
		RelationType: req.RelationType,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, l)
}

func (s *Server) listLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.db.ListLinks(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, links)
}

func (s *Server) deleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "linkID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.DeleteLink(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addCollaboratorRequest struct {
	UserID    int64                   `json:"user_id" validate:"required"`
	ConceptID int64                   `json:"concept_id" validate:"required"`
	Role      models.CollaboratorRole `json:"role" validate:"required,max=64"`
}

func (s *Server) addCollaborator(w http.ResponseWriter, r *http.Request) {
	var req addCollaboratorRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	c := models.Collaborator{UserID: req.UserID, ConceptID: req.ConceptID, Role: req.Role}
	if err := s.db.AddCollaborator(r.Context(), c); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, c)
}

func (s *Server) listCollaborators(w http.ResponseWriter, r *http.Request) {
	collabs, err := s.db.ListCollaborators(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, collabs)
}

func (s *Server) removeCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	conceptID, err := pathID(r, "conceptID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.RemoveCollaborator(r.Context(), userID, conceptID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createTagRequest struct {
	Tag string `json:"tag" validate:"required,max=64"`
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	t, err := s.db.CreateTag(r.Context(), req.Tag)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, t)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.db.ListTags(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, tags)
}

type assignTagRequest struct {
	ConceptID int64 `json:"concept_id" validate:"required"`
	TagID     int64 `json:"tag_id" validate:"required"`
}

func (s *Server) assignTag(w http.ResponseWriter, r *http.Request) {
	var req assignTagRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.AssignTag(r.Context(), req.ConceptID, req.TagID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, req)
}

func (s *Server) unassignTag(w http.ResponseWriter, r *http.Request) {
	conceptID, err := pathID(r, "conceptID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	tagID, err := pathID(r, "tagID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.UnassignTag(r.Context(), conceptID, tagID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTaggedConcepts(w http.ResponseWriter, r *http.Request) {
	tagged, err := s.db.ListTaggedConcepts(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, tagged)
}
