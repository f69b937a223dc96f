package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

const maxUploadBytes = 32 << 20

// uploadAttachment stores the bytes first, then records the row. If the row
// insert fails the stored file is removed again so neither half survives
// alone.
func (s *Server) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, r, apperr.Constraint("invalid multipart form").WithCause(err))
		return
	}
	conceptID, err := strconv.ParseInt(r.FormValue("concept_id"), 10, 64)
	if err != nil {
		s.respondError(w, r, apperr.Constraint("invalid concept_id").WithCause(err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, apperr.Constraint("file field is required").WithCause(err))
		return
	}
	defer file.Close()

	filePath, err := s.files.Save(header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	fileType := header.Header.Get("Content-Type")
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	a, err := s.db.AddAttachment(r.Context(), models.AddAttachmentInput{
		ConceptID: conceptID,
		FilePath:  filePath,
		FileType:  fileType,
	})
	if err != nil {
		if rmErr := s.files.Remove(filePath); rmErr != nil {
			s.log.Warn("removing stored file after failed insert",
				zap.String("path", filePath), zap.Error(rmErr))
		}
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, a)
}

type attachmentListing struct {
	Attachments []models.AttachmentView `json:"attachments"`
	Removed     []models.AttachmentView `json:"removed,omitempty"`
}

// listAttachments runs the reconciliation pass: rows whose file is gone are
// deleted and reported under removed.
func (s *Server) listAttachments(w http.ResponseWriter, r *http.Request) {
	kept, removed, err := s.db.ListAttachments(r.Context(), s.files.Exists)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	for _, a := range removed {
		s.log.Warn("removed attachment row with missing file",
			zap.Int64("attachment_id", a.ID), zap.String("path", a.FilePath))
	}
	s.respondJSON(w, http.StatusOK, attachmentListing{Attachments: kept, Removed: removed})
}

func (s *Server) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "attachmentID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	a, err := s.db.GetAttachment(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	f, err := s.files.Open(a.FilePath)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", a.FileType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filepath.Base(a.FilePath)))
	if _, err := io.Copy(w, f); err != nil {
		s.log.Warn("streaming attachment", zap.Int64("attachment_id", id), zap.Error(err))
	}
}

func (s *Server) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "attachmentID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	filePath, err := s.db.DeleteAttachment(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.files.Remove(filePath); err != nil {
		s.log.Warn("removing attachment file", zap.String("path", filePath), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
