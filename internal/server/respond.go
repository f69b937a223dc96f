package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vaultd/internal/apperr"
)

type errorResponse struct {
	Error string      `json:"error"`
	Kind  apperr.Kind `json:"kind,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.log.Error("encoding response", zap.Error(err))
		}
	}
}

// respondError maps errors to user-facing messages: apperr kinds carry their
// own status, validation failures are 400s, anything else is a 500. Nothing
// propagates as an unhandled fault.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.KindInternal || ae.Kind == apperr.KindConnectivity {
			s.log.Error("operation failed", zap.String("path", r.URL.Path), zap.Error(err))
		}
		s.respondJSON(w, ae.HTTPStatus(), errorResponse{Error: ae.Message, Kind: ae.Kind})
		return
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Kind: apperr.KindConstraint})
		return
	}
	s.log.Error("operation failed", zap.String("path", r.URL.Path), zap.Error(err))
	s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: apperr.KindInternal})
}

// decode unmarshals the request body and runs validator tags over it.
func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Constraint("invalid request body").WithCause(err)
	}
	if err := s.validate.Struct(v); err != nil {
		return err
	}
	return nil
}

// queryID parses an optional integer query parameter; absence yields nil.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Constraint("invalid " + name).WithCause(err)
	}
	return &id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperr.Constraint("invalid " + name).WithCause(err)
	}
	return id, nil
}
