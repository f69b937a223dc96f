package server

import "net/http"

func (s *Server) reportNotesPerConcept(w http.ResponseWriter, r *http.Request) {
	counts, err := s.db.NotesPerConcept(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, counts)
}

func (s *Server) reportPendingTasks(w http.ResponseWriter, r *http.Request) {
	counts, err := s.db.PendingTasksPerConcept(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, counts)
}

func (s *Server) reportAvgTasks(w http.ResponseWriter, r *http.Request) {
	avgs, err := s.db.AvgTasksPerConcept(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, avgs)
}

func (s *Server) reportMultiNoteConcepts(w http.ResponseWriter, r *http.Request) {
	titles, err := s.db.ConceptsWithMultipleNotes(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, titles)
}

func (s *Server) reportTasksWithOwner(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.db.TasksWithOwner(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) reportConceptSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.db.ConceptSummaries(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, summaries)
}
