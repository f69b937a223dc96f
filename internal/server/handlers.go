package server

import (
	"net/http"
	"time"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

const dateLayout = "2006-01-02"

type createUserRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Role string `json:"role" validate:"required,max=64"`
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	u, err := s.db.CreateUser(r.Context(), models.CreateUserInput{Name: req.Name, Role: req.Role})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, u)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.db.ListUsers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, users)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.DeleteUser(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "user deleted, their collaborations removed with them",
	})
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	c, err := s.db.CreateCategory(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, c)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.db.ListCategories(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, cats)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.DeleteCategory(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createNoteRequest struct {
	ConceptID int64  `json:"concept_id" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	n, err := s.db.CreateNote(r.Context(), models.CreateNoteInput{ConceptID: req.ConceptID, Body: req.Body})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, n)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	conceptID, err := queryID(r, "concept_id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	notes, err := s.db.ListNotes(r.Context(), conceptID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, notes)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.DeleteNote(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createTaskRequest struct {
	ConceptID   int64   `json:"concept_id" validate:"required"`
	Description string  `json:"description" validate:"required,max=256"`
	DueOn       string  `json:"due_on" validate:"required"`
	RemindOn    *string `json:"remind_on"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	dueOn, err := time.Parse(dateLayout, req.DueOn)
	if err != nil {
		s.respondError(w, r, apperr.Constraint("due_on must be YYYY-MM-DD").WithCause(err))
		return
	}
	var remindOn *time.Time
	if req.RemindOn != nil {
		t, err := time.Parse(dateLayout, *req.RemindOn)
		if err != nil {
			s.respondError(w, r, apperr.Constraint("remind_on must be YYYY-MM-DD").WithCause(err))
			return
		}
		remindOn = &t
	}
	task, err := s.db.CreateTask(r.Context(), models.CreateTaskInput{
		ConceptID:   req.ConceptID,
		Description: req.Description,
		DueOn:       dueOn,
		RemindOn:    remindOn,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, task)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	conceptID, err := queryID(r, "concept_id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	tasks, err := s.db.ListTasks(r.Context(), conceptID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, tasks)
}

type updateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" validate:"required"`
}

func (s *Server) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req updateTaskStatusRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.UpdateTaskStatus(r.Context(), id, req.Status); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"task_id": id, "status": req.Status})
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.MarkTaskCompleted(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "task marked completed, completion note recorded",
	})
}

func (s *Server) daysRemaining(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	days, err := s.db.DaysRemaining(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"task_id": id, "days_left": days})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.db.DeleteTask(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
