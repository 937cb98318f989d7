package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ulugbekov/vazifabot/internal/models"
	"github.com/ulugbekov/vazifabot/internal/service"
)

// Server provides the HTTP surface: health, metrics and a small task API
// mirroring the bot's command surface.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	mux    *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("GET /api/tasks", s.handleGetTasks)
	s.mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	s.mux.HandleFunc("PUT /api/tasks/{id}/complete", s.handleCompleteTask)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst and returns an error message
// on failure. The caller should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// requireUser resolves the telegram_id query parameter to a user record.
// It writes an error response and returns nil when the parameter is
// absent or unknown.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *models.User {
	telegramID := r.URL.Query().Get("telegram_id")
	if telegramID == "" {
		s.respondError(w, http.StatusBadRequest, "telegram_id query parameter is required")
		return nil
	}
	user, err := s.svc.Users.GetByTelegramID(r.Context(), telegramID)
	if err != nil {
		s.logger.WithError(err).Error("failed to look up user")
		s.respondError(w, http.StatusInternalServerError, "failed to look up user")
		return nil
	}
	if user == nil {
		s.respondError(w, http.StatusNotFound, "user not found")
		return nil
	}
	return user
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"scanner": s.svc.ScannerStats(),
	})
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

type createTaskRequest struct {
	TelegramID string `json:"telegram_id"`
	Name       string `json:"name"`
	DueAt      string `json:"due_at"` // RFC 3339, optional
	Priority   string `json:"priority"`
}

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	tasks, err := s.svc.Tasks.GetByOwner(r.Context(), user.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to get tasks")
		s.respondError(w, http.StatusInternalServerError, "failed to get tasks")
		return
	}

	s.respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.TelegramID == "" {
		s.respondError(w, http.StatusBadRequest, "telegram_id is required")
		return
	}

	dueAt := time.Now()
	if req.DueAt != "" {
		t, err := time.Parse(time.RFC3339, req.DueAt)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "due_at must be RFC 3339 format")
			return
		}
		dueAt = t
	}

	priority := models.TaskPriorityLow
	if req.Priority != "" {
		priority = models.TaskPriority(req.Priority)
		switch priority {
		case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		default:
			s.respondError(w, http.StatusBadRequest, "priority must be LOW, MEDIUM or HIGH")
			return
		}
	}

	user, err := s.svc.EnsureUser(r.Context(), req.TelegramID)
	if err != nil {
		s.logger.WithError(err).Error("failed to ensure user")
		s.respondError(w, http.StatusInternalServerError, "failed to ensure user")
		return
	}

	task, _, err := s.svc.CreateTask(r.Context(), user.ID, strings.TrimSpace(req.Name), dueAt, priority)
	if err != nil {
		s.logger.WithError(err).Error("failed to create task")
		s.respondError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	s.respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := s.svc.CompleteTask(r.Context(), id)
	switch {
	case err == service.ErrTaskNotFound:
		s.respondError(w, http.StatusNotFound, "task not found")
		return
	case err == service.ErrTaskAlreadyCompleted:
		s.respondJSON(w, http.StatusOK, task)
		return
	case err != nil:
		s.logger.WithError(err).Error("failed to complete task")
		s.respondError(w, http.StatusInternalServerError, "failed to complete task")
		return
	}

	s.respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if _, err := s.svc.DeleteTask(r.Context(), id); err != nil {
		if err == service.ErrTaskNotFound {
			s.respondError(w, http.StatusNotFound, "task not found")
			return
		}
		s.logger.WithError(err).Error("failed to delete task")
		s.respondError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}
