package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tasktrack-io/tasktrack/internal/auth"
	"github.com/tasktrack-io/tasktrack/internal/httputil"
	"github.com/tasktrack-io/tasktrack/internal/logging"
)

// Handler contains HTTP handlers for task endpoints. All routes run
// behind auth.Middleware.RequireAuth, so a verified caller id is always
// present in the request context.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateRequest represents the task creation request body
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Create handles POST /tasks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create task request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Description == "" {
		httputil.RespondErrorWithCode(w, "title and description are required", httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), callerID, req.Title, req.Description, req.Completed)
	if err != nil {
		logger.Error("failed to create task", "error", err.Error())
		httputil.RespondErrorWithCode(w, "unable to create task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, created, http.StatusCreated)
}

// List handles GET /tasks, returning the caller's tasks only
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	tasks, err := h.repo.ListByUser(r.Context(), callerID)
	if err != nil {
		logger.Error("failed to list tasks", "error", err.Error())
		httputil.RespondErrorWithCode(w, "unable to fetch tasks", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	if tasks == nil {
		tasks = []Task{}
	}
	httputil.RespondJSON(w, tasks, http.StatusOK)
}

// Get handles GET /tasks/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	t, err := h.fetchOwned(w, r, logger, callerID, id)
	if err != nil {
		return
	}

	httputil.RespondJSON(w, t, http.StatusOK)
}

// Update handles PUT /tasks/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if _, err := h.fetchOwned(w, r, logger, callerID, id); err != nil {
		return
	}

	var upd Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		logger.Warn("invalid update task request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "task not found", httputil.CodeTaskNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update task", "error", err.Error())
		httputil.RespondErrorWithCode(w, "unable to update task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles DELETE /tasks/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if _, err := h.fetchOwned(w, r, logger, callerID, id); err != nil {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "task not found", httputil.CodeTaskNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete task", "error", err.Error())
		httputil.RespondErrorWithCode(w, "unable to delete task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "Task deleted"}, http.StatusOK)
}

// fetchOwned loads a task and hides other users' tasks behind 404 so ids
// cannot be probed across accounts. Writes the error response itself.
func (h *Handler) fetchOwned(w http.ResponseWriter, r *http.Request, logger *logging.Logger, callerID, id uuid.UUID) (*Task, error) {
	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "task not found", httputil.CodeTaskNotFound, http.StatusNotFound)
			return nil, err
		}
		logger.Error("failed to fetch task", "error", err.Error())
		httputil.RespondErrorWithCode(w, "unable to fetch task", httputil.CodeInternalError, http.StatusInternalServerError)
		return nil, err
	}

	if t.UserID != callerID {
		httputil.RespondErrorWithCode(w, "task not found", httputil.CodeTaskNotFound, http.StatusNotFound)
		return nil, ErrNotFound
	}

	return t, nil
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid task id", httputil.CodeValidationFailed, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
