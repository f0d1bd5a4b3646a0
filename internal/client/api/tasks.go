package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tasktrack-io/tasktrack/internal/task"
)

// CreateTask creates a task owned by the authenticated user
func (c *Client) CreateTask(ctx context.Context, title, description string, completed bool) (*task.Task, error) {
	body := map[string]any{
		"title":       title,
		"description": description,
		"completed":   completed,
	}

	var out task.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTasks fetches the authenticated user's tasks
func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	var out []task.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTask fetches a single task by id
func (c *Client) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var out task.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask applies a partial update to a task
func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, upd task.Update) (*task.Task, error) {
	var out task.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id.String(), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task
func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id.String(), nil, nil)
}
