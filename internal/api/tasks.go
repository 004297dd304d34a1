package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// TaskFilter carries the query parameters GET /tasks/ accepts.
type TaskFilter struct {
	Skip       int
	Limit      int
	Status     string
	Priority   string
	AssignedTo int64
	CreatedBy  int64
}

func (f TaskFilter) values() url.Values {
	v := url.Values{}
	if f.Skip > 0 {
		v.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Priority != "" {
		v.Set("priority", f.Priority)
	}
	if f.AssignedTo > 0 {
		v.Set("assigned_to", itoa(f.AssignedTo))
	}
	if f.CreatedBy > 0 {
		v.Set("created_by", itoa(f.CreatedBy))
	}
	return v
}

type CreateTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssignedTo  int64  `json:"assigned_to"`
	Deadline    string `json:"deadline"`
}

type UpdateTask struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssignedTo  *int64  `json:"assigned_to,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}

// taskListEnvelope absorbs the backend's two list shapes, a bare array or
// `{"tasks": [...]}`, so callers only ever see []Task. Which backend version
// produces which shape is undocumented; both are accepted on purpose.
type taskListEnvelope struct {
	tasks []Task
}

func (e *taskListEnvelope) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &e.tasks)
	}
	var wrapped struct {
		Tasks []Task `json:"tasks"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	e.tasks = wrapped.Tasks
	return nil
}

func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	var raw taskListEnvelope
	if err := c.get(ctx, "/tasks/", filter.values(), &raw); err != nil {
		return nil, err
	}
	return raw.tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*Task, error) {
	var t Task
	if err := c.get(ctx, "/tasks/"+itoa(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask posts the task body; the creator travels as the
// created_by_user_id query parameter, not in the body.
func (c *Client) CreateTask(ctx context.Context, in CreateTask, createdBy int64) (*Task, error) {
	params := url.Values{}
	params.Set("created_by_user_id", itoa(createdBy))
	var t Task
	if err := c.post(ctx, "/tasks/", params, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in UpdateTask) (*Task, error) {
	var t Task
	if err := c.put(ctx, "/tasks/"+itoa(id), in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.delete(ctx, "/tasks/"+itoa(id))
}

func (c *Client) ListAssignedTasks(ctx context.Context, userID int64) ([]Task, error) {
	var raw taskListEnvelope
	if err := c.get(ctx, fmt.Sprintf("/tasks/assigned/%d", userID), nil, &raw); err != nil {
		return nil, err
	}
	return raw.tasks, nil
}

func (c *Client) ListCreatedTasks(ctx context.Context, userID int64) ([]Task, error) {
	var raw taskListEnvelope
	if err := c.get(ctx, fmt.Sprintf("/tasks/created/%d", userID), nil, &raw); err != nil {
		return nil, err
	}
	return raw.tasks, nil
}

// ListSimilarTasks returns the backend's top-K most similar tasks. limit <= 0
// leaves the cutoff to the backend.
func (c *Client) ListSimilarTasks(ctx context.Context, taskID int64, limit int) ([]Task, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var raw taskListEnvelope
	if err := c.get(ctx, fmt.Sprintf("/tasks/%d/similar", taskID), params, &raw); err != nil {
		return nil, err
	}
	return raw.tasks, nil
}

type semanticSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func (c *Client) SearchTasks(ctx context.Context, query string, limit int) ([]Task, error) {
	var raw taskListEnvelope
	if err := c.post(ctx, "/tasks/search/semantic", nil, semanticSearchRequest{Query: query, Limit: limit}, &raw); err != nil {
		return nil, err
	}
	return raw.tasks, nil
}
