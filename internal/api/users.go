package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// UserFilter carries the query parameters GET /users/ accepts. Zero-value
// fields are not sent.
type UserFilter struct {
	Skip       int
	Limit      int
	Role       string
	Department string
	IsActive   *bool
}

func (f UserFilter) values() url.Values {
	v := url.Values{}
	if f.Skip > 0 {
		v.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Role != "" {
		v.Set("role", f.Role)
	}
	if f.Department != "" {
		v.Set("department", f.Department)
	}
	if f.IsActive != nil {
		v.Set("is_active", strconv.FormatBool(*f.IsActive))
	}
	return v
}

// CreateUser is the POST /users/ body. Server-assigned fields (id, timestamps)
// are absent.
type CreateUser struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	IsActive   bool   `json:"is_active"`
	IsAdmin    bool   `json:"is_admin"`
}

// UpdateUser is a partial update; nil fields are left untouched by the backend.
type UpdateUser struct {
	Username   *string `json:"username,omitempty"`
	Email      *string `json:"email,omitempty"`
	Name       *string `json:"name,omitempty"`
	Role       *string `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	IsAdmin    *bool   `json:"is_admin,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	var users []User
	if err := c.get(ctx, "/users/", filter.values(), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := c.get(ctx, "/users/"+itoa(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, in CreateUser) (*User, error) {
	var u User
	if err := c.post(ctx, "/users/", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in UpdateUser) (*User, error) {
	var u User
	if err := c.put(ctx, "/users/"+itoa(id), in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser is a soft delete; the backend deactivates the account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, "/users/"+itoa(id))
}

func (c *Client) ListUserTasks(ctx context.Context, userID int64) ([]Task, error) {
	var raw taskListEnvelope
	if err := c.get(ctx, fmt.Sprintf("/users/%d/tasks", userID), nil, &raw); err != nil {
		return nil, err
	}
	return raw.tasks, nil
}
