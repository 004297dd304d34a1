package api

import (
	"context"
	"net/url"
	"strconv"
)

type EvaluationFilter struct {
	Skip   int
	Limit  int
	UserID int64
	Rating string
}

func (f EvaluationFilter) values() url.Values {
	v := url.Values{}
	if f.Skip > 0 {
		v.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.UserID > 0 {
		v.Set("user_id", itoa(f.UserID))
	}
	if f.Rating != "" {
		v.Set("rating", f.Rating)
	}
	return v
}

type CreateEvaluation struct {
	UserID                     int64   `json:"user_id"`
	TasksCompletedTotal        int64   `json:"tasks_completed_total"`
	TasksCompletedOnTime       int64   `json:"tasks_completed_on_time"`
	AverageTaskCompletionTime  float64 `json:"average_task_completion_time"`
	TaskPriorityCompletionRate float64 `json:"task_priority_completion_rate"`
	OverallRating              string  `json:"overall_rating"`
}

type UpdateEvaluation struct {
	TasksCompletedTotal        *int64   `json:"tasks_completed_total,omitempty"`
	TasksCompletedOnTime       *int64   `json:"tasks_completed_on_time,omitempty"`
	AverageTaskCompletionTime  *float64 `json:"average_task_completion_time,omitempty"`
	TaskPriorityCompletionRate *float64 `json:"task_priority_completion_rate,omitempty"`
	OverallRating              *string  `json:"overall_rating,omitempty"`
}

// Note the missing trailing slash: the evaluations collection is one of the
// endpoints the backend serves without it.
func (c *Client) ListEvaluations(ctx context.Context, filter EvaluationFilter) ([]PerformanceEvaluation, error) {
	var evals []PerformanceEvaluation
	if err := c.get(ctx, "/performance/evaluations", filter.values(), &evals); err != nil {
		return nil, err
	}
	return evals, nil
}

func (c *Client) CreateEvaluation(ctx context.Context, in CreateEvaluation) (*PerformanceEvaluation, error) {
	var e PerformanceEvaluation
	if err := c.post(ctx, "/performance/evaluations", nil, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) GetEvaluation(ctx context.Context, id int64) (*PerformanceEvaluation, error) {
	var e PerformanceEvaluation
	if err := c.get(ctx, "/performance/evaluations/"+itoa(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) UpdateEvaluation(ctx context.Context, id int64, in UpdateEvaluation) (*PerformanceEvaluation, error) {
	var e PerformanceEvaluation
	if err := c.put(ctx, "/performance/evaluations/"+itoa(id), in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteEvaluation(ctx context.Context, id int64) error {
	return c.delete(ctx, "/performance/evaluations/"+itoa(id))
}

func (c *Client) GetUserPerformanceSummary(ctx context.Context, userID int64) (*UserPerformanceSummary, error) {
	var s UserPerformanceSummary
	if err := c.get(ctx, "/performance/users/"+itoa(userID)+"/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) GetTeamPerformanceSummary(ctx context.Context) (*TeamPerformanceSummary, error) {
	var s TeamPerformanceSummary
	if err := c.get(ctx, "/performance/team/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
