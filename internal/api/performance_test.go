package api

import (
	"context"
	"net/http"
	"testing"
)

func TestListEvaluationsPathHasNoTrailingSlash(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		jsonResponse(t, w, http.StatusOK, []PerformanceEvaluation{})
	})

	if _, err := client.ListEvaluations(context.Background(), EvaluationFilter{}); err != nil {
		t.Fatalf("ListEvaluations: %v", err)
	}
	if gotPath != "/performance/evaluations" {
		t.Errorf("path = %q, want /performance/evaluations", gotPath)
	}
}

func TestPerformanceSummaryPaths(t *testing.T) {
	var gotPaths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		w.Write([]byte(`{}`))
	})

	ctx := context.Background()
	if _, err := client.GetUserPerformanceSummary(ctx, 3); err != nil {
		t.Fatalf("GetUserPerformanceSummary: %v", err)
	}
	if _, err := client.GetTeamPerformanceSummary(ctx); err != nil {
		t.Fatalf("GetTeamPerformanceSummary: %v", err)
	}

	want := []string{"/performance/users/3/summary", "/performance/team/summary"}
	for i, p := range want {
		if gotPaths[i] != p {
			t.Errorf("path[%d] = %q, want %q", i, gotPaths[i], p)
		}
	}
}

func TestAnalyticsPaths(t *testing.T) {
	var gotPaths []string
	var gotPeriod string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		if p := r.URL.Query().Get("period"); p != "" {
			gotPeriod = p
		}
		w.Write([]byte(`[]`))
	})

	ctx := context.Background()
	if _, err := client.GetAnalyticsPatterns(ctx); err != nil {
		t.Fatalf("GetAnalyticsPatterns: %v", err)
	}
	if _, err := client.GetAnalyticsTrends(ctx, "month"); err != nil {
		t.Fatalf("GetAnalyticsTrends: %v", err)
	}

	want := []string{"/analytics/patterns", "/analytics/trends"}
	for i, p := range want {
		if gotPaths[i] != p {
			t.Errorf("path[%d] = %q, want %q", i, gotPaths[i], p)
		}
	}
	if gotPeriod != "month" {
		t.Errorf("period = %q, want month", gotPeriod)
	}
}
