package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestDetectTasksEndpointSelection(t *testing.T) {
	cases := []struct {
		source     string
		wantPath   string
		wantSource string
	}{
		{SourceGeneral, "/detect/tasks", "general"},
		{SourceEmail, "/detect/email", "email"},
		{SourceWhatsApp, "/detect/whatsapp", "whatsapp"},
		{"carrier-pigeon", "/detect/tasks", "general"},
		{"", "/detect/tasks", "general"},
	}

	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			var gotPath string
			var gotBody detectRequest
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				json.NewDecoder(r.Body).Decode(&gotBody)
				jsonResponse(t, w, http.StatusOK, DetectResponse{})
			})

			if _, err := client.DetectTasks(context.Background(), "fix the login page", tc.source); err != nil {
				t.Fatalf("DetectTasks: %v", err)
			}
			if gotPath != tc.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tc.wantPath)
			}
			if gotBody.Source != tc.wantSource {
				t.Errorf("body source = %q, want %q", gotBody.Source, tc.wantSource)
			}
			if gotBody.Text != "fix the login page" {
				t.Errorf("body text = %q", gotBody.Text)
			}
		})
	}
}

func TestDetectTasksParsesSuggestions(t *testing.T) {
	deadline := "2026-09-05T12:00:00Z"
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusOK, DetectResponse{
			DetectedTasks: []DetectedTask{
				{Title: "Fix login", Priority: PriorityHigh, EstimatedDeadline: &deadline, Confidence: 0.92},
				{Title: "Update docs", Priority: PriorityLow, Confidence: 0.4},
			},
		})
	})

	resp, err := client.DetectTasks(context.Background(), "some text", SourceGeneral)
	if err != nil {
		t.Fatalf("DetectTasks: %v", err)
	}
	if len(resp.DetectedTasks) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(resp.DetectedTasks))
	}
	if resp.DetectedTasks[0].EstimatedDeadline == nil || *resp.DetectedTasks[0].EstimatedDeadline != deadline {
		t.Errorf("first suggestion deadline = %v", resp.DetectedTasks[0].EstimatedDeadline)
	}
	if resp.DetectedTasks[1].EstimatedDeadline != nil {
		t.Errorf("second suggestion deadline should be nil")
	}
}
