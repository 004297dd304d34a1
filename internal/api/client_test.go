package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestClient wires a client against an httptest server that records the
// last request and answers with the given status and body.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, nil), server
}

func jsonResponse(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}
}

func TestClientSetsJSONContentType(t *testing.T) {
	var gotContentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		jsonResponse(t, w, http.StatusOK, []User{})
	})

	if _, err := client.ListUsers(context.Background(), UserFilter{}); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
}

func TestClientErrorExtractsDetail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusNotFound, map[string]string{"detail": "User not found"})
	})

	_, err := client.GetUser(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Detail != "User not found" {
		t.Errorf("Detail = %q, want %q", apiErr.Detail, "User not found")
	}
}

func TestClientErrorKeepsRawBodyWithoutDetail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	})

	_, err := client.GetUser(context.Background(), 1)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Detail != "upstream exploded" {
		t.Errorf("Detail = %q, want raw body", apiErr.Detail)
	}
}

func TestClientReportsTruncatedResponseBody(t *testing.T) {
	// Declaring a larger Content-Length than gets written makes the server
	// drop the connection mid-body, the same shape as a network failure
	// during the read.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", "500")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": 1, "name": "trun`))
	})

	_, err := client.GetUser(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for truncated body")
	}
	if !strings.Contains(err.Error(), "read response") {
		t.Errorf("error = %v, want a body read failure, not a decode error", err)
	}
}

func TestClientTimeoutConfigured(t *testing.T) {
	client := NewClient("http://localhost:1", nil)
	if client.HTTP.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.HTTP.Timeout, DefaultTimeout)
	}
}

func TestClientTrimsTrailingSlashFromBaseURL(t *testing.T) {
	client := NewClient("http://localhost:8000/api/v1/", nil)
	if client.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("BaseURL = %q", client.BaseURL)
	}
}
