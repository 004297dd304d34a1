package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestListNotesPaginationParams(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		jsonResponse(t, w, http.StatusOK, NotesPage{Total: 23, Page: 2, PageSize: 10})
	})

	page, err := client.ListNotes(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if gotPath != "/notes/" {
		t.Errorf("path = %q, want /notes/", gotPath)
	}
	if gotQuery != "page=2&page_size=10" {
		t.Errorf("query = %q", gotQuery)
	}
	if page.Total != 23 {
		t.Errorf("Total = %d, want 23", page.Total)
	}
}

func TestSearchNotesSendsQuery(t *testing.T) {
	var gotPath string
	var gotQ string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQ = r.URL.Query().Get("q")
		jsonResponse(t, w, http.StatusOK, NotesPage{})
	})

	if _, err := client.SearchNotes(context.Background(), "groceries", 1, 10); err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	if gotPath != "/notes/search" || gotQ != "groceries" {
		t.Errorf("got %s?q=%s", gotPath, gotQ)
	}
}

func TestCreateNoteBody(t *testing.T) {
	var gotBody CreateNote
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		jsonResponse(t, w, http.StatusCreated, Note{ID: 1, Text: "buy milk"})
	})

	n, err := client.CreateNote(context.Background(), CreateNote{Text: "buy milk", UserID: 7})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if gotBody.Text != "buy milk" || gotBody.UserID != 7 {
		t.Errorf("body = %+v", gotBody)
	}
	if n.ID != 1 {
		t.Errorf("ID = %d", n.ID)
	}
}
