package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestListTasksUsesTrailingSlash(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		jsonResponse(t, w, http.StatusOK, []Task{})
	})

	if _, err := client.ListTasks(context.Background(), TaskFilter{}); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if gotPath != "/tasks/" {
		t.Errorf("path = %q, want /tasks/", gotPath)
	}
}

func TestCreateTaskSendsCreatorAsQueryParam(t *testing.T) {
	var gotCreator string
	var gotBody CreateTask
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotCreator = r.URL.Query().Get("created_by_user_id")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		jsonResponse(t, w, http.StatusCreated, Task{ID: 11, Title: "ship it"})
	})

	in := CreateTask{Title: "ship it", Priority: PriorityHigh, AssignedTo: 2, Deadline: "2026-09-10T00:00:00Z"}
	task, err := client.CreateTask(context.Background(), in, 4)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if gotCreator != "4" {
		t.Errorf("created_by_user_id = %q, want 4", gotCreator)
	}
	if gotBody.Title != "ship it" || gotBody.Priority != PriorityHigh {
		t.Errorf("body = %+v", gotBody)
	}
	if task.ID != 11 {
		t.Errorf("ID = %d, want 11", task.ID)
	}
}

func TestUpdateTaskOmitsNilFields(t *testing.T) {
	var raw map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/tasks/8" {
			t.Errorf("%s %s, want PUT /tasks/8", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		jsonResponse(t, w, http.StatusOK, Task{ID: 8})
	})

	status := StatusCompleted
	if _, err := client.UpdateTask(context.Background(), 8, UpdateTask{Status: &status}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if len(raw) != 1 || raw["status"] != StatusCompleted {
		t.Errorf("body = %v, want only status", raw)
	}
}

func TestListSimilarTasksPathAndLimit(t *testing.T) {
	var gotPath, gotLimit string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"tasks":[]}`))
	})

	if _, err := client.ListSimilarTasks(context.Background(), 3, 5); err != nil {
		t.Fatalf("ListSimilarTasks: %v", err)
	}
	if gotPath != "/tasks/3/similar" || gotLimit != "5" {
		t.Errorf("got %s?limit=%s", gotPath, gotLimit)
	}
}

func TestSearchTasksPostsQuery(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`[{"id":2,"title":"deploy"}]`))
	})

	tasks, err := client.SearchTasks(context.Background(), "deployment work", 20)
	if err != nil {
		t.Fatalf("SearchTasks: %v", err)
	}
	if gotPath != "/tasks/search/semantic" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["query"] != "deployment work" {
		t.Errorf("body = %v", gotBody)
	}
	if len(tasks) != 1 || tasks[0].Title != "deploy" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestAssignedAndCreatedPaths(t *testing.T) {
	var gotPaths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		w.Write([]byte(`[]`))
	})

	ctx := context.Background()
	if _, err := client.ListAssignedTasks(ctx, 6); err != nil {
		t.Fatalf("ListAssignedTasks: %v", err)
	}
	if _, err := client.ListCreatedTasks(ctx, 6); err != nil {
		t.Fatalf("ListCreatedTasks: %v", err)
	}

	want := []string{"/tasks/assigned/6", "/tasks/created/6"}
	for i, p := range want {
		if gotPaths[i] != p {
			t.Errorf("path[%d] = %q, want %q", i, gotPaths[i], p)
		}
	}
}
