package api

import (
	"context"
	"net/http"
	"testing"
)

func TestListUsersPathAndParams(t *testing.T) {
	var gotPath, gotQuery string
	active := true
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		jsonResponse(t, w, http.StatusOK, []User{{ID: 1, Username: "ana"}})
	})

	users, err := client.ListUsers(context.Background(), UserFilter{
		Skip: 10, Limit: 50, Role: "developer", IsActive: &active,
	})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if gotPath != "/users/" {
		t.Errorf("path = %q, want /users/ (trailing slash)", gotPath)
	}
	want := "is_active=true&limit=50&role=developer&skip=10"
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if len(users) != 1 || users[0].Username != "ana" {
		t.Errorf("users = %+v", users)
	}
}

func TestGetUserPathHasNoTrailingSlash(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		jsonResponse(t, w, http.StatusOK, User{ID: 7})
	})

	if _, err := client.GetUser(context.Background(), 7); err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if gotPath != "/users/7" {
		t.Errorf("path = %q, want /users/7", gotPath)
	}
}

func TestCreateUserPostsToCollection(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		jsonResponse(t, w, http.StatusCreated, User{ID: 3, Username: "bo"})
	})

	u, err := client.CreateUser(context.Background(), CreateUser{Username: "bo", Email: "bo@x.io"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/users/" {
		t.Errorf("%s %s, want POST /users/", gotMethod, gotPath)
	}
	if u.ID != 3 {
		t.Errorf("ID = %d, want 3", u.ID)
	}
}

func TestDeleteUserIssuesDelete(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteUser(context.Background(), 9); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/users/9" {
		t.Errorf("%s %s, want DELETE /users/9", gotMethod, gotPath)
	}
}

func TestListUserTasksAcceptsBothShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare array": `[{"id":1,"title":"a"}]`,
		"wrapped":    `{"tasks":[{"id":1,"title":"a"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/users/5/tasks" {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.Write([]byte(body))
			})

			tasks, err := client.ListUserTasks(context.Background(), 5)
			if err != nil {
				t.Fatalf("ListUserTasks: %v", err)
			}
			if len(tasks) != 1 || tasks[0].Title != "a" {
				t.Errorf("tasks = %+v", tasks)
			}
		})
	}
}
