package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestCreateConversationSendsUserAsQueryParam(t *testing.T) {
	var gotUserID string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/" {
			t.Errorf("path = %q, want /conversations/", r.URL.Path)
		}
		gotUserID = r.URL.Query().Get("user_id")
		json.NewDecoder(r.Body).Decode(&gotBody)
		jsonResponse(t, w, http.StatusCreated, Conversation{ID: 5, Title: "standup"})
	})

	conv, err := client.CreateConversation(context.Background(), 2, "standup")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if gotUserID != "2" {
		t.Errorf("user_id = %q, want 2", gotUserID)
	}
	if len(gotBody) != 1 || gotBody["title"] != "standup" {
		t.Errorf("body = %v, want only title", gotBody)
	}
	if conv.ID != 5 {
		t.Errorf("ID = %d, want 5", conv.ID)
	}
}

func TestListMessagesAcceptsBothShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare array": `[{"id":1,"content":"hi","is_user_message":true}]`,
		"wrapped":    `{"messages":[{"id":1,"content":"hi","is_user_message":true}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/conversations/4/messages" {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.Write([]byte(body))
			})

			msgs, err := client.ListMessages(context.Background(), 4, 0, 0)
			if err != nil {
				t.Fatalf("ListMessages: %v", err)
			}
			if len(msgs) != 1 || msgs[0].Content != "hi" || !msgs[0].IsUserMessage {
				t.Errorf("msgs = %+v", msgs)
			}
		})
	}
}

func TestChatOmitsEmptyThreadID(t *testing.T) {
	var raw map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/chat" {
			t.Errorf("path = %q, want /conversations/chat", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&raw)
		jsonResponse(t, w, http.StatusOK, ChatResponse{Reply: "hello", ThreadID: "t-1"})
	})

	resp, err := client.Chat(context.Background(), ChatRequest{UserID: 1, Message: "hi"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if _, present := raw["thread_id"]; present {
		t.Error("thread_id sent on first turn, should be omitted")
	}
	if resp.ThreadID != "t-1" {
		t.Errorf("ThreadID = %q", resp.ThreadID)
	}
}

func TestChatCarriesThreadID(t *testing.T) {
	var raw map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		jsonResponse(t, w, http.StatusOK, ChatResponse{Reply: "again", ThreadID: "t-1"})
	})

	if _, err := client.Chat(context.Background(), ChatRequest{UserID: 1, Message: "more", ThreadID: "t-1"}); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if raw["thread_id"] != "t-1" {
		t.Errorf("thread_id = %v, want t-1", raw["thread_id"])
	}
}

func TestAddMessagePostsToConversation(t *testing.T) {
	var gotPath string
	var gotBody NewMessage
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		jsonResponse(t, w, http.StatusCreated, Message{ID: 31, Content: "note"})
	})

	m, err := client.AddMessage(context.Background(), 12, NewMessage{Content: "note", IsUserMessage: true})
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if gotPath != "/conversations/12/messages" {
		t.Errorf("path = %q", gotPath)
	}
	if !gotBody.IsUserMessage {
		t.Error("is_user_message not set")
	}
	if m.ID != 31 {
		t.Errorf("ID = %d, want 31", m.ID)
	}
}
