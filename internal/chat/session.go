// Package chat keeps the client-side state of one assistant conversation: the
// backend-issued thread id correlating turns, accumulated token usage, and the
// optimistic message list. Optimistic entries move through an explicit
// pending-local → confirmed | rolled-back transition so the compensating
// action on failure is auditable.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmvargas/taskdeck/internal/api"
)

type MessageState int

const (
	// PendingLocal entries exist only in memory, keyed by a client-generated
	// local id, awaiting server confirmation.
	PendingLocal MessageState = iota
	Confirmed
	RolledBack
)

// Entry is one message in the session. LocalID is set for client-created
// entries; once confirmed, the server-issued Message.ID is authoritative.
type Entry struct {
	LocalID string
	State   MessageState
	Message api.Message
}

// Session is safe for concurrent use: SendMessage and Turn run in command
// goroutines while the render loop reads Messages, ThreadID and Usage.
type Session struct {
	client *api.Client

	UserID int64
	Model  string

	mu             sync.Mutex
	conversationID int64
	threadID       string
	entries        []Entry
	inputTokens    int64
	outputTokens   int64
	thoughtTokens  int64
}

func NewSession(client *api.Client, userID int64, model string) *Session {
	return &Session{client: client, UserID: userID, Model: model}
}

// ThreadID is empty until the backend issues one on the first turn.
func (s *Session) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// ConversationID is zero until the backend binds the session to a stored
// conversation.
func (s *Session) ConversationID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Usage reports the accumulated input, output and thought token counts.
func (s *Session) Usage() (in, out, thought int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputTokens, s.outputTokens, s.thoughtTokens
}

// Messages returns a copy of the visible message list: everything except
// rolled-back entries.
func (s *Session) Messages() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.State == RolledBack {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Load replaces the session history with server truth, e.g. when opening an
// existing conversation.
func (s *Session) Load(conversationID int64, msgs []api.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = conversationID
	s.entries = make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		s.entries = append(s.entries, Entry{State: Confirmed, Message: m})
	}
}

// appendPending adds an optimistic user message and returns its local id.
func (s *Session) appendPending(conversationID int64, content string, tokens int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	localID := uuid.NewString()
	s.entries = append(s.entries, Entry{
		LocalID: localID,
		State:   PendingLocal,
		Message: api.Message{
			ConversationID: conversationID,
			Content:        content,
			IsUserMessage:  true,
			InputTokens:    tokens,
			CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		},
	})
	return localID
}

// rollback removes the pending entry, restoring the pre-send list exactly.
func (s *Session) rollback(localID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].LocalID == localID {
			s.entries[i].State = RolledBack
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// SendMessage appends content to a stored conversation. The message shows up
// immediately as pending-local and is reconciled to the server-issued id on
// success or removed on failure.
func (s *Session) SendMessage(ctx context.Context, conversationID int64, content string) (*api.Message, error) {
	tokens := int64(len(strings.Fields(content)))
	localID := s.appendPending(conversationID, content, tokens)

	m, err := s.client.AddMessage(ctx, conversationID, api.NewMessage{
		Content:       content,
		IsUserMessage: true,
		InputTokens:   tokens,
	})
	if err != nil {
		s.rollback(localID)
		return nil, err
	}

	// Swap the pending entry for the server-issued message. Exactly one copy
	// remains, under the server id.
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].LocalID == localID {
			s.entries[i].State = Confirmed
			s.entries[i].Message = *m
			break
		}
	}
	return m, nil
}

// Turn runs one assistant exchange through the chat endpoint. The first turn
// omits the thread id; later turns carry the one the backend issued. On
// success the assistant reply is appended and token counters accumulate; on
// failure the optimistic user entry is rolled back.
func (s *Session) Turn(ctx context.Context, content string) (*api.ChatResponse, error) {
	s.mu.Lock()
	conversationID := s.conversationID
	threadID := s.threadID
	s.mu.Unlock()

	tokens := int64(len(strings.Fields(content)))
	localID := s.appendPending(conversationID, content, tokens)

	resp, err := s.client.Chat(ctx, api.ChatRequest{
		UserID:   s.UserID,
		Message:  content,
		ThreadID: threadID,
		Model:    s.Model,
	})
	if err != nil {
		s.rollback(localID)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.threadID = resp.ThreadID
	s.conversationID = resp.ConversationID
	s.inputTokens += resp.InputTokens
	s.outputTokens += resp.OutputTokens
	s.thoughtTokens += resp.ThoughtTokens

	// The chat endpoint does not echo a message id for the user turn; the
	// entry is confirmed as-is and reconciled on the next history load.
	for i := range s.entries {
		if s.entries[i].LocalID == localID {
			s.entries[i].State = Confirmed
			s.entries[i].Message.ConversationID = resp.ConversationID
			break
		}
	}

	s.entries = append(s.entries, Entry{
		State: Confirmed,
		Message: api.Message{
			ConversationID: resp.ConversationID,
			Content:        resp.Reply,
			OutputTokens:   resp.OutputTokens,
			CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		},
	})

	return resp, nil
}
