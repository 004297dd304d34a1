package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

type ConversationFilter struct {
	Skip   int
	Limit  int
	UserID int64
}

func (f ConversationFilter) values() url.Values {
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
	return v
}

// messageListEnvelope mirrors taskListEnvelope: the messages endpoint answers
// with either a bare array or `{"messages": [...]}`.
type messageListEnvelope struct {
	messages []Message
}

func (e *messageListEnvelope) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &e.messages)
	}
	var wrapped struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	e.messages = wrapped.Messages
	return nil
}

func (c *Client) ListConversations(ctx context.Context, filter ConversationFilter) ([]Conversation, error) {
	var convs []Conversation
	if err := c.get(ctx, "/conversations/", filter.values(), &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// CreateConversation sends the owner as a query parameter; the body only
// carries the title.
func (c *Client) CreateConversation(ctx context.Context, userID int64, title string) (*Conversation, error) {
	params := url.Values{}
	params.Set("user_id", itoa(userID))
	body := struct {
		Title string `json:"title"`
	}{Title: title}
	var conv Conversation
	if err := c.post(ctx, "/conversations/", params, body, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *Client) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	var conv Conversation
	if err := c.get(ctx, "/conversations/"+itoa(id), nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *Client) ListMessages(ctx context.Context, conversationID int64, skip, limit int) ([]Message, error) {
	params := url.Values{}
	if skip > 0 {
		params.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var raw messageListEnvelope
	if err := c.get(ctx, fmt.Sprintf("/conversations/%d/messages", conversationID), params, &raw); err != nil {
		return nil, err
	}
	return raw.messages, nil
}

// NewMessage is the POST body for appending a message to a conversation.
type NewMessage struct {
	Content       string `json:"content"`
	IsUserMessage bool   `json:"is_user_message"`
	InputTokens   int64  `json:"input_tokens"`
	OutputTokens  int64  `json:"output_tokens"`
}

func (c *Client) AddMessage(ctx context.Context, conversationID int64, in NewMessage) (*Message, error) {
	var m Message
	if err := c.post(ctx, fmt.Sprintf("/conversations/%d/messages", conversationID), nil, in, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Chat runs one assistant turn. The request's ThreadID must be empty on the
// first turn and the value from the previous response afterwards.
func (c *Client) Chat(ctx context.Context, in ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/conversations/chat", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
