package api

import (
	"context"
	"net/url"
	"strconv"
)

type CreateNote struct {
	Text   string `json:"text"`
	UserID int64  `json:"user_id"`
}

func pageValues(page, pageSize int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
	return v
}

func (c *Client) ListNotes(ctx context.Context, page, pageSize int) (*NotesPage, error) {
	var np NotesPage
	if err := c.get(ctx, "/notes/", pageValues(page, pageSize), &np); err != nil {
		return nil, err
	}
	return &np, nil
}

func (c *Client) SearchNotes(ctx context.Context, query string, page, pageSize int) (*NotesPage, error) {
	params := pageValues(page, pageSize)
	params.Set("q", query)
	var np NotesPage
	if err := c.get(ctx, "/notes/search", params, &np); err != nil {
		return nil, err
	}
	return &np, nil
}

func (c *Client) GetNote(ctx context.Context, id int64) (*Note, error) {
	var n Note
	if err := c.get(ctx, "/notes/"+itoa(id), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) CreateNote(ctx context.Context, in CreateNote) (*Note, error) {
	var n Note
	if err := c.post(ctx, "/notes/", nil, in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.delete(ctx, "/notes/"+itoa(id))
}
