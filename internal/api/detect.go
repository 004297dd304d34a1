package api

import "context"

// Detection sources. The source both selects the endpoint and travels in the
// request body, matching the backend contract.
const (
	SourceGeneral  = "general"
	SourceEmail    = "email"
	SourceWhatsApp = "whatsapp"
)

type detectRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// DetectTasks runs task detection over free text. Unknown sources fall back to
// the general endpoint.
func (c *Client) DetectTasks(ctx context.Context, text, source string) (*DetectResponse, error) {
	path := "/detect/tasks"
	switch source {
	case SourceEmail:
		path = "/detect/email"
	case SourceWhatsApp:
		path = "/detect/whatsapp"
	default:
		source = SourceGeneral
	}

	var resp DetectResponse
	if err := c.post(ctx, path, nil, detectRequest{Text: text, Source: source}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
