package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Endpoint paths of the coaching backend.
const (
	PathQuery    = "/query"
	PathFlag     = "/messages/flag"
	PathMessages = "/messages/get"
	PathShow     = "/messages/show"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	UserQuery string `json:"user_query"`
	EmailID   string `json:"email_id,omitempty"`
}

// FlagRequest is the body of POST /messages/flag.
type FlagRequest struct {
	MessageID  string `json:"message_id"`
	IsPhishing bool   `json:"is_phishing"`
}

// ShowRequest is the body of POST /messages/show.
type ShowRequest struct {
	EmailID string `json:"email_id"`
}

// CoachResponse is the body returned by /query and /messages/flag.
// Response is a pointer so a missing field is distinguishable from "".
type CoachResponse struct {
	Response *string `json:"response"`
}

// Batch is one poll result from GET /messages/get. Messages are left raw so
// the caller can skip malformed entries without failing the whole batch.
type Batch struct {
	Messages            []json.RawMessage `json:"messages"`
	GenerationCompleted bool              `json:"generation_completed"`
}

// Query sends a free-text question. emailID may be empty, in which case the
// field is omitted from the request.
func (c *Client) Query(ctx context.Context, text, emailID string) (string, error) {
	var cr CoachResponse
	if err := c.doJSON(ctx, http.MethodPost, PathQuery, QueryRequest{UserQuery: text, EmailID: emailID}, &cr); err != nil {
		return "", err
	}
	return cr.text(PathQuery)
}

// Flag reports the user's phishing decision for a message.
func (c *Client) Flag(ctx context.Context, messageID string, isPhishing bool) (string, error) {
	var cr CoachResponse
	if err := c.doJSON(ctx, http.MethodPost, PathFlag, FlagRequest{MessageID: messageID, IsPhishing: isPhishing}, &cr); err != nil {
		return "", err
	}
	return cr.text(PathFlag)
}

// Poll fetches the next batch of generated messages.
func (c *Client) Poll(ctx context.Context) (Batch, error) {
	var b Batch
	if err := c.doJSON(ctx, http.MethodGet, PathMessages, nil, &b); err != nil {
		return Batch{}, err
	}
	if b.Messages == nil {
		return Batch{}, fmt.Errorf("%w: %s response has no \"messages\" list", ErrInvalidResponse, PathMessages)
	}
	return b, nil
}

// ReportView tells the backend that an email is being viewed. The response
// body is ignored.
func (c *Client) ReportView(ctx context.Context, emailID string) error {
	return c.doJSON(ctx, http.MethodPost, PathShow, ShowRequest{EmailID: emailID}, nil)
}

func (cr CoachResponse) text(path string) (string, error) {
	if cr.Response == nil {
		return "", fmt.Errorf("%w: %s response has no \"response\" field", ErrInvalidResponse, path)
	}
	return *cr.Response, nil
}
