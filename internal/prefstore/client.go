package prefstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
	"github.com/rs/xid"
)

// SaveRequest is the body of POST /preferences and POST /preferences/submit.
// Revision is a client-generated id for log correlation; the store itself is
// last-write-wins.
type SaveRequest struct {
	Fields   Draft  `json:"fields"`
	Revision string `json:"revision"`
}

// DraftResponse is the body of GET /preferences and successful saves: the
// saved representation echoing server-side normalized values.
type DraftResponse struct {
	Fields    Draft  `json:"fields"`
	Revision  string `json:"revision,omitempty"`
	Submitted bool   `json:"submitted"`
}

// errorResponse is the 422 body: field-name-keyed validation errors.
type errorResponse struct {
	Errors map[string]string `json:"errors"`
}

// Client talks to the preference store API. It implements wizard.Persister.
type Client struct {
	baseURL string
	token   string
	user    string
	schema  *schema.Schema
	httpc   *http.Client
}

// NewClient creates a preference store client. A zero timeout defaults to 15s
// so a dead store can never leave the wizard in Saving indefinitely.
func NewClient(baseURL, token string, s *schema.Schema, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		schema:  s,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SetUser sets the draft owner sent as X-Tada-User. Local development stores
// key drafts per user; the production API derives the user from the token and
// ignores the header.
func (c *Client) SetUser(user string) { c.user = user }

// Load fetches the current draft. A 404 maps to wizard.ErrDraftNotFound so
// the controller starts fresh; a 401 maps to wizard.ErrUnauthorized.
func (c *Client) Load(ctx context.Context) (map[string]wizard.Value, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/preferences", nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching draft: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body DraftResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decoding draft: %w", err)
		}
		logger.Debug("Loaded draft with %d fields (submitted=%v)", len(body.Fields), body.Submitted)
		return DecodeDraft(c.schema, body.Fields)
	case http.StatusNotFound:
		return nil, wizard.ErrDraftNotFound
	case http.StatusUnauthorized:
		return nil, wizard.ErrUnauthorized
	default:
		return nil, fmt.Errorf("preference store returned %s", resp.Status)
	}
}

// Save upserts the full snapshot as a draft, last-write-wins.
func (c *Client) Save(ctx context.Context, fields map[string]wizard.Value) (*wizard.ServerResult, error) {
	return c.post(ctx, "/preferences", fields)
}

// Submit persists the snapshot with terminal intent, triggering downstream
// matching. The transport is identical to Save.
func (c *Client) Submit(ctx context.Context, fields map[string]wizard.Value) (*wizard.ServerResult, error) {
	return c.post(ctx, "/preferences/submit", fields)
}

func (c *Client) post(ctx context.Context, path string, fields map[string]wizard.Value) (*wizard.ServerResult, error) {
	draft, err := EncodeDraft(c.schema, fields)
	if err != nil {
		return nil, err
	}

	rev := xid.New().String()
	payload, err := json.Marshal(SaveRequest{Fields: draft, Revision: rev})
	if err != nil {
		return nil, fmt.Errorf("marshaling draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	logger.Debug("POST %s rev=%s (%d fields)", path, rev, len(draft))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("saving draft: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Drain so the connection can be reused; the controller keeps the
		// user's local values rather than rehydrating the echo.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &wizard.ServerResult{}, nil

	case http.StatusUnprocessableEntity:
		var body errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decoding validation errors: %w", err)
		}
		return &wizard.ServerResult{FieldErrors: body.Errors}, nil

	case http.StatusUnauthorized:
		return nil, wizard.ErrUnauthorized

	default:
		return nil, fmt.Errorf("preference store returned %s", resp.Status)
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.user != "" {
		req.Header.Set("X-Tada-User", c.user)
	}
}
