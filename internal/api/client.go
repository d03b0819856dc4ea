// Package api is the REST client for the NexWrit backend. Every request is
// authenticated with a bearer token read fresh from the session's token
// source, so a token refreshed mid-session is always current. There is no
// retry and no timeout beyond the transport's: every call here is triggered
// by a discrete user action, not a background loop.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nexwrit/scribe/internal/document"
	"github.com/nexwrit/scribe/internal/logging"
	"github.com/nexwrit/scribe/internal/session"
)

const defaultTimeout = 120 * time.Second

// APIError carries the backend's status code and its "detail" message when
// one was provided. Callers translate it for the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: backend returned %d", e.StatusCode)
}

// Client talks to one backend origin.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     session.TokenSource
	logger     *zap.SugaredLogger
}

// Option customizes a Client during construction.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout overrides the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client for the given origin.
func New(baseURL string, tokens session.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newRequest builds an authenticated request. The token is fetched per
// request, never cached on the client.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// errorDetail mirrors the backend's error envelope.
type errorDetail struct {
	Detail string `json:"detail"`
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(data) > 0 {
		var detail errorDetail
		if json.Unmarshal(data, &detail) == nil && detail.Detail != "" {
			apiErr.Message = detail.Detail
		}
	}
	return apiErr
}

// do runs one JSON round trip. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Debugw("request", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
	}
	return nil
}

// GenerateOutline asks the backend for an AI-suggested list of section
// titles for the given topic and document type.
func (c *Client) GenerateOutline(ctx context.Context, topic string, docType document.DocType, numSections int) ([]string, error) {
	body := struct {
		Topic       string `json:"topic"`
		Type        string `json:"type"`
		NumSections int    `json:"num_sections,omitempty"`
	}{Topic: topic, Type: string(docType), NumSections: numSections}
	var out struct {
		Sections []string `json:"sections"`
	}
	if err := c.do(ctx, http.MethodPost, "/generate/outline", body, &out); err != nil {
		return nil, err
	}
	return out.Sections, nil
}

// CreateProject registers a new project.
func (c *Client) CreateProject(ctx context.Context, title string, docType document.DocType) (document.Project, error) {
	body := struct {
		Title string `json:"title"`
		Type  string `json:"type"`
	}{Title: title, Type: string(docType)}
	var out document.Project
	if err := c.do(ctx, http.MethodPost, "/projects/", body, &out); err != nil {
		return document.Project{}, err
	}
	return out, nil
}

// ListProjects fetches every project owned by the current user.
func (c *Client) ListProjects(ctx context.Context) ([]document.Project, error) {
	var out []document.Project
	if err := c.do(ctx, http.MethodGet, "/projects/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject fetches one project's metadata.
func (c *Client) GetProject(ctx context.Context, projectID string) (document.Project, error) {
	var out document.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID, nil, &out); err != nil {
		return document.Project{}, err
	}
	return out, nil
}

// DeleteProject removes a project and everything under it.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID, nil, nil)
}

// ListSections fetches a project's sections. Response order is not trusted;
// the document store sorts by order_index.
func (c *Client) ListSections(ctx context.Context, projectID string) ([]document.Section, error) {
	var out []document.Section
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID+"/sections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSection adds one section at the given position.
func (c *Client) CreateSection(ctx context.Context, projectID, title string, orderIndex int) (document.Section, error) {
	body := struct {
		Title      string  `json:"title"`
		OrderIndex int     `json:"order_index"`
		Content    *string `json:"content"`
	}{Title: title, OrderIndex: orderIndex}
	var out document.Section
	if err := c.do(ctx, http.MethodPost, "/projects/"+projectID+"/sections", body, &out); err != nil {
		return document.Section{}, err
	}
	return out, nil
}

// UpdateSectionTitle renames a section in place.
func (c *Client) UpdateSectionTitle(ctx context.Context, projectID, sectionID, title string) (document.Section, error) {
	body := struct {
		Title string `json:"title"`
	}{Title: title}
	var out document.Section
	path := "/projects/" + projectID + "/sections/" + sectionID
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return document.Section{}, err
	}
	return out, nil
}

// GenerateSection asks the backend to write content for a section. The
// backend returns the updated section record.
func (c *Client) GenerateSection(ctx context.Context, sectionID string) (document.Section, error) {
	body := struct {
		SectionID string `json:"section_id"`
	}{SectionID: sectionID}
	var out document.Section
	if err := c.do(ctx, http.MethodPost, "/generate/section/"+sectionID, body, &out); err != nil {
		return document.Section{}, err
	}
	return out, nil
}

// RefineSection applies a free-text instruction to existing content.
func (c *Client) RefineSection(ctx context.Context, sectionID, instruction string) (document.Section, error) {
	body := struct {
		SectionID        string `json:"section_id"`
		RefinementPrompt string `json:"refinement_prompt"`
	}{SectionID: sectionID, RefinementPrompt: instruction}
	var out document.Section
	if err := c.do(ctx, http.MethodPost, "/generate/refine/"+sectionID, body, &out); err != nil {
		return document.Section{}, err
	}
	return out, nil
}

// SendFeedback records a thumbs up or down for a section's content.
func (c *Client) SendFeedback(ctx context.Context, sectionID string, positive bool) error {
	body := struct {
		IsPositive bool `json:"is_positive"`
	}{IsPositive: positive}
	return c.do(ctx, http.MethodPost, "/projects/sections/"+sectionID+"/feedback", body, nil)
}

// AddComment attaches a note to a section and returns the stored record.
func (c *Client) AddComment(ctx context.Context, sectionID, text string) (document.Comment, error) {
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	var out document.Comment
	if err := c.do(ctx, http.MethodPost, "/projects/sections/"+sectionID+"/comments", body, &out); err != nil {
		return document.Comment{}, err
	}
	return out, nil
}

// DeleteComment removes a comment by id.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/projects/comments/"+commentID, nil, nil)
}

// Download is an export payload ready to stream to disk. Filename is the
// backend's Content-Disposition suggestion and may be empty.
type Download struct {
	Body     io.ReadCloser
	Filename string
}

// Close releases the underlying response body.
func (d *Download) Close() error {
	if d == nil || d.Body == nil {
		return nil
	}
	return d.Body.Close()
}

// Export requests the rendered document as a binary stream. The caller owns
// the returned body.
func (c *Client) Export(ctx context.Context, projectID string) (*Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/export/"+projectID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: GET /export/%s: %w", projectID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	download := &Download{Body: resp.Body}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			download.Filename = params["filename"]
		}
	}
	return download, nil
}
