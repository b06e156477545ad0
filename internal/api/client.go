package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"worktrack-cli/internal/model"
)

// Client talks to the tracking API. All methods are safe for concurrent use.
type Client struct {
	BaseURL string
	Token   string

	HTTPClient *http.Client
	Log        *zap.Logger
}

func New(baseURL, token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Log:        log,
	}
}

// levelPath maps a level to its collection path segment.
var levelPath = map[model.Level]string{
	model.LevelClient:    "clients",
	model.LevelProgram:   "programs",
	model.LevelProject:   "projects",
	model.LevelUseCase:   "usecases",
	model.LevelUserStory: "userstories",
	model.LevelTask:      "tasks",
	model.LevelSubtask:   "subtasks",
}

// Children fetches the entities of level whose parent is parentID.
// For the root level (client) parentID is ignored. An empty result is a
// valid, successful response.
func (c *Client) Children(ctx context.Context, level model.Level, parentID string) ([]model.Entity, error) {
	seg, ok := levelPath[level]
	if !ok {
		return nil, fmt.Errorf("unknown level: %q", level)
	}
	q := url.Values{}
	if keys := parentKeys[level]; len(keys) > 0 && parentID != "" {
		q.Set(keys[0], parentID)
	}
	body, err := c.get(ctx, "/api/v1/"+seg, q)
	if err != nil {
		return nil, err
	}
	ents, err := decodeEntities(body, level)
	if err != nil {
		return nil, &FetchError{Endpoint: "/api/v1/" + seg, Message: "decode response: " + err.Error(), Err: err}
	}
	return ents, nil
}

func (c *Client) Bugs(ctx context.Context, projectID string) ([]model.Bug, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("projectId", projectID)
	}
	var bugs []model.Bug
	if err := c.getJSON(ctx, "/api/v1/bugs", q, &bugs); err != nil {
		return nil, err
	}
	return bugs, nil
}

func (c *Client) Bug(ctx context.Context, id string) (model.Bug, error) {
	var bug model.Bug
	err := c.getJSON(ctx, "/api/v1/bugs/"+url.PathEscape(id), nil, &bug)
	return bug, err
}

// BugDraft is the writable subset of a bug. Title, ProjectID and Severity are
// required; the server enforces the same rules and returns field errors.
type BugDraft struct {
	ProjectID string            `json:"projectId"`
	Title     string            `json:"title"`
	ShortDesc string            `json:"shortDescription,omitempty"`
	LongDesc  string            `json:"longDescription,omitempty"`
	Status    string            `json:"status,omitempty"`
	Severity  model.BugSeverity `json:"severity"`
	Assignee  string            `json:"assignee,omitempty"`
	StoryID   string            `json:"userStoryId,omitempty"`
}

// Validate checks required fields locally so forms can flag them before a
// round trip. The server remains authoritative.
func (d BugDraft) Validate() error {
	fields := map[string]string{}
	if d.Title == "" {
		fields["title"] = "title is required"
	}
	if d.ProjectID == "" {
		fields["projectId"] = "project is required"
	}
	if d.Severity == "" {
		fields["severity"] = "severity is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (c *Client) CreateBug(ctx context.Context, draft BugDraft) (model.Bug, error) {
	var bug model.Bug
	err := c.send(ctx, http.MethodPost, "/api/v1/bugs", draft, &bug)
	return bug, err
}

func (c *Client) UpdateBug(ctx context.Context, id string, draft BugDraft) (model.Bug, error) {
	var bug model.Bug
	err := c.send(ctx, http.MethodPut, "/api/v1/bugs/"+url.PathEscape(id), draft, &bug)
	return bug, err
}

func (c *Client) Decisions(ctx context.Context, projectID string) ([]model.Decision, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("projectId", projectID)
	}
	var out []model.Decision
	if err := c.getJSON(ctx, "/api/v1/decisions", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type DecisionDraft struct {
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
	Rationale string `json:"rationale,omitempty"`
	Status    string `json:"status,omitempty"`
}

func (d DecisionDraft) Validate() error {
	fields := map[string]string{}
	if d.Title == "" {
		fields["title"] = "title is required"
	}
	if d.ProjectID == "" {
		fields["projectId"] = "project is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (c *Client) CreateDecision(ctx context.Context, draft DecisionDraft) (model.Decision, error) {
	var dec model.Decision
	err := c.send(ctx, http.MethodPost, "/api/v1/decisions", draft, &dec)
	return dec, err
}

func (c *Client) TestRuns(ctx context.Context, projectID string) ([]model.TestRun, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("projectId", projectID)
	}
	var out []model.TestRun
	if err := c.getJSON(ctx, "/api/v1/testruns", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AuditTrail(ctx context.Context, entityID string) ([]model.AuditEvent, error) {
	q := url.Values{}
	q.Set("entityId", entityID)
	var out []model.AuditEvent
	if err := c.getJSON(ctx, "/api/v1/audit", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ChatHistory(ctx context.Context, channelID string, limit int) ([]model.ChatMessage, error) {
	q := url.Values{}
	q.Set("channelId", channelID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []model.ChatMessage
	if err := c.getJSON(ctx, "/api/v1/chat/messages", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: path, Message: err.Error(), Err: err}
	}
	return c.do(req, path)
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &FetchError{Endpoint: path, Message: "decode response: " + err.Error(), Err: err}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload, v any) error {
	if val, ok := payload.(interface{ Validate() error }); ok {
		if err := val.Validate(); err != nil {
			return err
		}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return &FetchError{Endpoint: path, Message: err.Error(), Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return &FetchError{Endpoint: path, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req, path)
	if err != nil {
		return err
	}
	if v == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &FetchError{Endpoint: path, Message: "decode response: " + err.Error(), Err: err}
	}
	return nil
}

func (c *Client) do(req *http.Request, path string) ([]byte, error) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		c.Log.Warn("api request failed", zap.String("endpoint", path), zap.Error(err))
		return nil, &FetchError{Endpoint: path, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		c.Log.Warn("api read failed", zap.String("endpoint", path), zap.Error(err))
		return nil, &FetchError{Endpoint: path, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.Log.Debug("api request ok", zap.String("endpoint", path), zap.Int("status", resp.StatusCode))
		return body, nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		if verr := decodeValidationError(body); verr != nil {
			return nil, verr
		}
		fallthrough
	default:
		msg := httpErrorMessage(body, resp.StatusCode)
		c.Log.Warn("api error response",
			zap.String("endpoint", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return nil, &FetchError{Endpoint: path, Status: resp.StatusCode, Message: msg}
	}
}

// decodeValidationError recognizes the API's standard field-error envelope:
// {"errors": {"field": "message", ...}}.
func decodeValidationError(body []byte) *ValidationError {
	var env struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Errors) == 0 {
		return nil
	}
	return &ValidationError{Fields: env.Errors}
}

func httpErrorMessage(body []byte, status int) string {
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	return http.StatusText(status)
}

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
