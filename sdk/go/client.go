// Package joblinesdk is a minimal typed client for the Jobline HTTP API.
package joblinesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Jobline HTTP API client.
type Client struct {
	BaseURL    string
	ActorID    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL, actorID string) *Client {
	return &Client{
		BaseURL: baseURL,
		ActorID: actorID,
		Timeout: 10 * time.Second,
	}
}

// Session wraps a session creation response.
type Session struct {
	SessionID string         `json:"session_id"`
	Document  map[string]any `json:"document"`
}

// Document wraps a document snapshot.
type Document struct {
	Document map[string]any `json:"document"`
}

// Mission is the derived mission preview.
type Mission struct {
	Preview string `json:"preview"`
	Warning string `json:"warning,omitempty"`
}

// Verb is one catalog entry.
type Verb struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	Class         string `json:"class"`
	Description   string `json:"description,omitempty"`
	Clarification string `json:"clarification,omitempty"`
}

// WizardState is the responsibility wizard position.
type WizardState struct {
	Step     int    `json:"step"`
	Editing  bool   `json:"editing"`
	Action   string `json:"action"`
	Advisory string `json:"advisory,omitempty"`
}

// Consistency is the advisory oracle state.
type Consistency struct {
	Checking bool   `json:"checking"`
	Result   string `json:"result,omitempty"`
}

// Event is one journal row.
type Event struct {
	ID        int64  `json:"id"`
	TS        string `json:"ts"`
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	EntityID  string `json:"entity_id,omitempty"`
	ActorID   string `json:"actor_id"`
	Payload   string `json:"payload"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateSession starts an editing session.
func (c *Client) CreateSession(ctx context.Context) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodPost, "v0/sessions", nil, &resp)
	return resp, err
}

// CloseSession discards a session.
func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, c.sessionPath(sessionID, ""), nil, nil)
}

// GetDocument fetches the current document state.
func (c *Client) GetDocument(ctx context.Context, sessionID string) (Document, error) {
	var resp Document
	err := c.do(ctx, http.MethodGet, c.sessionPath(sessionID, "document"), nil, &resp)
	return resp, err
}

// UpdateField sets one scalar field.
func (c *Client) UpdateField(ctx context.Context, sessionID, field, value string) (Document, error) {
	var resp Document
	err := c.do(ctx, http.MethodPatch, c.sessionPath(sessionID, "fields"),
		map[string]any{"field": field, "value": value}, &resp)
	return resp, err
}

// SetLevel sets the hierarchy level.
func (c *Client) SetLevel(ctx context.Context, sessionID, level string) (Document, error) {
	var resp Document
	err := c.do(ctx, http.MethodPut, c.sessionPath(sessionID, "level"),
		map[string]any{"level": level}, &resp)
	return resp, err
}

// SetComments updates the comments field.
func (c *Client) SetComments(ctx context.Context, sessionID, value string) (Document, error) {
	var resp Document
	err := c.do(ctx, http.MethodPut, c.sessionPath(sessionID, "comments"),
		map[string]any{"value": value}, &resp)
	return resp, err
}

// Transition moves the workflow status.
func (c *Client) Transition(ctx context.Context, sessionID, to string) (Document, error) {
	var resp Document
	err := c.do(ctx, http.MethodPost, c.sessionPath(sessionID, "transition"),
		map[string]any{"to": to}, &resp)
	return resp, err
}

// GetMission fetches the mission preview and advisory.
func (c *Client) GetMission(ctx context.Context, sessionID string) (Mission, error) {
	var resp Mission
	err := c.do(ctx, http.MethodGet, c.sessionPath(sessionID, "mission"), nil, &resp)
	return resp, err
}

// ListVerbs fetches recommended verbs for a level.
func (c *Client) ListVerbs(ctx context.Context, level, query string) ([]Verb, error) {
	endpoint := "v0/verbs?level=" + url.QueryEscape(level)
	if query != "" {
		endpoint += "&query=" + url.QueryEscape(query)
	}
	var resp []Verb
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// StartWizard opens the responsibility wizard. responsibilityID pre-seeds an
// edit session when non-empty.
func (c *Client) StartWizard(ctx context.Context, sessionID, responsibilityID string) (WizardState, error) {
	var resp WizardState
	err := c.do(ctx, http.MethodPost, c.sessionPath(sessionID, "wizard"),
		map[string]any{"responsibility_id": responsibilityID}, &resp)
	return resp, err
}

// WizardInput sets one wizard field (action, secondary, object, result).
func (c *Client) WizardInput(ctx context.Context, sessionID, field, value string) (WizardState, error) {
	var resp WizardState
	err := c.do(ctx, http.MethodPatch, c.sessionPath(sessionID, "wizard"),
		map[string]any{"field": field, "value": value}, &resp)
	return resp, err
}

// WizardSuggestions lists verb suggestions for the typed action.
func (c *Client) WizardSuggestions(ctx context.Context, sessionID string) ([]Verb, error) {
	var resp []Verb
	err := c.do(ctx, http.MethodGet, c.sessionPath(sessionID, "wizard/suggestions"), nil, &resp)
	return resp, err
}

// WizardNext advances the wizard one step.
func (c *Client) WizardNext(ctx context.Context, sessionID string) (WizardState, error) {
	var resp WizardState
	err := c.do(ctx, http.MethodPost, c.sessionPath(sessionID, "wizard/next"), nil, &resp)
	return resp, err
}

// WizardBack steps the wizard backwards.
func (c *Client) WizardBack(ctx context.Context, sessionID string) (WizardState, error) {
	var resp WizardState
	err := c.do(ctx, http.MethodPost, c.sessionPath(sessionID, "wizard/back"), nil, &resp)
	return resp, err
}

// FinishWizard commits the wizard responsibility.
func (c *Client) FinishWizard(ctx context.Context, sessionID string) (map[string]any, error) {
	var resp map[string]any
	err := c.do(ctx, http.MethodPost, c.sessionPath(sessionID, "wizard/finish"), nil, &resp)
	return resp, err
}

// CancelWizard discards the wizard session.
func (c *Client) CancelWizard(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, c.sessionPath(sessionID, "wizard"), nil, nil)
}

// CheckConsistency starts an advisory oracle check.
func (c *Client) CheckConsistency(ctx context.Context, sessionID string) (Consistency, error) {
	var resp Consistency
	err := c.do(ctx, http.MethodPost, c.sessionPath(sessionID, "consistency"), nil, &resp)
	return resp, err
}

// GetConsistency reads the latest oracle advisory.
func (c *Client) GetConsistency(ctx context.Context, sessionID string) (Consistency, error) {
	var resp Consistency
	err := c.do(ctx, http.MethodGet, c.sessionPath(sessionID, "consistency"), nil, &resp)
	return resp, err
}

// ListEvents fetches journal rows, optionally scoped to a session.
func (c *Client) ListEvents(ctx context.Context, sessionID string, limit int) ([]Event, error) {
	endpoint := "v0/events"
	params := url.Values{}
	if sessionID != "" {
		params.Set("session_id", sessionID)
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	var resp []Event
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.ActorID != "" {
		req.Header.Set("X-Actor-Id", c.ActorID)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) sessionPath(sessionID, p string) string {
	session := url.PathEscape(sessionID)
	if p == "" {
		return fmt.Sprintf("v0/sessions/%s", session)
	}
	return fmt.Sprintf("v0/sessions/%s/%s", session, strings.TrimLeft(p, "/"))
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
