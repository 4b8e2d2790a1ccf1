package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/victorwamb/IA-PF/internal/content"
	"github.com/victorwamb/IA-PF/internal/entities"
)

// DefaultRemoteTimeout bounds one call to the completion endpoint.
const DefaultRemoteTimeout = 15 * time.Second

type chatRequest struct {
	Message string              `json:"message"`
	History []entities.ChatTurn `json:"history"`
}

type chatResponse struct {
	Response *string `json:"response"`
}

// RemoteResponder calls POST <baseURL>/api/chat. Every failure is logged and reported
// as "no answer" so the caller can fall back.
type RemoteResponder struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewRemoteResponder(baseURL string, timeout time.Duration, logger *slog.Logger) *RemoteResponder {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteResponder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (r *RemoteResponder) Complete(ctx context.Context, message string, history entities.ConversationHistory) (string, bool) {
	data, err := json.Marshal(chatRequest{Message: message, History: history.Turns()})
	if err != nil {
		r.logger.Warn("encode chat request", "error", err)
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		r.logger.Warn("build chat request", "error", err)
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("error calling backend API", "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		r.logger.Warn("API error", "status", resp.StatusCode, "body", string(body))
		return "", false
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		r.logger.Warn("malformed chat response", "error", err)
		return "", false
	}
	if out.Response == nil || strings.TrimSpace(*out.Response) == "" {
		r.logger.Warn("chat response without text")
		return "", false
	}
	return *out.Response, true
}

// ProjectClient reads the project list from the API and falls back to the bundled
// dataset when the API cannot be used, mirroring the chat's remote-then-local order.
type ProjectClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewProjectClient(baseURL string, timeout time.Duration, logger *slog.Logger) *ProjectClient {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// List never fails while the bundled dataset is readable; fromAPI reports which source answered.
func (c *ProjectClient) List(ctx context.Context) (projects []entities.Project, fromAPI bool, err error) {
	projects, err = c.fetch(ctx)
	if err == nil {
		return projects, true, nil
	}
	c.logger.Warn("error fetching projects from API, using defaults", "error", err)

	projects, err = content.StaticProjects()
	if err != nil {
		return nil, false, err
	}
	return projects, false, nil
}

func (c *ProjectClient) fetch(ctx context.Context) ([]entities.Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/projects", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch projects: status %d", resp.StatusCode)
	}

	var body struct {
		Projects []entities.Project `json:"projects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	if body.Projects == nil {
		return nil, fmt.Errorf("response has no projects field")
	}
	return body.Projects, nil
}
