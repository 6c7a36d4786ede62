// Package backend is the transport collaborator: it performs the network
// call to the knowledge service and hands the decoded payload to the
// normalization pipeline. It is the only layer that returns errors; the
// pipeline itself is total.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"knowbot/internal/response"
)

// maxBodyBytes caps how much of a reply is read. The backend is untrusted;
// a runaway body must not exhaust memory.
const maxBodyBytes = 10 << 20

// Config holds client settings.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for the given endpoint.
func DefaultConfig(url string) Config {
	return Config{
		URL:     url,
		Timeout: 30 * time.Second,
	}
}

// Client asks the knowledge service questions and normalizes whatever comes
// back. JSON-vs-text handling is selected from the reply's declared content
// type, as the normalization core does no transport work itself.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	normalizer *response.Normalizer
	log        *zap.Logger
}

// New creates a Client. A nil logger disables diagnostics.
func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		normalizer: response.NewNormalizer(log),
		log:        log,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask sends a question and returns the canonical Response. The only errors
// it surfaces are transport failures; any reply body, however malformed,
// normalizes successfully.
func (c *Client) Ask(ctx context.Context, question string) (response.Response, error) {
	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return response.Response{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return response.Response{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response.Response{}, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response.Response{}, fmt.Errorf("reading backend reply: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return response.Response{}, fmt.Errorf("backend returned status %d: %s",
			resp.StatusCode, snippet(data))
	}

	return c.normalize(resp.Header.Get("Content-Type"), data), nil
}

// normalize routes the body by declared content type. A JSON content type
// whose body fails to parse degrades to the text path rather than erroring.
func (c *Client) normalize(contentType string, data []byte) response.Response {
	if strings.Contains(contentType, "application/json") {
		var payload any
		if err := json.Unmarshal(data, &payload); err == nil {
			return c.normalizer.Normalize(payload)
		}
		c.log.Debug("declared JSON body failed to parse, treating as text")
	}
	return c.normalizer.NormalizeText(string(data))
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
