// Package gemini is a stateless request/response client for the Gemini
// text-generation REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "privateai/internal/errors"
	"privateai/internal/models"
)

// PathReplyText selects the first content part of the first candidate.
const PathReplyText = "candidates.0.content.parts.0.text"

// Client talks to the generation endpoint. It holds no session-scoped
// state and may be reused across calls.
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
}

// Option is a function that configures the client
type Option func(*Client)

// WithBaseURL overrides the endpoint base URL. Used by tests to point
// the client at a local server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// NewClient creates a Client with a fresh, non-persistent cookie jar.
func NewClient(opts ...Option) (*Client, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(300),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    models.EndpointBase,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Request/response wire types for the generation endpoint
type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type requestBody struct {
	Contents         []content               `json:"contents"`
	GenerationConfig models.GenerationConfig `json:"generationConfig"`
}

// apiRole maps a message role onto the wire role the endpoint expects.
func apiRole(r models.Role) string {
	if r == models.RoleAssistant {
		return "model"
	}
	return "user"
}

// endpoint builds the model-scoped URL path without the credential.
func (c *Client) endpoint(modelID string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, modelID)
}

// do issues one generation request and returns the reply text.
func (c *Client) do(ctx context.Context, contents []content, cfg models.GenerationConfig, apiKey, modelID string) (string, error) {
	if apiKey == "" {
		return "", apierrors.NewAuthError("API key is missing or empty")
	}

	body := requestBody{Contents: contents, GenerationConfig: cfg}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.endpoint(modelID)
	// Credential goes in the query string, never in the endpoint we
	// report in errors.
	requestURL := endpoint + "?key=" + url.QueryEscape(apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("generate content", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.NewNetworkError("read response", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apierrors.NewServerError(resp.StatusCode, endpoint, string(raw))
	}

	text := gjson.GetBytes(raw, PathReplyText)
	if !text.Exists() {
		return "", apierrors.NewParseError("no candidate content part in response", PathReplyText)
	}
	return text.String(), nil
}
