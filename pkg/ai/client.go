package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/metrics"
)

const (
	serviceName                 = "ai"
	defaultModel                = "default"
	defaultTimeout              = 90 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errEndpointRequired = errors.New("ai endpoint is required")

// Options are the optional completion parameters forwarded verbatim.
type Options struct {
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	TopP           *float64        `json:"top_p,omitempty"`
	Stop           []string        `json:"stop,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

// Deterministic returns options with temperature 0.
func Deterministic() Options {
	zero := 0.0
	return Options{Temperature: &zero}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Options
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls a chat-completion endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
	metrics    *metrics.AIMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if m := strings.TrimSpace(model); m != "" {
			c.model = m
		}
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithMetrics records request outcomes.
func WithMetrics(m *metrics.AIMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a completion client for endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errEndpointRequired
	}
	client := &Client{
		endpoint:   trimmed,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Complete sends messages and returns the text of the first choice.
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	return c.complete(ctx, "complete", messages, opts)
}

// CompleteJSON runs Complete and decodes the first JSON span of the answer into out.
func (c *Client) CompleteJSON(ctx context.Context, messages []Message, opts Options, out any) error {
	return c.completeJSON(ctx, "complete_json", messages, opts, out)
}

func (c *Client) completeJSON(ctx context.Context, operation string, messages []Message, opts Options, out any) error {
	raw, err := c.complete(ctx, operation, messages, opts)
	if err != nil {
		return err
	}
	return DecodeJSON(raw, out)
}

func (c *Client) complete(ctx context.Context, operation string, messages []Message, opts Options) (content string, err error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "ai client not configured")
	}
	if len(messages) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "at least one message is required")
	}

	started := time.Now()
	defer func() {
		c.metrics.Observe(operation, time.Since(started), err)
	}()

	payload, err := json.Marshal(completionRequest{Model: c.model, Messages: messages, Options: opts})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute completion request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		upstream := &pkgerrors.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Body:    strings.TrimSpace(string(msg)),
		}
		code := pkgerrors.CodeDependency
		if resp.StatusCode == http.StatusTooManyRequests {
			code = pkgerrors.CodeRateLimit
		}
		return "", pkgerrors.Wrap(code, upstream, fmt.Sprintf("completion failed with status %d", resp.StatusCode))
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeMalformedResponse, err, "decode completion response")
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == nil {
		return "", pkgerrors.New(pkgerrors.CodeMalformedResponse, "completion response has no content")
	}
	return *decoded.Choices[0].Message.Content, nil
}
