package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// ErrNoChoices is returned when the provider answers without any choice.
var ErrNoChoices = errors.New("provider returned no choices")

// Client is a focused OpenAI-compatible client for one-shot chat completions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	api        *openai.Client
}

// Option configures a Client in NewClient.
type Option func(*Client)

// WithBaseURL points the client at another OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithHTTPClient replaces the HTTP client used for provider calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client authenticating with apiKey. No timeout is set on
// the underlying HTTP client unless one is passed with WithHTTPClient.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("provider: api key must not be empty")
	}
	c := &Client{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(c.baseURL, "/")
	if c.httpClient != nil {
		config.HTTPClient = c.httpClient
	}
	c.api = openai.NewClientWithConfig(config)
	return c, nil
}

// Complete sends prompt as a single user turn and returns the content of the
// first choice. Errors from the provider are returned as is so that their
// text reaches the caller unchanged.
func (c *Client) Complete(ctx context.Context, model string, prompt string) (string, error) {
	if model == "" {
		return "", errors.New("provider: model must not be empty")
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
