// Package embedding generates embedding vectors via an OpenAI-compatible API.
package embedding

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client wraps the OpenAI client used for embeddings and chat completions.
type Client struct {
	client *openai.Client
}

// NewClient creates an API client. baseURL may be empty (api.openai.com) or
// point at any OpenAI-compatible endpoint.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &Client{client: &client}, nil
}

// Client returns the underlying OpenAI client for use in other packages
// (e.g. answer generation).
func (c *Client) Client() *openai.Client {
	return c.client
}
