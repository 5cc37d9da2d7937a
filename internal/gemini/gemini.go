// Package gemini wraps the Google Gemini API for text generation.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const systemInstruction = `You are a financial advisor reviewing a retail investor's stock portfolio.
Be concrete, reference the holdings by ticker, and do not invent data that is not in the summary.`

// Client generates text with a Gemini model.
type Client struct {
	models *genai.Models
	model  string
	config *genai.GenerateContentConfig
}

// Config configures a Client. BaseURL overrides the API endpoint and is empty in production.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewClient creates a Gemini client for the Gemini API backend.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Client{
		models: client.Models,
		model:  cfg.Model,
		config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		},
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt to the model and returns the text of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
