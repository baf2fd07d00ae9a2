package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// ChatCompletionsClient talks to an OpenAI-compatible /chat/completions
// endpoint such as OpenRouter.
type ChatCompletionsClient struct {
	client *resty.Client
	model  string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
}

func NewChatCompletionsClient(baseURL, apiKey, model string) (*ChatCompletionsClient, error) {
	if apiKey == "" {
		return nil, errors.New("completion service API key is required")
	}
	if model == "" {
		return nil, errors.New("completion service model is required")
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://github.com/BerylCAtieno/resume-insights-api")

	return &ChatCompletionsClient{client: client, model: model}, nil
}

func (c *ChatCompletionsClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.model,
			Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	body := resp.String()

	if resp.IsError() {
		if msg := gjson.Get(body, "error.message"); msg.Exists() {
			return "", fmt.Errorf("completion service returned status %d: %s", resp.StatusCode(), msg.String())
		}
		return "", fmt.Errorf("completion service returned status %d", resp.StatusCode())
	}

	if !gjson.Valid(body) {
		return "", errors.New("completion service returned a non-JSON body")
	}

	if msg := gjson.Get(body, "error.message"); msg.Exists() {
		return "", fmt.Errorf("completion service error: %s", msg.String())
	}

	content := gjson.Get(body, "choices.0.message.content")
	if !content.Exists() {
		return "", errors.New("no choices in response")
	}

	return strings.TrimSpace(content.String()), nil
}
