package ai

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rozenaakter/ai-chat-app/internal/config"
)

// emptyCompletionText is returned when the provider answers with no content.
const emptyCompletionText = "Sorry, I could not generate a response."

// Completer is the minimal completion-provider surface used by the pipeline;
// it is easy to mock in tests.
type Completer interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// Client calls an OpenRouter-compatible chat completion API.
type Client struct {
	api         *openai.Client
	maxTokens   int
	temperature float32
}

func NewClient(cfg config.AIConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			base:    http.DefaultTransport,
			referer: cfg.Referer,
			title:   cfg.Title,
		},
	}
	return &Client{
		api:         openai.NewClientWithConfig(oc),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Complete submits a system instruction and a user turn and returns the
// generated text. An empty choice list is not an error; the caller gets a
// stock apology instead.
func (c *Client) Complete(ctx context.Context, model, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return emptyCompletionText, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// attributionTransport adds the OpenRouter attribution headers to every
// request.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("HTTP-Referer", t.referer)
	req.Header.Set("X-Title", t.title)
	return t.base.RoundTrip(req)
}
