// Package llm is the chat-completion boundary that rewrites transcripts into
// polished interview answers.
package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Completer produces a single completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient is the production Completer.
type OpenAIClient struct {
	Client *openai.Client
	Model  string
}

func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	return NewOpenAIClientFrom(openai.NewClient(apiKey), model)
}

// NewOpenAIClientFrom wraps an existing API client; tests point it at a
// local fake server.
func NewOpenAIClientFrom(client *openai.Client, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{Client: client, Model: model}
}

// Complete sends one user message and returns the trimmed reply.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
