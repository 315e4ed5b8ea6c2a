package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAI struct {
	client *openai.Client
	model  string
	slots  limiter
}

func NewOpenAI(apiKey, model string, concurrentReqs int) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
		slots:  newLimiter(concurrentReqs),
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	if err := o.slots.acquire(ctx); err != nil {
		return "", err
	}
	defer o.slots.release()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("OpenAI returned no choices")
	}
	return resp.Choices[len(resp.Choices)-1].Message.Content, nil
}
