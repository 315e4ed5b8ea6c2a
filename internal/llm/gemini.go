package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	slots  limiter
}

func NewGemini(ctx context.Context, apiKey, modelName string, concurrentReqs int) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(1)
	model.SetTopP(0.95)
	model.SetTopK(40)
	model.SetMaxOutputTokens(8000)
	model.ResponseMIMEType = "text/plain"

	return &Gemini{
		client: client,
		model:  model,
		slots:  newLimiter(concurrentReqs),
	}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	if err := g.slots.acquire(ctx); err != nil {
		return "", err
	}
	defer g.slots.release()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Warn().Int("candidate", i).Str("finish_reason", cand.FinishReason.String()).Msg("Gemini stopped early")
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("Gemini returned empty text")
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	return text.String()
}
