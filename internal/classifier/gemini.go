package classifier

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"ivrbot/internal/moderation"
)

// Gemini classifies posts with a Gemini model through the genai SDK.
type Gemini struct {
	client       *genai.Client
	model        string
	instructions string
}

func NewGemini(ctx context.Context, s Settings) (*Gemini, error) {
	if s.APIKey == "" {
		return nil, errors.New("gemini api key missing")
	}
	if s.Model == "" {
		return nil, errors.New("gemini model is required")
	}
	cfg := &genai.ClientConfig{APIKey: s.APIKey, Backend: genai.BackendGeminiAPI}
	if s.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: s.Model, instructions: s.Instructions}, nil
}

func (g *Gemini) Classify(ctx context.Context, text string) (moderation.Decision, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(BuildPrompt(g.instructions, text)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)})
	if err != nil {
		return moderation.Decision{}, fmt.Errorf("gemini generate: %w", err)
	}
	return ParseAnswer(resp.Text())
}
