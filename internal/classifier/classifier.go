// Package classifier implements the AI content screen used by moderation.
package classifier

import (
	"context"
	"fmt"

	"ivrbot/internal/moderation"
)

// Settings configures a classifier backend.
type Settings struct {
	Provider     string
	Model        string
	APIKey       string
	BaseURL      string
	Instructions string
}

// New returns the classifier for s.Provider, or nil when no API key is set:
// the AI screen is then skipped.
func New(ctx context.Context, s Settings) (moderation.Classifier, error) {
	if s.APIKey == "" {
		return nil, nil
	}
	if s.Instructions == "" {
		s.Instructions = DefaultInstructions
	}
	switch s.Provider {
	case "", "gemini":
		g, err := NewGemini(ctx, s)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "openai":
		o, err := NewOpenAI(s)
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("classifier provider %s not supported", s.Provider)
	}
}
