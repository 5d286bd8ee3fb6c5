package classifier

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"ivrbot/internal/moderation"
)

// OpenAI classifies posts through any OpenAI-compatible chat completions
// endpoint.
type OpenAI struct {
	client       openai.Client
	model        string
	instructions string
}

func NewOpenAI(s Settings, extra ...option.RequestOption) (*OpenAI, error) {
	if s.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if s.Model == "" {
		return nil, errors.New("openai model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(s.APIKey)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	opts = append(opts, extra...)
	return &OpenAI{
		client:       openai.NewClient(opts...),
		model:        s.Model,
		instructions: s.Instructions,
	}, nil
}

func (o *OpenAI) Classify(ctx context.Context, text string) (moderation.Decision, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(BuildPrompt(o.instructions, text)),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return moderation.Decision{}, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return moderation.Decision{}, fmt.Errorf("%w: empty choices", ErrMalformed)
	}
	return ParseAnswer(resp.Choices[0].Message.Content)
}
