package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/pkg/errors"
)

// classificationMaxTokens bounds the completion. The contract is a single
// line: a skill name or NONE.
const classificationMaxTokens = 64

// AnthropicClassifier performs one-shot classifications against the
// Anthropic Messages API.
type AnthropicClassifier struct {
	client anthropic.Client
}

// NewAnthropicClassifier creates a classifier using ANTHROPIC_API_KEY from
// the environment.
func NewAnthropicClassifier() *AnthropicClassifier {
	return &AnthropicClassifier{
		client: anthropic.NewClient(),
	}
}

// Classify sends the prompt with deterministic sampling and returns the
// first text block of the completion.
func (c *AnthropicClassifier) Classify(ctx context.Context, model string, prompt string) (string, error) {
	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   classificationMaxTokens,
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic classification request failed")
	}

	for _, block := range response.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			return variant.Text, nil
		}
	}
	return "", errors.New("anthropic classification returned no text")
}
