package llm

import (
	"context"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/viper"
)

// OpenAIClassifier performs one-shot classifications against an
// OpenAI-compatible chat completion API.
type OpenAIClassifier struct {
	client *openai.Client
}

// NewOpenAIClassifier creates a classifier using OPENAI_API_KEY from the
// environment. The router.base_url config points it at any compatible
// endpoint.
func NewOpenAIClassifier() *OpenAIClassifier {
	config := openai.DefaultConfig(os.Getenv("OPENAI_API_KEY"))
	if baseURL := viper.GetString("router.base_url"); baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(config),
	}
}

// Classify sends the prompt with deterministic sampling and returns the
// first choice's content.
func (c *OpenAIClassifier) Classify(ctx context.Context, model string, prompt string) (string, error) {
	response, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: classificationMaxTokens,
		// go-openai drops a zero temperature on serialization, so send the
		// smallest non-zero value instead.
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai classification request failed")
	}

	if len(response.Choices) == 0 {
		return "", errors.New("openai classification returned no choices")
	}
	return response.Choices[0].Message.Content, nil
}
