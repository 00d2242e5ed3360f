// Package llm provides the one-shot classification clients used by the
// router. The classification service is treated as an opaque oracle: one
// prompt in, one line of text out, no retries.
package llm

import (
	"context"
	"strings"

	"github.com/spf13/viper"
)

// Classifier sends a single prompt to a classification model and returns
// the raw text completion.
type Classifier interface {
	Classify(ctx context.Context, model string, prompt string) (string, error)
}

// NewClassifier picks a classifier implementation for the given model.
// The provider can be forced via the router.provider config; otherwise it
// is inferred from the model identifier prefix.
func NewClassifier(model string) Classifier {
	provider := viper.GetString("router.provider")
	if provider == "" {
		if strings.HasPrefix(model, "claude") {
			provider = "anthropic"
		} else {
			provider = "openai"
		}
	}

	switch provider {
	case "anthropic":
		return NewAnthropicClassifier()
	default:
		return NewOpenAIClassifier()
	}
}
