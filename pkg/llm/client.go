// Package llm provides the OpenAI chat bridge: tool definitions for
// function calling, a dispatcher that executes those calls against the
// lending services, and the two-phase chat loop.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/config"
)

// ChatCompleter is the subset of the OpenAI client the bridge needs.
// Use this interface for dependency injection to enable mocking in tests.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ ChatCompleter = (*openai.Client)(nil)

// NewClient creates an OpenAI client from the bridge configuration.
func NewClient(cfg *config.OpenAIConfig, logger *zap.Logger) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	logger.Debug("OpenAI client configured",
		zap.String("base_url", clientConfig.BaseURL),
		zap.String("model", cfg.Model))

	return openai.NewClientWithConfig(clientConfig), nil
}
