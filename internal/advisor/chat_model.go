package advisor

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dyike/QuantFlow/config"
)

// NewChatModel builds the text-generation client for the configured
// provider. A placeholder key still yields a usable client; calls made with
// it fail and are masked by the advisor fallbacks.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create DeepSeek model: %w", err)
		}
		return chatModel, nil
	case "openai", "":
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.LLMModel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI-compatible model: %w", err)
		}
		return chatModel, nil
	}
	return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
}
