package factory

import (
	"fmt"

	"forge-ai-be/internal/config"
	"forge-ai-be/pkg/llm"
	"forge-ai-be/pkg/llm/ollama"
	"forge-ai-be/pkg/llm/openrouter"
)

func NewLLMProvider(cfg *config.Config) (llm.LLMProvider, error) {
	switch cfg.Ai.Provider {
	case "openrouter":
		if cfg.Keys.OpenRouter == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is required for the openrouter provider")
		}
		return openrouter.NewOpenRouterProvider(cfg.Ai.OpenRouterURL, cfg.Keys.OpenRouter, "", cfg.Ai.RequestTimeout), nil
	case "ollama":
		baseURL := cfg.Ai.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Ai.OllamaModel, cfg.Ai.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Ai.Provider)
	}
}
