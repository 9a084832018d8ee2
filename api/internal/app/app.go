// Package app builds the provider and mediator from configuration. All three
// binaries start here.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"kanoon-saral/api/internal/config"
	"kanoon-saral/api/internal/llm"
	"kanoon-saral/api/internal/llm/gemini"
	"kanoon-saral/api/internal/llm/openai"
	"kanoon-saral/api/internal/prompt"
	"kanoon-saral/api/internal/simplify"
)

// Engines returns every provider the configuration has credentials for,
// plus the mock.
func Engines(cfg *config.Config, prompts prompt.Set) *llm.Engines {
	engs := &llm.Engines{
		Mock: &llm.Mock{Delay: 500 * time.Millisecond, Extracted: mockExtracted},
	}
	if cfg.GeminiAPIKey != "" {
		engs.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiVisionModel, prompts)
	}
	if cfg.OpenAIAPIKey != "" {
		engs.OpenAI = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, prompts)
	}
	return engs
}

const mockExtracted = "RENT AGREEMENT\n\nThe Lessee shall pay to the Lessor a monthly rent of Rs. 15,000 on or before the 5th day of each month."

// NewService loads prompts, picks the configured provider and wraps it in
// the mediator.
func NewService(cfg *config.Config, log *slog.Logger) (*simplify.Service, error) {
	prompts, err := prompt.Load(cfg.PromptDir)
	if err != nil {
		return nil, fmt.Errorf("app: prompts: %w", err)
	}
	eng, err := Engines(cfg, prompts).GetEngine(cfg.LLMProvider)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	log.Info("provider selected", "engine", eng.Name(), "model", eng.GetModel())
	return simplify.NewService(eng, simplify.WithLogger(log))
}
