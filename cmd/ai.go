package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/builder-match/internal/ai"
	"github.com/spigell/builder-match/internal/ai/gemini"
	applogger "github.com/spigell/builder-match/internal/logger"
	"github.com/spigell/builder-match/internal/secrets"
)

// newAICollaborators builds the personality profiler and the question writer.
// Both are nil when AI is disabled.
func newAICollaborators(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Profiler, ai.QuestionWriter, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = "gemini"
	}
	if provider != "gemini" {
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, nil, err
	}

	aiLogger := applogger.WithCommonFields(logger, provider, generator.Model())
	profiler := gemini.NewProfiler(generator, cfg.Gemini.MaxLogLength, aiLogger)
	questions := gemini.NewQuestionWriter(generator, cfg.Gemini.MaxLogLength, aiLogger)

	return profiler, questions, nil
}
