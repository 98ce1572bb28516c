package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/ai"
	"github.com/spigell/profile-optimizer/internal/ai/gemini"
	"github.com/spigell/profile-optimizer/internal/ai/openai"
	"github.com/spigell/profile-optimizer/internal/fixtures"
	"github.com/spigell/profile-optimizer/internal/pipeline"
	"github.com/spigell/profile-optimizer/internal/sanitize"
	"github.com/spigell/profile-optimizer/internal/secrets"
	"github.com/spigell/profile-optimizer/internal/tinder"
)

func newSuggester(ctx context.Context, cfg AIConfig, logger *zap.Logger) (ai.Suggester, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", openai.Provider:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		suggester, err := openai.NewSuggester(openai.Config{
			APIKey:       apiKey,
			Model:        cfg.OpenAI.Model,
			BaseURL:      cfg.OpenAI.BaseURL,
			MaxLogLength: cfg.MaxLogLength,
		}, logger)
		if err != nil {
			return nil, err
		}

		return suggester, nil
	case gemini.Provider:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}

		return gemini.NewSuggester(generator, cfg.MaxLogLength, logger), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newTinderClient(cfg TinderConfig, logger *zap.Logger) (*tinder.Client, error) {
	token, err := secrets.Load(secrets.Source{
		Name:  "tinder auth token",
		Value: cfg.Token,
		File:  cfg.TokenFile,
		Env:   "X_AUTH_TOKEN",
	})
	if err != nil {
		return nil, err
	}

	client := tinder.New(logger, token)
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		client.APIURL = strings.TrimRight(endpoint, "/")
	}
	if cfg.Iterations > 0 {
		client.Iterations = cfg.Iterations
	}
	if cfg.Interval > 0 {
		client.Interval = cfg.Interval
	}

	return client, nil
}

// newPipeline wires the collaborators. The upstream client is only built when
// live data is needed.
func newPipeline(ctx context.Context, config *Config, live bool, logger *zap.Logger) (*pipeline.Pipeline, error) {
	opts := config.Flags.Options()

	suggester, err := newSuggester(ctx, config.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("building suggester: %w", err)
	}

	deps := pipeline.Deps{
		Fixtures:  fixtures.NewLoader(config.Fixtures, logger),
		Sanitizer: sanitize.Default(config.Sanitize.ExtraDenyKeys...),
		Suggester: suggester,
		Recorder:  fixtures.NewRecorder(opts.PersistIntermediateOutputs, config.Fixtures, logger),
		Logger:    logger,
	}

	if live && !opts.UseLocalFixtures {
		client, err := newTinderClient(config.Tinder, logger)
		if err != nil {
			return nil, fmt.Errorf("building tinder client: %w", err)
		}
		deps.Upstream = client
	}

	return pipeline.New(deps, opts), nil
}
