package gemini

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/profile-optimizer/internal/ai"
	"github.com/spigell/profile-optimizer/internal/dating"
	"github.com/spigell/profile-optimizer/internal/logger"
	"github.com/spigell/profile-optimizer/internal/utils"
)

const (
	Provider = "gemini"

	defaultMaxLogLength = 200
)

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string, schema *genai.Schema) (string, error)
	Model() string
}

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

// suggestionSetSchema mirrors dating.SuggestionSet.
var suggestionSetSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"current":                      stringSchema(),
					"suggestion":                   stringSchema(),
					"example_for_bio":              stringSchema(),
					"example_from_potential_dates": stringSchema(),
				},
				Required: []string{"current", "suggestion", "example_for_bio", "example_from_potential_dates"},
			},
		},
		"common_dates_interest": stringSchema(),
	},
	Required: []string{"suggestions", "common_dates_interest"},
}

type Suggester struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewSuggester(generator jsonGenerator, maxLogLength int, log *zap.Logger) *Suggester {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Suggester{
		generator: generator,
		logger:    logger.WithCommonFields(log, Provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (s *Suggester) Suggest(ctx context.Context, req *ai.Request) (*dating.SuggestionSet, error) {
	payload, err := ai.Payload(req)
	if err != nil {
		return nil, err
	}

	prompt := string(payload)

	s.logger.Debug("gemini generate content request",
		zap.String(logger.FieldStyle, string(ai.ParseStyle(string(req.Style)))),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateJSON(ctx, ai.DeveloperPrompt(req.Style), prompt, suggestionSetSchema)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	set, err := ai.ParseSuggestions(raw)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	return set, nil
}
