package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/ai"
	"github.com/spigell/profile-optimizer/internal/dating"
	"github.com/spigell/profile-optimizer/internal/logger"
	"github.com/spigell/profile-optimizer/internal/utils"
)

const (
	Provider = "openai"

	defaultModel        = "gpt-4o-mini"
	defaultMaxLogLength = 200
	schemaName          = "date_profile_suggestion"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

type Config struct {
	APIKey       string
	Model        string
	BaseURL      string
	MaxLogLength int
}

// Suggester asks an OpenAI chat model for a suggestion set using a strict
// JSON schema response format.
type Suggester struct {
	client    chatCompleter
	model     string
	schema    *jsonschema.Definition
	logger    *zap.Logger
	maxLogLen int
}

func NewSuggester(cfg Config, log *zap.Logger) (*Suggester, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	clientCfg := goopenai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return newSuggester(goopenai.NewClientWithConfig(clientCfg), cfg.Model, cfg.MaxLogLength, log)
}

func newSuggester(client chatCompleter, model string, maxLogLength int, log *zap.Logger) (*Suggester, error) {
	schema, err := jsonschema.GenerateSchemaForType(dating.SuggestionSet{})
	if err != nil {
		return nil, fmt.Errorf("generate suggestion schema: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Suggester{
		client:    client,
		model:     model,
		schema:    schema,
		logger:    logger.WithCommonFields(log, Provider, model),
		maxLogLen: maxLogLength,
	}, nil
}

func (s *Suggester) Model() string {
	return s.model
}

func (s *Suggester) Suggest(ctx context.Context, req *ai.Request) (*dating.SuggestionSet, error) {
	payload, err := ai.Payload(req)
	if err != nil {
		return nil, err
	}

	instruction := ai.DeveloperPrompt(req.Style)

	s.logger.Debug("openai chat completion request",
		zap.String(logger.FieldStyle, string(ai.ParseStyle(string(req.Style)))),
		zap.Int("payload_length", utf8.RuneCount(payload)),
		zap.String("payload_preview", utils.TruncateForLog(string(payload), s.maxLogLen)),
	)

	resp, err := s.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: s.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: instruction},
			{Role: goopenai.ChatMessageRoleUser, Content: string(payload)},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: s.schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("openai api returned no choices")
	}

	message := resp.Choices[0].Message
	if refusal := strings.TrimSpace(message.Refusal); refusal != "" {
		return nil, fmt.Errorf("openai model refused: %s", refusal)
	}

	s.logger.Debug("openai chat completion response",
		zap.Int("response_length", utf8.RuneCountInString(message.Content)),
		zap.String("response_preview", utils.TruncateForLog(message.Content, s.maxLogLen)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return ai.ParseSuggestions(message.Content)
}
