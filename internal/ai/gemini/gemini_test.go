package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/profile-optimizer/internal/ai"
	"github.com/spigell/profile-optimizer/internal/dating"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	text   string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	for _, content := range contents {
		for _, part := range content.Parts {
			f.text += part.Text
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeneratorGenerateJSON(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"a":`, ` 1}`)}
	g := newGenerator(models, "")

	out, err := g.GenerateJSON(context.Background(), "system text", " prompt ", suggestionSetSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != `{"a":1}` {
		t.Fatalf("unexpected output: %q", out)
	}
	if models.model != defaultModel {
		t.Fatalf("expected default model, got %q", models.model)
	}
	if models.config.ResponseMIMEType != "application/json" {
		t.Fatalf("unexpected mime type: %q", models.config.ResponseMIMEType)
	}
	if models.config.SystemInstruction == nil || models.config.SystemInstruction.Parts[0].Text != "system text" {
		t.Fatalf("expected system instruction to be set")
	}
	if models.text != "prompt" {
		t.Fatalf("unexpected prompt text: %q", models.text)
	}
}

func TestGeneratorErrors(t *testing.T) {
	tests := []struct {
		name   string
		models *fakeModels
		prompt string
		want   string
	}{
		{name: "empty prompt", models: &fakeModels{}, prompt: " ", want: "prompt must not be empty"},
		{name: "provider error", models: &fakeModels{err: errors.New("boom")}, prompt: "p", want: "generate content: boom"},
		{name: "empty answer", models: &fakeModels{resp: textResponse(" ")}, prompt: "p", want: "empty response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGenerator(tt.models, "gemini-test")
			_, err := g.GenerateJSON(context.Background(), "", tt.prompt, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	var nilGenerator *Generator
	if _, err := nilGenerator.GenerateJSON(context.Background(), "", "p", nil); err == nil {
		t.Fatalf("expected error for nil generator")
	}
}

func TestSuggesterSuggest(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"suggestions": [{"current": "No bio", "suggestion": "Write one", "example_for_bio": "Coffee first", "example_from_potential_dates": "Alici likes coffee"}], "common_dates_interest": "Coffee"}`)}
	suggester := NewSuggester(newGenerator(models, "gemini-test"), 0, zap.NewNop())

	set, err := suggester.Suggest(context.Background(), &ai.Request{
		Profile: dating.Profile{"user": map[string]any{"bio": "b"}},
		Dates:   []dating.Candidate{{"user": map[string]any{"name": "Alici"}}},
		Style:   ai.StyleSeniorCitizen,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.CommonDatesInterest != "Coffee" || len(set.Suggestions) != 1 {
		t.Fatalf("unexpected set: %+v", set)
	}
	if models.config.ResponseSchema != suggestionSetSchema {
		t.Fatalf("expected suggestion schema to be sent")
	}
	if !strings.Contains(models.config.SystemInstruction.Parts[0].Text, "a senior citizen profile") {
		t.Fatalf("unexpected system instruction")
	}
	if !strings.Contains(models.text, `"dating_profile"`) {
		t.Fatalf("unexpected prompt: %s", models.text)
	}
}

func TestSuggesterInvalidAnswer(t *testing.T) {
	models := &fakeModels{resp: textResponse("not json")}
	suggester := NewSuggester(newGenerator(models, ""), 0, nil)

	_, err := suggester.Suggest(context.Background(), &ai.Request{Profile: dating.Profile{}})
	if err == nil || !strings.Contains(err.Error(), "gemini: parse model response") {
		t.Fatalf("unexpected error: %v", err)
	}
}
