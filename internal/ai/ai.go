package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spigell/profile-optimizer/internal/dating"
)

// Suggester turns a sanitized profile and its candidates into suggestions.
type Suggester interface {
	Suggest(ctx context.Context, req *Request) (*dating.SuggestionSet, error)
}

// Request is the sanitized input of one suggestion call.
type Request struct {
	Profile dating.Profile
	Dates   []dating.Candidate
	Style   MatchStyle
}

// MatchStyle selects whom the profile should be tuned for.
type MatchStyle string

const (
	StylePotential     MatchStyle = "potential"
	StyleTeenager      MatchStyle = "teenager"
	StyleSeniorCitizen MatchStyle = "senior_citizen"
	StyleBusinessman   MatchStyle = "businessman"
)

var styleTargets = map[MatchStyle]string{
	StylePotential:     "the most potential dates profile",
	StyleTeenager:      "an 18 years old teenager profile",
	StyleSeniorCitizen: "a senior citizen profile",
	StyleBusinessman:   "a busy businessman",
}

// Styles lists the supported match styles, default first.
func Styles() []MatchStyle {
	return []MatchStyle{StylePotential, StyleTeenager, StyleSeniorCitizen, StyleBusinessman}
}

// ParseStyle returns the style for s. Unknown values yield StylePotential.
func ParseStyle(s string) MatchStyle {
	style := MatchStyle(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := styleTargets[style]; !ok {
		return StylePotential
	}
	return style
}

// DeveloperPrompt renders the instruction sent ahead of the payload.
func DeveloperPrompt(style MatchStyle) string {
	return "You will receive a JSON that has a dating profile and potential dates profile. " +
		"Provide more than 5 suggestions on how to change the dating profile to match " +
		styleTargets[ParseStyle(string(style))] +
		". Take into account the age, bio, common interest, section_name and any additional information deemed relevant to be compatible, " +
		"and example_from_potential_dates based on suggestion should have some names from potential dates for reference."
}

type payload struct {
	DatingProfile         dating.Profile     `json:"dating_profile"`
	PotentialDatesProfile []dating.Candidate `json:"potential_dates_profile"`
}

// Payload serializes the request into the user message.
func Payload(req *Request) ([]byte, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	data, err := json.Marshal(payload{
		DatingProfile:         req.Profile,
		PotentialDatesProfile: req.Dates,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal suggestion payload: %w", err)
	}

	return data, nil
}

// ParseSuggestions decodes a model answer into a suggestion set. Markdown
// code fences around the JSON are tolerated.
func ParseSuggestions(raw string) (*dating.SuggestionSet, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var set dating.SuggestionSet
	if err := json.Unmarshal([]byte(cleaned), &set); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	return &set, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
