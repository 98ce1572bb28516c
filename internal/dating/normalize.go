package dating

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	DefaultBirthDate = "1995-01-01T00:00:00.000Z"
	DefaultAgeMin    = 18
	DefaultAgeMax    = 30
)

// SimpleProfile is the short profile description accepted from callers.
type SimpleProfile struct {
	Spotify     bool     `mapstructure:"spotify" json:"spotify"`
	Traveling   bool     `mapstructure:"traveling" json:"traveling"`
	Bio         string   `mapstructure:"bio" json:"bio"`
	BirthDate   string   `mapstructure:"birth_date" json:"birth_date"`
	Interests   []string `mapstructure:"interest" json:"interest"`
	Descriptors []string `mapstructure:"descriptors" json:"descriptors"`
	Job         *Job     `mapstructure:"job" json:"job,omitempty"`
}

type Job struct {
	Company string `mapstructure:"company" json:"company"`
	Title   string `mapstructure:"job_title" json:"job_title"`
}

// DecodeSimpleProfile decodes a loosely typed JSON object. Unknown fields are
// ignored; fields of the wrong type fail.
func DecodeSimpleProfile(raw map[string]any) (SimpleProfile, error) {
	var profile SimpleProfile

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &profile,
		TagName: "mapstructure",
	})
	if err != nil {
		return profile, fmt.Errorf("creating profile decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return profile, fmt.Errorf("decoding profile: %w", err)
	}

	return profile, nil
}

// Normalize expands a simple profile into the full profile shape. Age filters
// are always 18 to 30.
func Normalize(p SimpleProfile) Profile {
	birthDate := strings.TrimSpace(p.BirthDate)
	if birthDate == "" {
		birthDate = DefaultBirthDate
	}

	interests := make([]any, 0, len(p.Interests))
	for _, interest := range p.Interests {
		if interest == "" {
			continue
		}
		interests = append(interests, map[string]any{"name": interest})
	}

	descriptors := make([]any, 0, len(p.Descriptors))
	for _, descriptor := range p.Descriptors {
		descriptors = append(descriptors, map[string]any{
			"visibility":        "public",
			"choice_selections": descriptor,
		})
	}

	jobs := make([]any, 0, 1)
	if p.Job != nil {
		jobs = append(jobs, map[string]any{
			"company": map[string]any{"displayed": true, "name": p.Job.Company},
			"title":   map[string]any{"displayed": true, "name": p.Job.Title},
		})
	}

	return Profile{
		"spotify": map[string]any{"spotify_connected": p.Spotify},
		"travel":  map[string]any{"is_traveling": p.Traveling},
		UserField: map[string]any{
			"age_filter_max": DefaultAgeMax,
			"age_filter_min": DefaultAgeMin,
			BioField:         p.Bio,
			"birth_date":     birthDate,
			"user_interests": map[string]any{
				"selected_interests": interests,
			},
			"selected_descriptors": descriptors,
			"jobs":                 jobs,
		},
	}
}
