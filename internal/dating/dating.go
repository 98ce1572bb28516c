// Package dating holds the profile, candidate and suggestion shapes that flow
// through the pipeline, and the pure transformations applied to them.
package dating

const (
	// UserField holds the nested user object of profiles and candidates.
	UserField = "user"
	// IdentityField identifies a candidate inside its user object.
	IdentityField = "_id"
	// NameField is the display name inside a candidate's user object.
	NameField = "name"
	// BioField is the free-text bio inside a user object.
	BioField = "bio"
)

// Profile is the nested profile document of one person.
type Profile map[string]any

// User returns the nested user section, or nil when it is missing.
func (p Profile) User() map[string]any {
	user, _ := p[UserField].(map[string]any)
	return user
}

// Bio returns the user bio, or an empty string when it is missing.
func (p Profile) Bio() string {
	bio, _ := p.User()[BioField].(string)
	return bio
}

// Candidate is one record of the recommendation feed.
type Candidate map[string]any

// User returns the nested user object, or nil when it is missing.
func (c Candidate) User() map[string]any {
	user, _ := c[UserField].(map[string]any)
	return user
}

// Name returns the display name, or an empty string when it is missing.
func (c Candidate) Name() string {
	name, _ := c.User()[NameField].(string)
	return name
}

// Suggestion is one profile improvement.
type Suggestion struct {
	Current                   string `json:"current"`
	Suggestion                string `json:"suggestion"`
	ExampleForBio             string `json:"example_for_bio"`
	ExampleFromPotentialDates string `json:"example_from_potential_dates"`
}

// SuggestionSet is the final output of a pipeline run.
type SuggestionSet struct {
	Suggestions         []Suggestion `json:"suggestions"`
	CommonDatesInterest string       `json:"common_dates_interest"`
}

// CandidatesToMaps converts candidates into plain maps.
func CandidatesToMaps(candidates []Candidate) []map[string]any {
	out := make([]map[string]any, len(candidates))
	for i, c := range candidates {
		out[i] = c
	}
	return out
}

// CandidatesFromMaps converts plain maps into candidates.
func CandidatesFromMaps(items []map[string]any) []Candidate {
	out := make([]Candidate, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
