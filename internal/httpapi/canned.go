package httpapi

import "github.com/spigell/profile-optimizer/internal/dating"

// CannedSuggestions is returned for profiles without a bio instead of calling
// a model.
func CannedSuggestions() *dating.SuggestionSet {
	return &dating.SuggestionSet{
		Suggestions: []dating.Suggestion{
			{
				Current:                   "No bio provided",
				Suggestion:                "Create a more engaging bio that showcases personality; include humor or interesting experiences.",
				ExampleForBio:             "Just a yoga enthusiast on a quest for the best avocado toast in town!",
				ExampleFromPotentialDates: "Natas shares a playful bio about spaghetti being her love language.",
			},
			{
				Current:                   "Limited job info",
				Suggestion:                "Include more about your occupation or what you’re passionate about in your professional life.",
				ExampleForBio:             "Currently a freelance creative and always looking for inspiration.",
				ExampleFromPotentialDates: "Syahi and Kyra mentioned their jobs, which adds to connection potential.",
			},
			{
				Current:                   "No common interests listed",
				Suggestion:                "Engage potential matches by adding common interests like 'Dining out' or 'Traveling'.",
				ExampleForBio:             "A foodie at heart who loves exploring new restaurants and traveling to unique places.",
				ExampleFromPotentialDates: "Alici and Amali enjoy food tours and trying new cuisines.",
			},
		},
		CommonDatesInterest: "Hiking and exploring coffee shops",
	}
}
