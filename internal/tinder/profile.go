package tinder

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spigell/profile-optimizer/internal/dating"
)

const profilePath = "/profile"

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (dating.Profile, error) {
	q := url.Values{}
	q.Set("locale", locale)
	q.Set("include", strings.Join(profileIncludes, ","))

	var profile dating.Profile
	if err := c.getData(ctx, profilePath, q, &profile); err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return profile, nil
}
