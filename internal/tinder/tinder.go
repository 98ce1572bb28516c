package tinder

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/logger"
)

const (
	apiURL = "https://api.gotinder.com/v2"
	locale = "en"

	// DefaultIterations is the number of recommendation pages fetched per run.
	DefaultIterations = 5
	// DefaultInterval is the pause between two recommendation requests.
	DefaultInterval = 60 * time.Second
)

// profileIncludes are the profile sections requested from the API.
var profileIncludes = []string{"instagram", "likes", "profile_meter", "spotify", "travel", "user"}

type Client struct {
	token      string
	sessionID  string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	// Iterations bounds the number of recommendation requests in GetDates.
	Iterations int
	// Interval is the mandatory delay between recommendation requests.
	Interval time.Duration
}

func New(log *zap.Logger, token string) *Client {
	return &Client{
		token:     token,
		sessionID: uuid.NewString(),
		APIURL:    apiURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:     logger.OrNop(log),
		Iterations: DefaultIterations,
		Interval:   DefaultInterval,
	}
}

// SessionID is sent as app-session-id with every request.
func (c *Client) SessionID() string {
	return c.sessionID
}
