package apollo

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"coffeechat/internal/ratelimit"
)

const (
	apiURL = "https://api.apollo.io/v1"

	// Max value for search per page.
	perPageMax = 100

	defaultAcquireTimeout = 30 * time.Second
)

// ErrRateLimited is returned when a permit could not be acquired before the
// blocking timeout elapsed. Callers treat it as a service failure for the
// affected stage.
var ErrRateLimited = errors.New("apollo rate limit exceeded")

// Client wraps the Apollo people-search API. Every outbound request passes
// through the shared rate limiter before hitting the network.
type Client struct {
	apiKey  string
	logger  *zap.Logger
	limiter *ratelimit.Limiter

	HTTPClient     *http.Client
	APIURL         string
	AcquireTimeout time.Duration
}

func New(apiKey string, limiter *ratelimit.Limiter, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		limiter: limiter,
		logger:  logger,
		APIURL:  apiURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		AcquireTimeout: defaultAcquireTimeout,
	}
}

// acquire blocks on the shared limiter until a permit frees up or the
// configured timeout passes.
func (c *Client) acquire() error {
	if c.limiter == nil {
		return nil
	}
	if !c.limiter.Acquire(true, c.AcquireTimeout) {
		return ErrRateLimited
	}
	return nil
}
