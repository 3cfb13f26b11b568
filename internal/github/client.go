package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"

	"github.com/MonkeyKingDev/git-peek/internal/config"
	apperrors "github.com/MonkeyKingDev/git-peek/internal/errors"
	"github.com/MonkeyKingDev/git-peek/internal/logging"
)

const (
	defaultRateLimit = 10
	defaultPageSize  = 100
)

// Client wraps the GitHub API client with rate limiting. One Client is
// created per request with the session's OAuth token.
type Client struct {
	api      *github.Client
	limiter  *rate.Limiter
	pageSize int
	cfg      config.GitHubConfig
	log      *logging.Logger
}

// NewClient creates a rate-limited GitHub client for one access token.
// cfg.BaseURL, when set, redirects all calls (tests, GitHub Enterprise).
func NewClient(token string, cfg config.GitHubConfig, log *logging.Logger) (*Client, error) {
	api := github.NewClient(nil).WithAuthToken(token)

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github base url %q: %w", cfg.BaseURL, err)
		}
		api.BaseURL = u
		api.UploadURL = u
	}

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	if log == nil {
		log = logging.New(logging.DefaultConfig("production"))
	}

	return &Client{
		api:      api,
		limiter:  rate.NewLimiter(rate.Limit(rateLimit), 1),
		pageSize: pageSize,
		cfg:      cfg,
		log:      log.With("component", "github"),
	}, nil
}

// wait blocks until the rate limiter admits the next API call.
func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// classify maps a go-github error onto the typed error kinds the HTTP
// layer translates into status codes.
func classify(err error, op string) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return apperrors.Wrap(err, apperrors.ErrorTypeNotFound, op)
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.Wrap(err, apperrors.ErrorTypeAuth, op)
		default:
			return apperrors.Wrap(err, apperrors.ErrorTypeExternal, op)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.ErrorTypeTimeout, op)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperrors.Wrap(err, apperrors.ErrorTypeTimeout, op)
		}
		return apperrors.Wrap(err, apperrors.ErrorTypeNetwork, op)
	}

	return apperrors.Wrap(err, apperrors.ErrorTypeExternal, op)
}
