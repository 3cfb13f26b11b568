// Package auth implements the GitHub OAuth login flow. Access tokens
// are exchanged server side and live only inside the session store;
// the browser ever sees only the opaque session ID.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/MonkeyKingDev/git-peek/internal/config"
	apperrors "github.com/MonkeyKingDev/git-peek/internal/errors"
	"github.com/MonkeyKingDev/git-peek/internal/github"
	"github.com/MonkeyKingDev/git-peek/internal/logging"
	"github.com/MonkeyKingDev/git-peek/internal/models"
	"github.com/MonkeyKingDev/git-peek/internal/session"
)

// UserFetcher resolves the GitHub account behind a fresh access token.
type UserFetcher func(ctx context.Context, accessToken string) (models.GitHubUser, error)

// Service drives the OAuth dance and session issuance.
type Service struct {
	oauth       *oauth2.Config
	sessions    session.Store
	states      *session.StateStore
	frontendURL string
	fetchUser   UserFetcher
	log         *logging.Logger
}

// Option adjusts a Service, mainly for tests.
type Option func(*Service)

// WithEndpoint replaces the GitHub OAuth endpoint.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(s *Service) { s.oauth.Endpoint = endpoint }
}

// WithUserFetcher replaces how the authenticated user is resolved.
func WithUserFetcher(f UserFetcher) Option {
	return func(s *Service) { s.fetchUser = f }
}

func NewService(cfg *config.Config, sessions session.Store, log *logging.Logger, opts ...Option) *Service {
	if log == nil {
		log = logging.New(logging.DefaultConfig(cfg.Env))
	}

	s := &Service{
		oauth: &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			Scopes:       []string{"repo", "read:org"},
			Endpoint:     githuboauth.Endpoint,
		},
		sessions:    sessions,
		states:      session.NewStateStore(0),
		frontendURL: cfg.FrontendURL,
		fetchUser:   defaultUserFetcher(cfg.GitHub, log),
		log:         log.With("component", "auth"),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// defaultUserFetcher asks the GitHub API who owns the token.
func defaultUserFetcher(cfg config.GitHubConfig, log *logging.Logger) UserFetcher {
	return func(ctx context.Context, accessToken string) (models.GitHubUser, error) {
		client, err := github.NewClient(accessToken, cfg, log)
		if err != nil {
			return models.GitHubUser{}, err
		}
		return github.NewFetcher(client, config.AnalysisConfig{}).AuthenticatedUser(ctx)
	}
}

// exchange turns an authorization code into a session.
func (s *Service) exchange(ctx context.Context, code string) (session.Session, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return session.Session{}, apperrors.Wrap(err, apperrors.ErrorTypeAuth, "token exchange failed")
	}
	if token.AccessToken == "" {
		return session.Session{}, apperrors.New(apperrors.ErrorTypeAuth, "no access token received")
	}

	user, err := s.fetchUser(ctx, token.AccessToken)
	if err != nil {
		return session.Session{}, apperrors.Wrap(err, apperrors.ErrorTypeAuth, "fetch user failed")
	}

	sess, err := s.sessions.Create(token.AccessToken, user)
	if err != nil {
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("session created", "user", user.Login)
	return sess, nil
}
