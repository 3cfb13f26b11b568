package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MonkeyKingDev/git-peek/internal/auth"
	"github.com/MonkeyKingDev/git-peek/internal/logging"
)

// NewRouter assembles the HTTP surface: auth flow, repository listing
// and the analysis endpoints, behind logging, recovery, security
// headers and per-IP rate limiting.
func NewRouter(h *Handlers, authSvc *auth.Service, logger *logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	r.Use(SecurityHeadersMiddleware)
	r.Use(NewRateLimiter(100, time.Minute).Middleware)

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", authSvc.Login)
		r.Get("/callback", authSvc.Callback)
		r.Get("/user", authSvc.User)
		r.Post("/logout", authSvc.Logout)
	})

	r.Route("/api/github", func(r chi.Router) {
		r.Get("/repositories", h.Repositories)
		r.Get("/starred", h.Starred)
		r.Get("/repository/{owner}/{repo}/analysis", h.Analysis)
		r.Get("/repository/{owner}/{repo}/analysis/stream", h.AnalysisStream)
	})

	return r
}
