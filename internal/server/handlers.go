package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MonkeyKingDev/git-peek/internal/analysis"
	"github.com/MonkeyKingDev/git-peek/internal/auth"
	"github.com/MonkeyKingDev/git-peek/internal/config"
	gh "github.com/MonkeyKingDev/git-peek/internal/github"
	"github.com/MonkeyKingDev/git-peek/internal/logging"
	"github.com/MonkeyKingDev/git-peek/internal/models"
	"github.com/MonkeyKingDev/git-peek/internal/validation"
	"github.com/MonkeyKingDev/git-peek/internal/window"
)

// RepoFetcher is the slice of the GitHub fetcher the handlers consume.
// *github.Fetcher satisfies it; tests substitute stubs.
type RepoFetcher interface {
	FetchRepository(ctx context.Context, owner, repo string) (models.Repository, error)
	ListCommits(ctx context.Context, owner, repo string, w window.Window) []models.Commit
	ListContributors(ctx context.Context, owner, repo string) []models.Contributor
	ListPullRequests(ctx context.Context, owner, repo string, w window.Window) []models.PullRequest
	StreamCommitsByDate(ctx context.Context, owner, repo string, w window.Window, chunkSize int) <-chan []models.Commit
	ListUserRepos(ctx context.Context) ([]models.Repository, error)
	ListStarred(ctx context.Context) ([]models.Repository, error)
}

// FetcherFactory builds a fetcher bound to one session's access token.
type FetcherFactory func(token string) (RepoFetcher, error)

// Handlers serves the repository analysis API. Each request resolves
// its session and gets a token-scoped fetcher from the factory.
type Handlers struct {
	cfg      *config.Config
	auth     *auth.Service
	analyzer *analysis.Analyzer
	fetchers FetcherFactory
	log      *logging.Logger

	// chunkDelay paces commits_chunk events so slow clients can keep
	// up with rendering. Tests set it to zero.
	chunkDelay time.Duration
}

// HandlerOption customizes Handlers construction.
type HandlerOption func(*Handlers)

// WithFetcherFactory replaces the real GitHub-backed factory.
func WithFetcherFactory(f FetcherFactory) HandlerOption {
	return func(h *Handlers) { h.fetchers = f }
}

// WithChunkDelay overrides the pause between streamed commit chunks.
func WithChunkDelay(d time.Duration) HandlerOption {
	return func(h *Handlers) { h.chunkDelay = d }
}

// NewHandlers wires the API handlers against the auth service and the
// GitHub API.
func NewHandlers(cfg *config.Config, authSvc *auth.Service, log *logging.Logger, opts ...HandlerOption) *Handlers {
	if log == nil {
		log = logging.New(logging.DefaultConfig(cfg.Env))
	}
	h := &Handlers{
		cfg:        cfg,
		auth:       authSvc,
		analyzer:   analysis.NewAnalyzer(log),
		fetchers:   defaultFetcherFactory(cfg, log),
		log:        log,
		chunkDelay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func defaultFetcherFactory(cfg *config.Config, log *logging.Logger) FetcherFactory {
	return func(token string) (RepoFetcher, error) {
		client, err := gh.NewClient(token, cfg.GitHub, log)
		if err != nil {
			return nil, err
		}
		return gh.NewFetcher(client, cfg.Analysis), nil
	}
}

// Root identifies the service.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "git-peek API",
		"status":  "running",
	})
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Repositories lists the authenticated user's repositories.
func (h *Handlers) Repositories(w http.ResponseWriter, r *http.Request) {
	f, ok := h.fetcherFor(w, r)
	if !ok {
		return
	}
	repos, err := f.ListUserRepos(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

// Starred lists the authenticated user's starred repositories.
func (h *Handlers) Starred(w http.ResponseWriter, r *http.Request) {
	f, ok := h.fetcherFor(w, r)
	if !ok {
		return
	}
	repos, err := f.ListStarred(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

// Analysis runs the full aggregation pass for one repository and
// returns the report as a single JSON document. The repository fetch
// gates the request; the remaining facets are fetched concurrently and
// each degrades to empty on failure so one flaky endpoint cannot sink
// an otherwise complete report.
func (h *Handlers) Analysis(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	if err := validation.RepoPath(owner, repo); err != nil {
		writeError(w, err)
		return
	}

	f, ok := h.fetcherFor(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	win := windowFromRequest(r)

	repository, err := f.FetchRepository(ctx, owner, repo)
	if err != nil {
		writeError(w, err)
		return
	}

	var (
		commits      []models.Commit
		contributors []models.Contributor
		prs          []models.PullRequest
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		commits = f.ListCommits(ctx, owner, repo, win)
	}()
	go func() {
		defer wg.Done()
		contributors = f.ListContributors(ctx, owner, repo)
	}()
	go func() {
		defer wg.Done()
		prs = f.ListPullRequests(ctx, owner, repo, win)
	}()
	wg.Wait()

	report := h.analyzer.Analyze(repository, commits, contributors, prs, analysis.Options{Window: win})
	writeJSON(w, http.StatusOK, report)
}

// fetcherFor resolves the request's session and returns a fetcher bound
// to its token. On failure it writes the error response and returns
// ok=false.
func (h *Handlers) fetcherFor(w http.ResponseWriter, r *http.Request) (RepoFetcher, bool) {
	sess, err := h.auth.ResolveSession(r)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	f, err := h.fetchers(sess.AccessToken)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return f, true
}

// windowFromRequest resolves quarter_filter / start_epoch / end_epoch
// into a concrete time window. Missing filter means the current
// quarter; explicit epochs win over the filter.
func windowFromRequest(r *http.Request) window.Window {
	q := r.URL.Query()
	filter := q.Get("quarter_filter")
	if filter == "" {
		filter = window.FilterCurrent
	}
	start, _ := strconv.ParseInt(q.Get("start_epoch"), 10, 64)
	end, _ := strconv.ParseInt(q.Get("end_epoch"), 10, 64)
	return window.Resolve(filter, start, end, time.Now().UTC())
}
