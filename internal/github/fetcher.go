package github

import (
	"context"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/MonkeyKingDev/git-peek/internal/config"
	"github.com/MonkeyKingDev/git-peek/internal/models"
	"github.com/MonkeyKingDev/git-peek/internal/window"
)

// Fetcher retrieves repository data through the GitHub REST API.
//
// List operations degrade rather than fail: a page error stops
// pagination and returns whatever accumulated, so one flaky upstream
// page never loses an entire analysis. Only repository metadata and
// account-level listings escalate classified errors.
type Fetcher struct {
	*Client
	analysis config.AnalysisConfig
}

func NewFetcher(client *Client, analysis config.AnalysisConfig) *Fetcher {
	return &Fetcher{Client: client, analysis: analysis}
}

// prLookback bounds PR fetching when the caller gives no window start.
func (f *Fetcher) prLookback() time.Duration {
	days := f.analysis.PRLookbackDays
	if days <= 0 {
		days = 550
	}
	return time.Duration(days) * 24 * time.Hour
}

// FetchRepository gets repository metadata. Unlike the list operations
// this returns a classified error: without metadata there is nothing to
// analyze.
func (f *Fetcher) FetchRepository(ctx context.Context, owner, repo string) (models.Repository, error) {
	if err := f.wait(ctx); err != nil {
		return models.Repository{}, err
	}

	r, _, err := f.api.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return models.Repository{}, classify(err, "fetch repository")
	}
	return repoFromAPI(r), nil
}

// ListCommits pages through repository commits bounded by the window.
// The since/until bounds are pushed to the API so pagination stops at
// the window edge instead of walking the full history.
func (f *Fetcher) ListCommits(ctx context.Context, owner, repo string, w window.Window) []models.Commit {
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: f.pageSize, Page: 1},
	}
	if !w.Since.IsZero() {
		opts.Since = w.Since
	}
	if !w.Until.IsZero() {
		opts.Until = w.Until
	}

	var all []models.Commit
	for {
		if err := f.wait(ctx); err != nil {
			return all
		}

		page, _, err := f.api.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			f.log.Warn("commit fetch degraded", "repo", owner+"/"+repo, "page", opts.Page, "fetched", len(all), "error", err)
			return all
		}
		if len(page) == 0 {
			return all
		}

		for _, rc := range page {
			all = append(all, commitFromAPI(rc))
		}
		if len(page) < f.pageSize {
			return all
		}
		opts.Page++
	}
}

// ListCommitsLimited pages through the most recent commits up to limit.
func (f *Fetcher) ListCommitsLimited(ctx context.Context, owner, repo string, limit int) []models.Commit {
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: f.pageSize, Page: 1},
	}

	var all []models.Commit
	for len(all) < limit {
		if err := f.wait(ctx); err != nil {
			break
		}

		page, _, err := f.api.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			f.log.Warn("commit fetch degraded", "repo", owner+"/"+repo, "page", opts.Page, "fetched", len(all), "error", err)
			break
		}
		if len(page) == 0 {
			break
		}

		for _, rc := range page {
			all = append(all, commitFromAPI(rc))
		}
		if len(page) < f.pageSize {
			break
		}
		opts.Page++
	}

	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// ListContributors returns the first page of the contributor ranking.
// GitHub orders it by contribution count, which is all the report
// needs; an error degrades to an empty roster.
func (f *Fetcher) ListContributors(ctx context.Context, owner, repo string) []models.Contributor {
	if err := f.wait(ctx); err != nil {
		return nil
	}

	page, _, err := f.api.Repositories.ListContributors(ctx, owner, repo, &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: f.pageSize},
	})
	if err != nil {
		f.log.Warn("contributor fetch degraded", "repo", owner+"/"+repo, "error", err)
		return nil
	}

	contributors := make([]models.Contributor, 0, len(page))
	for _, c := range page {
		contributors = append(contributors, models.Contributor{
			Login:         c.GetLogin(),
			Contributions: c.GetContributions(),
			AvatarURL:     c.GetAvatarURL(),
			Type:          c.GetType(),
		})
	}
	return contributors
}

// ListPullRequests pages through pull requests newest first and keeps
// those created inside the window. The list endpoint has no since
// parameter, so filtering is client side with an early exit once a page
// crosses the window start. A zero window start falls back to the
// configured lookback.
func (f *Fetcher) ListPullRequests(ctx context.Context, owner, repo string, w window.Window) []models.PullRequest {
	since := w.Since
	if since.IsZero() {
		since = time.Now().Add(-f.prLookback())
	}

	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: f.pageSize, Page: 1},
	}

	var all []models.PullRequest
	for {
		if err := f.wait(ctx); err != nil {
			return all
		}

		page, _, err := f.api.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			f.log.Warn("pull request fetch degraded", "repo", owner+"/"+repo, "page", opts.Page, "fetched", len(all), "error", err)
			return all
		}
		if len(page) == 0 {
			return all
		}

		for _, pr := range page {
			created := pr.GetCreatedAt().Time
			if created.Before(since) {
				// Sorted newest first: everything after this is older.
				return all
			}
			if !w.Until.IsZero() && !created.Before(w.Until) {
				continue
			}
			all = append(all, prFromAPI(pr))
		}
		if len(page) < f.pageSize {
			return all
		}
		opts.Page++
	}
}

// ListUserRepos pages through the authenticated user's repositories,
// most recently updated first.
func (f *Fetcher) ListUserRepos(ctx context.Context) ([]models.Repository, error) {
	opts := &github.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: f.pageSize, Page: 1},
	}

	var all []models.Repository
	for {
		if err := f.wait(ctx); err != nil {
			return all, err
		}

		page, _, err := f.api.Repositories.List(ctx, "", opts)
		if err != nil {
			return all, classify(err, "list repositories")
		}

		for _, r := range page {
			all = append(all, repoFromAPI(r))
		}
		if len(page) < f.pageSize {
			return all, nil
		}
		opts.Page++
	}
}

// ListStarred pages through the repositories the user has starred.
func (f *Fetcher) ListStarred(ctx context.Context) ([]models.Repository, error) {
	opts := &github.ActivityListStarredOptions{
		ListOptions: github.ListOptions{PerPage: f.pageSize, Page: 1},
	}

	var all []models.Repository
	for {
		if err := f.wait(ctx); err != nil {
			return all, err
		}

		page, _, err := f.api.Activity.ListStarred(ctx, "", opts)
		if err != nil {
			return all, classify(err, "list starred")
		}

		for _, starred := range page {
			all = append(all, repoFromAPI(starred.GetRepository()))
		}
		if len(page) < f.pageSize {
			return all, nil
		}
		opts.Page++
	}
}

// AuthenticatedUser resolves the account behind the token.
func (f *Fetcher) AuthenticatedUser(ctx context.Context) (models.GitHubUser, error) {
	if err := f.wait(ctx); err != nil {
		return models.GitHubUser{}, err
	}

	u, _, err := f.api.Users.Get(ctx, "")
	if err != nil {
		return models.GitHubUser{}, classify(err, "fetch user")
	}
	return models.GitHubUser{
		ID:        u.GetID(),
		Login:     u.GetLogin(),
		Name:      u.GetName(),
		Email:     u.GetEmail(),
		AvatarURL: u.GetAvatarURL(),
	}, nil
}

func repoFromAPI(r *github.Repository) models.Repository {
	return models.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Private:     r.GetPrivate(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
}

func commitFromAPI(rc *github.RepositoryCommit) models.Commit {
	return models.Commit{
		SHA:         rc.GetSHA(),
		AuthorLogin: rc.GetAuthor().GetLogin(),
		AuthorName:  rc.GetCommit().GetAuthor().GetName(),
		AuthorEmail: rc.GetCommit().GetAuthor().GetEmail(),
		Message:     rc.GetCommit().GetMessage(),
		AuthoredAt:  rc.GetCommit().GetAuthor().GetDate().Time,
	}
}

func prFromAPI(pr *github.PullRequest) models.PullRequest {
	out := models.PullRequest{
		Number:      pr.GetNumber(),
		AuthorLogin: pr.GetUser().GetLogin(),
		State:       pr.GetState(),
		CreatedAt:   pr.GetCreatedAt().Time,
	}
	if pr.MergedAt != nil {
		merged := pr.MergedAt.Time
		out.MergedAt = &merged
	}
	return out
}
