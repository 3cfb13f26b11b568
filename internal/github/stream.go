package github

import (
	"context"

	"github.com/google/go-github/v57/github"

	"github.com/MonkeyKingDev/git-peek/internal/models"
	"github.com/MonkeyKingDev/git-peek/internal/window"
)

// StreamCommits emits the most recent commits in chunks over a channel,
// capped at maxCommits. The channel closes when the cap is reached, the
// history is exhausted, a page fails, or ctx is cancelled.
func (f *Fetcher) StreamCommits(ctx context.Context, owner, repo string, maxCommits, chunkSize int) <-chan []models.Commit {
	out := make(chan []models.Commit)

	go func() {
		defer close(out)

		page := 1
		fetched := 0
		for fetched < maxCommits {
			perPage := min(chunkSize, maxCommits-fetched)
			chunk, err := f.fetchCommitPage(ctx, owner, repo, &github.CommitsListOptions{
				ListOptions: github.ListOptions{PerPage: perPage, Page: page},
			})
			if err != nil || len(chunk) == 0 {
				return
			}
			if fetched+len(chunk) > maxCommits {
				chunk = chunk[:maxCommits-fetched]
			}

			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}

			fetched += len(chunk)
			if len(chunk) < perPage {
				return
			}
			page++
		}
	}()

	return out
}

// StreamCommitsByDate emits all commits inside the window in chunks,
// uncapped. The window bounds are pushed to the API.
func (f *Fetcher) StreamCommitsByDate(ctx context.Context, owner, repo string, w window.Window, chunkSize int) <-chan []models.Commit {
	out := make(chan []models.Commit)

	go func() {
		defer close(out)

		opts := &github.CommitsListOptions{
			ListOptions: github.ListOptions{PerPage: chunkSize, Page: 1},
		}
		if !w.Since.IsZero() {
			opts.Since = w.Since
		}
		if !w.Until.IsZero() {
			opts.Until = w.Until
		}

		for {
			chunk, err := f.fetchCommitPage(ctx, owner, repo, opts)
			if err != nil || len(chunk) == 0 {
				return
			}

			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}

			if len(chunk) < chunkSize {
				return
			}
			opts.Page++
		}
	}()

	return out
}

// StreamDetailedCommits emits recent commits enriched with diff stats,
// in chunks, capped at maxCommits. Enrichment failures leave individual
// commits unenriched.
func (f *Fetcher) StreamDetailedCommits(ctx context.Context, owner, repo string, maxCommits, chunkSize int) <-chan []models.Commit {
	out := make(chan []models.Commit)

	go func() {
		defer close(out)

		page := 1
		fetched := 0
		for fetched < maxCommits {
			perPage := min(chunkSize, maxCommits-fetched)
			chunk, err := f.fetchCommitPage(ctx, owner, repo, &github.CommitsListOptions{
				ListOptions: github.ListOptions{PerPage: perPage, Page: page},
			})
			if err != nil || len(chunk) == 0 {
				return
			}
			if fetched+len(chunk) > maxCommits {
				chunk = chunk[:maxCommits-fetched]
			}

			chunk = f.EnrichCommits(ctx, owner, repo, chunk)

			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}

			fetched += len(chunk)
			if len(chunk) < perPage {
				return
			}
			page++
		}
	}()

	return out
}

// fetchCommitPage is one rate-limited list call shared by the streaming
// paths. Errors are logged and terminate the stream.
func (f *Fetcher) fetchCommitPage(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]models.Commit, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	page, _, err := f.api.Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		f.log.Warn("commit stream stopped", "repo", owner+"/"+repo, "page", opts.Page, "error", err)
		return nil, err
	}

	commits := make([]models.Commit, 0, len(page))
	for _, rc := range page {
		commits = append(commits, commitFromAPI(rc))
	}
	return commits, nil
}
