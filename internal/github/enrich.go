package github

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

// EnrichCommits fetches per-commit diff stats and attaches them to the
// given commits in place of their nil Detail. Commits are processed in
// concurrent batches with a pause between batches to stay within rate
// limits; a failed lookup leaves that commit unenriched rather than
// failing the batch.
func (f *Fetcher) EnrichCommits(ctx context.Context, owner, repo string, commits []models.Commit) []models.Commit {
	batchSize := f.cfg.EnrichBatchSize
	if batchSize <= 0 {
		batchSize = 5
	}

	enriched := make([]models.Commit, len(commits))
	copy(enriched, commits)

	for start := 0; start < len(enriched); start += batchSize {
		end := min(start+batchSize, len(enriched))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				enriched[i].Detail = f.fetchCommitDetail(gctx, owner, repo, enriched[i].SHA)
				return nil
			})
		}
		// Workers never return errors; Wait only joins them.
		_ = g.Wait()

		if ctx.Err() != nil {
			break
		}
		if end < len(enriched) && f.cfg.EnrichDelay > 0 {
			time.Sleep(f.cfg.EnrichDelay)
		}
	}
	return enriched
}

// fetchCommitDetail returns nil when the single-commit endpoint fails;
// the commit then just stays unenriched.
func (f *Fetcher) fetchCommitDetail(ctx context.Context, owner, repo, sha string) *models.CommitDetail {
	if err := f.wait(ctx); err != nil {
		return nil
	}

	rc, _, err := f.api.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		f.log.Debug("commit detail skipped", "repo", owner+"/"+repo, "sha", sha, "error", err)
		return nil
	}

	detail := &models.CommitDetail{
		Additions: rc.GetStats().GetAdditions(),
		Deletions: rc.GetStats().GetDeletions(),
	}
	for _, file := range rc.Files {
		detail.Files = append(detail.Files, file.GetFilename())
	}
	return detail
}
