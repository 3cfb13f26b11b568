package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MonkeyKingDev/git-peek/internal/analysis"
	apperrors "github.com/MonkeyKingDev/git-peek/internal/errors"
	"github.com/MonkeyKingDev/git-peek/internal/models"
	"github.com/MonkeyKingDev/git-peek/internal/validation"
	"github.com/MonkeyKingDev/git-peek/internal/window"
)

// AnalysisStream runs the same aggregation as Analysis but delivers
// progress, intermediate data and the final report as Server-Sent
// Events. Progress values are monotone and end at 100; a failed run
// ends with a single error event instead of analysis_complete, never
// both.
func (h *Handlers) AnalysisStream(w http.ResponseWriter, r *http.Request) {
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

	stream, err := newSSEWriter(w)
	if err != nil {
		writeError(w, err)
		return
	}

	h.streamAnalysis(r.Context(), stream, f, owner, repo, windowFromRequest(r))
}

func (h *Handlers) streamAnalysis(ctx context.Context, stream *sseWriter, f RepoFetcher, owner, repo string, win window.Window) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("analysis stream panic", "owner", owner, "repo", repo, "panic", rec)
			stream.fail("Internal error during analysis")
		}
	}()

	if err := stream.progress("repository_info", "Fetching repository information...", 10); err != nil {
		return
	}
	repository, err := f.FetchRepository(ctx, owner, repo)
	if err != nil {
		h.log.Warn("stream aborted on repository fetch", "owner", owner, "repo", repo, "error", err)
		stream.fail(streamErrorMessage(err))
		return
	}
	if err := stream.data(eventRepository, repository); err != nil {
		return
	}

	_ = stream.progress("contributors", "Fetching contributors...", 20)
	contributors := f.ListContributors(ctx, owner, repo)
	if err := stream.data(eventContributors, contributors); err != nil {
		return
	}

	_ = stream.progress("pull_requests", "Fetching PRs for quarterly analysis...", 30)
	prs := f.ListPullRequests(ctx, owner, repo, win)
	_ = stream.progress("pull_requests", fmt.Sprintf("Found %d PRs for quarterly analysis", len(prs)), 35)
	if err := stream.data(eventPullRequests, prs); err != nil {
		return
	}

	_ = stream.progress("commits", "Fetching recent commits for quarterly analysis...", 40)
	commits, ok := h.streamCommitChunks(ctx, stream, f, owner, repo, win)
	if !ok {
		return
	}

	_ = stream.progress("analysis_prep", "Preparing analysis data...", 80)
	// Per-commit diff enrichment is skipped on the streaming path; the
	// report's impact metrics come from the estimator. The empty chunk
	// keeps the event sequence stable for clients.
	if err := stream.chunk(eventDetailedChunk, []models.Commit{}, 0); err != nil {
		return
	}

	_ = stream.progress("analysis", "Generating analysis...", 95)
	report := h.analyzer.Analyze(repository, commits, contributors, prs, analysis.Options{Window: win})
	if err := stream.data(eventAnalysisComplete, report); err != nil {
		return
	}

	_ = stream.progress("complete", "Analysis complete!", 100)
	_ = stream.send(streamEvent{Type: eventStreamComplete})
}

// streamCommitChunks relays commit pages as commits_chunk events and
// returns the accumulated commits. Progress advances 3 points per chunk
// from 40, capped at 70. Returns ok=false when the client went away.
func (h *Handlers) streamCommitChunks(ctx context.Context, stream *sseWriter, f RepoFetcher, owner, repo string, win window.Window) ([]models.Commit, bool) {
	var commits []models.Commit
	chunkIndex := 0

	for chunk := range f.StreamCommitsByDate(ctx, owner, repo, win, h.cfg.Analysis.StreamChunkSize) {
		commits = append(commits, chunk...)
		chunkIndex++

		pct := 40 + chunkIndex*3
		if pct > 70 {
			pct = 70
		}
		if err := stream.progress("commits", fmt.Sprintf("Processed %d commits for quarterly analysis...", len(commits)), pct); err != nil {
			return nil, false
		}
		if err := stream.chunk(eventCommitsChunk, chunk, len(commits)); err != nil {
			return nil, false
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(h.chunkDelay):
		}
	}

	if ctx.Err() != nil {
		return nil, false
	}
	return commits, true
}

// streamErrorMessage renders a fetch failure as the user-facing message
// carried by the stream's error event.
func streamErrorMessage(err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		return "Repository not found or access denied"
	case apperrors.ErrorTypeAuth:
		return "Authentication failed. Please check your GitHub token."
	case apperrors.ErrorTypeTimeout:
		return "Request timed out. Please try again."
	case apperrors.ErrorTypeNetwork:
		return "Network error: " + err.Error()
	default:
		return "GitHub API error: " + err.Error()
	}
}
