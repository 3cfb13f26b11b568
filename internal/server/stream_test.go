package server

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/MonkeyKingDev/git-peek/internal/errors"
	"github.com/MonkeyKingDev/git-peek/internal/models"
)

// recordedEvent mirrors streamEvent for decoding test responses.
type recordedEvent struct {
	Type       string          `json:"type"`
	Step       string          `json:"step"`
	Message    string          `json:"message"`
	Progress   int             `json:"progress"`
	Data       json.RawMessage `json:"data"`
	TotalSoFar *int            `json:"total_so_far"`
}

func collectStream(t *testing.T, url string) []recordedEvent {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var events []recordedEvent
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev recordedEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())
	return events
}

func eventsOfType(events []recordedEvent, eventType string) []recordedEvent {
	var out []recordedEvent
	for _, ev := range events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func TestAnalysisStream(t *testing.T) {
	now := time.Now().UTC()
	commits := []models.Commit{
		{SHA: "a1", AuthorLogin: "alice", AuthoredAt: now.Add(-24 * time.Hour)},
		{SHA: "a2", AuthorLogin: "alice", AuthoredAt: now.Add(-48 * time.Hour)},
		{SHA: "b1", AuthorLogin: "bob", AuthoredAt: now.Add(-72 * time.Hour)},
		{SHA: "b2", AuthorLogin: "bob", AuthoredAt: now.Add(-96 * time.Hour)},
	}
	srv, sid := newTestServer(t, &stubFetcher{
		repo:     models.Repository{ID: 10, Name: "app", FullName: "acme/app"},
		commits:  commits,
		contribs: []models.Contributor{{Login: "alice", Contributions: 12}},
		chunks:   [][]models.Commit{commits[:2], commits[2:]},
	})

	url := srv.URL + "/api/github/repository/acme/app/analysis/stream?session_id=" + sid +
		"&start_epoch=" + epoch(now.AddDate(0, 0, -30)) + "&end_epoch=" + epoch(now)
	events := collectStream(t, url)
	require.NotEmpty(t, events)

	// Opens with the repository progress step, closes with the
	// terminator.
	assert.Equal(t, eventProgress, events[0].Type)
	assert.Equal(t, "repository_info", events[0].Step)
	assert.Equal(t, 10, events[0].Progress)
	assert.Equal(t, eventStreamComplete, events[len(events)-1].Type)

	// Progress only moves forward and finishes at 100.
	last := 0
	for _, ev := range eventsOfType(events, eventProgress) {
		assert.GreaterOrEqual(t, ev.Progress, last)
		last = ev.Progress
	}
	assert.Equal(t, 100, last)

	repoEvents := eventsOfType(events, eventRepository)
	require.Len(t, repoEvents, 1)
	var repo models.Repository
	require.NoError(t, json.Unmarshal(repoEvents[0].Data, &repo))
	assert.Equal(t, "acme/app", repo.FullName)

	require.Len(t, eventsOfType(events, eventContributors), 1)
	require.Len(t, eventsOfType(events, eventPullRequests), 1)

	chunkEvents := eventsOfType(events, eventCommitsChunk)
	require.Len(t, chunkEvents, 2)
	require.NotNil(t, chunkEvents[1].TotalSoFar)
	assert.Equal(t, 4, *chunkEvents[1].TotalSoFar)

	detailed := eventsOfType(events, eventDetailedChunk)
	require.Len(t, detailed, 1)
	require.NotNil(t, detailed[0].TotalSoFar)
	assert.Equal(t, 0, *detailed[0].TotalSoFar)

	complete := eventsOfType(events, eventAnalysisComplete)
	require.Len(t, complete, 1)
	var report models.RepositoryAnalysis
	require.NoError(t, json.Unmarshal(complete[0].Data, &report))
	assert.Equal(t, 4, report.CodeOwnership.TotalCommits)

	assert.Empty(t, eventsOfType(events, eventError))
}

func TestAnalysisStreamRepoError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			"not found",
			apperrors.New(apperrors.ErrorTypeNotFound, "repository acme/gone not found"),
			"Repository not found or access denied",
		},
		{
			"auth",
			apperrors.New(apperrors.ErrorTypeAuth, "bad credentials"),
			"Authentication failed. Please check your GitHub token.",
		},
		{
			"timeout",
			apperrors.New(apperrors.ErrorTypeTimeout, "deadline exceeded"),
			"Request timed out. Please try again.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, sid := newTestServer(t, &stubFetcher{repoErr: tt.err})

			url := srv.URL + "/api/github/repository/acme/gone/analysis/stream?session_id=" + sid
			events := collectStream(t, url)

			errorEvents := eventsOfType(events, eventError)
			require.Len(t, errorEvents, 1)
			assert.Equal(t, tt.message, errorEvents[0].Message)

			// A failed stream never also reports success.
			assert.Empty(t, eventsOfType(events, eventAnalysisComplete))
			assert.Empty(t, eventsOfType(events, eventStreamComplete))
			assert.Equal(t, eventError, events[len(events)-1].Type)
		})
	}
}

func TestAnalysisStreamValidation(t *testing.T) {
	srv, sid := newTestServer(t, &stubFetcher{})

	resp, err := http.Get(srv.URL + "/api/github/repository/acme/app..evil/analysis/stream?session_id=" + sid)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEqual(t, "text/event-stream", resp.Header.Get("Content-Type"))
}

func TestStreamErrorMessage(t *testing.T) {
	err := apperrors.New(apperrors.ErrorTypeExternal, "502 from upstream")
	assert.Equal(t, "GitHub API error: 502 from upstream", streamErrorMessage(err))

	err = apperrors.New(apperrors.ErrorTypeNetwork, "connection refused")
	assert.Equal(t, "Network error: connection refused", streamErrorMessage(err))
}
