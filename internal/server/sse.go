package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/MonkeyKingDev/git-peek/internal/errors"
)

// streamEvent is one Server-Sent Events payload. Every event carries a
// Type; the other fields depend on it: progress events fill Step,
// Message and Progress, data events fill Data, chunk events add
// TotalSoFar, error events fill Message only.
type streamEvent struct {
	Type       string `json:"type"`
	Step       string `json:"step,omitempty"`
	Message    string `json:"message,omitempty"`
	Progress   int    `json:"progress,omitempty"`
	Data       any    `json:"data,omitempty"`
	TotalSoFar *int   `json:"total_so_far,omitempty"`
}

// Event types emitted over the analysis stream, in protocol order.
const (
	eventProgress         = "progress"
	eventRepository       = "repository"
	eventContributors     = "contributors"
	eventPullRequests     = "pull_requests"
	eventCommitsChunk     = "commits_chunk"
	eventDetailedChunk    = "detailed_commits_chunk"
	eventAnalysisComplete = "analysis_complete"
	eventStreamComplete   = "stream_complete"
	eventError            = "error"
)

// sseWriter frames JSON events into the text/event-stream wire format
// and flushes after every write so the client sees events as they
// happen, not when the response buffer fills.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, apperrors.New(apperrors.ErrorTypeInternal, "response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")

	return &sseWriter{w: w, flusher: flusher}, nil
}

func (s *sseWriter) send(ev streamEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal stream event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *sseWriter) progress(step, message string, pct int) error {
	return s.send(streamEvent{Type: eventProgress, Step: step, Message: message, Progress: pct})
}

func (s *sseWriter) data(eventType string, data any) error {
	return s.send(streamEvent{Type: eventType, Data: data})
}

// chunk emits a data slice plus the running total delivered so far.
func (s *sseWriter) chunk(eventType string, data any, totalSoFar int) error {
	return s.send(streamEvent{Type: eventType, Data: data, TotalSoFar: &totalSoFar})
}

// fail emits the single terminal error event. The caller must not emit
// anything after it.
func (s *sseWriter) fail(message string) {
	_ = s.send(streamEvent{Type: eventError, Message: message})
}
