package auth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	apperrors "github.com/MonkeyKingDev/git-peek/internal/errors"
	"github.com/MonkeyKingDev/git-peek/internal/session"
	"github.com/MonkeyKingDev/git-peek/internal/validation"
)

// Login starts the OAuth flow. The frontend opens the returned URL in
// the browser; state ties the eventual callback to this request.
func (s *Service) Login(w http.ResponseWriter, r *http.Request) {
	state := s.states.Issue()
	redirectURI := callbackURL(r)

	authURL := s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	writeJSON(w, http.StatusOK, map[string]string{
		"auth_url": authURL,
		"state":    state,
	})
}

// Callback completes the OAuth flow and redirects the browser to the
// frontend dashboard carrying the new session ID.
func (s *Service) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if !s.states.Consume(state) {
		writeError(w, apperrors.New(apperrors.ErrorTypeValidation, "invalid state parameter"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperrors.New(apperrors.ErrorTypeValidation, "authorization code not provided"))
		return
	}

	sess, err := s.exchange(r.Context(), code)
	if err != nil {
		s.log.Warn("oauth callback failed", "error", err)
		writeError(w, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("%s/dashboard?session=%s", s.frontendURL, sess.ID), http.StatusFound)
}

// User returns the account bound to the session.
func (s *Service) User(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.User)
}

// Logout deletes the session. Deleting an unknown session is not an
// error; the outcome is the same.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session_id")
	if err := validation.SessionID(id); err != nil {
		writeError(w, err)
		return
	}

	err := s.sessions.Delete(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": err == nil,
		"message": "Logged out successfully",
	})
}

// ResolveSession validates the session_id query parameter and loads the
// session. Exposed for the API middleware.
func (s *Service) ResolveSession(r *http.Request) (session.Session, error) {
	return s.resolveSession(r)
}

func (s *Service) resolveSession(r *http.Request) (session.Session, error) {
	id := r.URL.Query().Get("session_id")
	if err := validation.SessionID(id); err != nil {
		return session.Session{}, err
	}
	return s.sessions.Get(id)
}

func callbackURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/auth/callback", scheme, r.Host)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.HTTPStatus(err), map[string]string{"error": err.Error()})
}
