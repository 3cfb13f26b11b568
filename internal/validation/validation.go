// Package validation checks client-supplied identifiers before they
// reach the GitHub API or the session store.
package validation

import (
	"regexp"

	apperrors "github.com/MonkeyKingDev/git-peek/internal/errors"
)

const maxNameLength = 100

var (
	namePattern      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{32,}$`)
)

// RepoName rejects owner or repository names that could not be valid on
// GitHub, before any upstream call is made.
func RepoName(name string) error {
	if name == "" {
		return apperrors.New(apperrors.ErrorTypeValidation, "name must not be empty")
	}
	if len(name) > maxNameLength {
		return apperrors.Newf(apperrors.ErrorTypeValidation, "name exceeds %d characters", maxNameLength)
	}
	if !namePattern.MatchString(name) {
		return apperrors.New(apperrors.ErrorTypeValidation, "name contains invalid characters")
	}
	return nil
}

// RepoPath validates an owner/repo pair.
func RepoPath(owner, repo string) error {
	if err := RepoName(owner); err != nil {
		return err
	}
	return RepoName(repo)
}

// SessionID rejects identifiers that cannot have been issued by the
// session store.
func SessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return apperrors.New(apperrors.ErrorTypeValidation, "invalid session id")
	}
	return nil
}
