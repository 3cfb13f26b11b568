package models

import "time"

// Repository holds the GitHub repository metadata echoed back in every
// analysis report.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Private     bool      `json:"private"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GitHubUser is the authenticated user behind a session.
type GitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url"`
}

// Commit is a single repository commit as returned by the list endpoint.
// AuthorLogin is the linked GitHub account and may be empty for commits
// authored outside the platform; AuthorName is the raw commit metadata.
// A zero AuthoredAt marks a record whose date could not be parsed; such
// records are excluded from time-bucketed statistics.
type Commit struct {
	SHA         string        `json:"sha"`
	AuthorLogin string        `json:"author_login,omitempty"`
	AuthorName  string        `json:"author_name,omitempty"`
	AuthorEmail string        `json:"author_email,omitempty"`
	Message     string        `json:"message,omitempty"`
	AuthoredAt  time.Time     `json:"authored_at"`
	Detail      *CommitDetail `json:"detailed_stats,omitempty"`
}

// CommitDetail carries file-level diff stats from the single-commit
// endpoint. Only present on enriched commits.
type CommitDetail struct {
	Files     []string `json:"files"`
	Additions int      `json:"additions"`
	Deletions int      `json:"deletions"`
}

// Author returns the identity used for aggregation: the platform login
// when the commit is linked to an account, the raw name otherwise.
func (c Commit) Author() string {
	if c.AuthorLogin != "" {
		return c.AuthorLogin
	}
	if c.AuthorName != "" {
		return c.AuthorName
	}
	return "Unknown"
}

// PullRequest is a single pull request. MergedAt being non-nil implies
// the PR was merged regardless of State.
type PullRequest struct {
	Number      int        `json:"number"`
	AuthorLogin string     `json:"author_login"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	MergedAt    *time.Time `json:"merged_at,omitempty"`
}

// Merged reports whether the pull request was merged.
func (pr PullRequest) Merged() bool { return pr.MergedAt != nil }

// Contributor is a repository contributor. Contributions is the lifetime
// commit count per GitHub, not scoped to any analysis window.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Type          string `json:"type,omitempty"`
}
