package models

import (
	"time"
)

const StateClosed = "closed"

// PullRequest is the point-in-time view of a GitHub pull request used to
// build the weekly summary.
type PullRequest struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	State    string     `json:"state"`
	HTMLURL  string     `json:"html_url"`
	MergedAt *time.Time `json:"merged_at"` // nil when closed without merging
	User     User       `json:"user"`
}

type User struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url"`
}

// Merged reports whether the pull request was closed by a merge.
func (pr PullRequest) Merged() bool {
	return pr.State == StateClosed && pr.MergedAt != nil
}

// Repository identifies one watched repository for a tick.
type Repository struct {
	Owner    string
	Name     string
	FullName string
	HTMLURL  string
}

// TimeWindow is the half-open range [Start, End).
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Message is a rendered weekly summary. Header names the repository and says
// whether anything was completed; Body holds one line per pull request.
type Message struct {
	Header string
	Body   string
	Count  int
}
