// Package report selects the pull requests merged during the trailing week
// and renders them as Slack mrkdwn text.
package report

import (
	"fmt"
	"strings"
	"time"

	"weeklyworks/pkg/models"
)

// WindowDays is the length of the reporting window.
const WindowDays = 7

const dateLayout = "2006-01-02"

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// NewWindow returns [now-7d, now) in UTC.
func NewWindow(now time.Time) models.TimeWindow {
	end := now.UTC()
	return models.TimeWindow{
		Start: end.AddDate(0, 0, -WindowDays),
		End:   end,
	}
}

// SelectInWindow keeps the merged pull requests whose merge time falls in w,
// preserving input order.
func SelectInWindow(prs []models.PullRequest, w models.TimeWindow) []models.PullRequest {
	var selected []models.PullRequest
	for _, pr := range prs {
		if pr.Merged() && w.Contains(*pr.MergedAt) {
			selected = append(selected, pr)
		}
	}
	return selected
}

// FormatLine renders one pull request as a linked title followed by its author.
func FormatLine(pr models.PullRequest) string {
	return fmt.Sprintf("「%s」 by %s",
		link(pr.HTMLURL, pr.Title),
		link(pr.User.HTMLURL, pr.User.Login))
}

// FormatSummary renders the header line. A zero count produces a sentence
// without any number so readers cannot mistake it for a tally.
func FormatSummary(repoName, repoURL string, count int, start, end time.Time) string {
	prefix := "【" + link(repoURL, repoName) + "】"
	if count == 0 {
		return prefix + "No pull requests were completed this week."
	}
	return fmt.Sprintf("%sThis week, *%d* pull request(s) were completed (%s ~ %s).",
		prefix, count,
		start.UTC().Format(dateLayout),
		end.UTC().Format(dateLayout))
}

// BuildMessage filters prs to w and renders the weekly message for repo.
func BuildMessage(repo models.Repository, prs []models.PullRequest, w models.TimeWindow) models.Message {
	selected := SelectInWindow(prs, w)

	lines := make([]string, 0, len(selected))
	for _, pr := range selected {
		lines = append(lines, FormatLine(pr))
	}

	return models.Message{
		Header: FormatSummary(repo.FullName, repo.HTMLURL, len(selected), w.Start, w.End),
		Body:   strings.Join(lines, "\n"),
		Count:  len(selected),
	}
}

func link(url, text string) string {
	return "<" + url + "|" + mrkdwnEscaper.Replace(text) + ">"
}
