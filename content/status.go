package content

import "strings"

// Status is the health a piece of content reports.
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusProgressing
	StatusDegraded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "FAILED"
	case StatusDegraded:
		return "DEGRADED"
	case StatusProgressing:
		return "PROGRESSING"
	case StatusHealthy:
		return "HEALTHY"
	default:
		return "UNKNOWN"
	}
}

type keywordTier struct {
	status Status
	words  []string
}

// Checked in order, so the most severe tier wins.
var statusKeywords = []keywordTier{
	{StatusFailed, []string{
		"failed", "failure", "error", "crashloop", "crash", "down", "outage",
		"unhealthy", "rollback", "rolled back", "aborted", "fatal",
	}},
	{StatusDegraded, []string{
		"degraded", "warning", "warn", "partial", "unstable", "slow",
		"retrying", "pending",
	}},
	{StatusProgressing, []string{
		"progressing", "deploying", "rolling", "in progress", "updating",
		"starting", "building", "scaling", "syncing",
	}},
	{StatusHealthy, []string{
		"healthy", "ready", "success", "succeeded", "ok", "up", "running",
		"available", "synced", "passing", "green",
	}},
}

// ClassifyStatus picks a status from free text by keyword.
func ClassifyStatus(text string) Status {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(words) == 0 {
		return StatusUnknown
	}
	joined := " " + strings.Join(words, " ") + " "
	for _, tier := range statusKeywords {
		for _, kw := range tier.words {
			if strings.Contains(joined, " "+kw+" ") {
				return tier.status
			}
		}
	}
	return StatusUnknown
}
