package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"

	"github.com/calvinalkan/daybook/internal/record"
	"github.com/calvinalkan/daybook/pkg/query"
)

// parseDay turns user input into YYYY-MM-DD relative to now. Besides the
// formats dateparse knows it accepts today, tomorrow and yesterday.
// Empty input stays empty.
func parseDay(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "today":
		return now.Format(query.DateLayout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(query.DateLayout), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(query.DateLayout), nil
	}

	t, err := dateparse.ParseIn(s, now.Location())
	if err != nil {
		return "", fmt.Errorf("%w: %q", record.ErrInvalidDate, s)
	}

	return t.Format(query.DateLayout), nil
}

// stamp formats t with its distance from now, e.g. "2024-03-08T10:00:00Z (2 days ago)".
func stamp(t, now time.Time) string {
	return t.Format(time.RFC3339) + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}
