package record

import (
	"slices"
	"time"

	"github.com/calvinalkan/daybook/pkg/query"
)

// CurrentStreak counts consecutive periods (days or ISO weeks, by frequency)
// with a completion, ending at the period of now. The current period may
// still be open: a streak through yesterday is not broken until today ends.
func CurrentStreak(h Habit, now time.Time) int {
	done := h.periods()
	if len(done) == 0 {
		return 0
	}

	set := make(map[int]bool, len(done))
	for _, p := range done {
		set[p] = true
	}

	cur := periodOf(h.Frequency, now)
	if !set[cur] {
		cur--
	}

	streak := 0
	for set[cur] {
		streak++
		cur--
	}

	return streak
}

// BestStreak returns the longest run of consecutive periods ever completed.
func BestStreak(h Habit) int {
	done := h.periods()
	if len(done) == 0 {
		return 0
	}

	best, run := 1, 1

	for i := 1; i < len(done); i++ {
		if done[i] == done[i-1]+1 {
			run++
		} else {
			run = 1
		}

		best = max(best, run)
	}

	return best
}

// DoneInPeriod reports whether h has a completion in the period of now.
func DoneInPeriod(h Habit, now time.Time) bool {
	cur := periodOf(h.Frequency, now)

	return slices.Contains(h.periods(), cur)
}

// periods returns the sorted, unique period numbers h was completed in.
func (h Habit) periods() []int {
	out := make([]int, 0, len(h.Completions))

	for _, date := range h.Completions {
		t, err := time.Parse(query.DateLayout, date)
		if err != nil {
			continue
		}

		out = append(out, periodOf(h.Frequency, t))
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// 1970-01-01 was a Thursday; shifting by 3 days puts week boundaries on Monday.
func periodOf(frequency string, t time.Time) int {
	day := int(dayStart(t).Unix() / 86400)

	if frequency == FrequencyWeekly {
		return floorDiv(day+3, 7)
	}

	return day
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}
