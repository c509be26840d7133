package scoring

import "time"

// NextStreak returns the consecutive-day streak after a result is
// finalized at now. The streak increments at most once per UTC calendar
// day: a second finalization on the same day leaves it unchanged, a
// finalization on the day after the last activity extends it, and any
// larger gap resets it to 1.
func NextStreak(current int, lastActive *time.Time, now time.Time) (streak int, changed bool) {
	today := now.UTC().Truncate(24 * time.Hour)

	if lastActive == nil {
		return 1, true
	}

	last := lastActive.UTC().Truncate(24 * time.Hour)
	switch {
	case last.Equal(today):
		return current, false
	case today.Sub(last) == 24*time.Hour:
		return current + 1, true
	default:
		return 1, true
	}
}
