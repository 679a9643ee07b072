package pricing

import "time"

const day = 24 * time.Hour

// WholeDays returns the number of complete days from start to end, truncated toward zero.
// Negative when end precedes start.
func WholeDays(start, end time.Time) int {
	return int(end.Sub(start) / day)
}
