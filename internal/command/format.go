package command

import (
	"fmt"
	"strconv"
	"time"
)

// PBNotAvailable is printed when no best time is recorded.
const PBNotAvailable = "N/A"

// FormatNumber renders a coin amount in a short human form (12.3M, 1.2B).
func FormatNumber(n float64) string {
	switch {
	case n < 1_000:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case n < 1_000_000:
		return strconv.FormatFloat(n/1_000, 'f', 1, 64) + "K"
	case n < 1_000_000_000:
		return strconv.FormatFloat(n/1_000_000, 'f', 1, 64) + "M"
	default:
		return strconv.FormatFloat(n/1_000_000_000, 'f', 1, 64) + "B"
	}
}

// FormatLevel renders a fractional level with two decimals.
func FormatLevel(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPB renders a dungeon best time as m:ss, or the not-available
// sentinel when no time is recorded.
func FormatPB(d *time.Duration) string {
	if d == nil {
		return PBNotAvailable
	}
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
