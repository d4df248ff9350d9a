package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// parseDuration parses duration strings like "30d", "6M", "1y", "2w"
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	// Get the numeric part and unit
	var value int
	var unit string

	for i, r := range s {
		if r < '0' || r > '9' {
			v, err := strconv.Atoi(s[:i])
			if err != nil {
				return 0, fmt.Errorf("invalid duration value: %s", s)
			}
			value = v
			unit = strings.ToLower(s[i:])
			break
		}
	}

	var per time.Duration
	switch unit {
	case "h", "hour", "hours":
		per = time.Hour
	case "d", "day", "days":
		per = 24 * time.Hour
	case "w", "week", "weeks":
		per = 7 * 24 * time.Hour
	case "m", "month", "months":
		per = 30 * 24 * time.Hour
	case "y", "year", "years":
		per = 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid duration unit: %s (use h, d, w, M, or y)", unit)
	}

	if int64(value) > math.MaxInt64/int64(per) {
		return 0, fmt.Errorf("duration too large: %s", s)
	}
	return time.Duration(value) * per, nil
}

// formatTimeSince formats the time elapsed since t relative to now.
func formatTimeSince(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	duration := now.Sub(t)
	if duration < 0 {
		return "in the future"
	}

	days := int(duration.Hours() / 24)
	switch {
	case days == 0:
		hours := int(duration.Hours())
		if hours == 0 {
			return "less than an hour ago"
		} else if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case days < 365:
		months := days / 30
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := days / 365
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}
