// Package fstime reads filesystem timestamps and makes them comparable to
// commit timestamps.
package fstime

import (
	"fmt"
	"time"
)

// ChangeTime returns the status change time of path as reported by the
// platform, or an error if the file cannot be stat'ed.
func ChangeTime(path string) (time.Time, error) {
	t, err := changeTime(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return t, nil
}

// Attach reads the wall clock of t in the system zone and returns the same
// wall clock in loc. A nil loc keeps the system zone.
func Attach(t time.Time, loc *time.Location) time.Time {
	local := t.In(time.Local)
	if loc == nil {
		return local
	}
	return time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), loc)
}

// Convert moves an already zoned timestamp into loc. A nil loc leaves it as
// it is.
func Convert(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
