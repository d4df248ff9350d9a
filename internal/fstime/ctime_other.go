//go:build !darwin && !linux && !windows

package fstime

import (
	"os"
	"time"
)

// changeTime has no portable status change time to read here, so the last
// content write stands in for it.
func changeTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
