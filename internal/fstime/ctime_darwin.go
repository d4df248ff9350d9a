//go:build darwin

package fstime

import (
	"os"
	"syscall"
	"time"
)

func changeTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}

	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Ctimespec.Unix()), nil
	}

	return info.ModTime(), nil
}
