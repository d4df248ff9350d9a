//go:build windows

package fstime

import (
	"os"
	"syscall"
	"time"
)

// changeTime reports the creation time, which is what a status change time
// means on NTFS. Filesystems without one report the last write.
func changeTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}

	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok || attrs.CreationTime.Nanoseconds() == 0 {
		return info.ModTime(), nil
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), nil
}
