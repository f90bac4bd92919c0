//go:build linux || darwin

package library

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// statTimes reads atime and ctime alongside mtime. ctime stands in for the
// creation time, matching what the picker historically displayed.
func statTimes(path string, info os.FileInfo) fileTimes {
	times := fileTimes{created: info.ModTime(), modified: info.ModTime(), accessed: info.ModTime()}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return times
	}
	times.accessed = time.Unix(st.Atim.Unix())
	times.created = time.Unix(st.Ctim.Unix())
	return times
}
