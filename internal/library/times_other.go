//go:build !linux && !darwin

package library

import "os"

func statTimes(_ string, info os.FileInfo) fileTimes {
	mod := info.ModTime()
	return fileTimes{created: mod, modified: mod, accessed: mod}
}
