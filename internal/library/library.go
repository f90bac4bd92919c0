package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry describes one immediate child directory of the pictures root.
type Entry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	AccessedAt time.Time `json:"accessed_at"`
	ImageCount int       `json:"image_count"`
}

// AccessError reports that the pictures root could not be read.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	reason := "unreadable"
	switch {
	case errors.Is(e.Err, fs.ErrNotExist):
		reason = "does not exist"
	case errors.Is(e.Err, fs.ErrPermission):
		reason = "permission denied"
	case errors.Is(e.Err, errNotDirectory):
		reason = "is not a directory"
	}
	return fmt.Sprintf("pictures directory %s %s: %v", e.Path, reason, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

var errNotDirectory = errors.New("not a directory")

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".heic": {},
}

// List returns every direct child of root that is a directory, in readdir
// order. Symlinks to directories count as directories. Children that disappear
// between enumeration and stat are skipped.
func List(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &AccessError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &AccessError{Path: root, Err: errNotDirectory}
	}

	children, err := os.ReadDir(root)
	if err != nil {
		return nil, &AccessError{Path: root, Err: err}
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		path := filepath.Join(root, child.Name())
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			continue
		}
		times := statTimes(path, info)
		entries = append(entries, Entry{
			Name:       child.Name(),
			Path:       path,
			CreatedAt:  times.created,
			ModifiedAt: times.modified,
			AccessedAt: times.accessed,
			ImageCount: CountImages(path),
		})
	}
	return entries, nil
}

// CountImages returns the number of image files directly inside dir. Read
// failures count as zero.
func CountImages(dir string) int {
	children, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, child := range children {
		if child.IsDir() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(child.Name()))]; ok {
			count++
		}
	}
	return count
}

type fileTimes struct {
	created  time.Time
	modified time.Time
	accessed time.Time
}
