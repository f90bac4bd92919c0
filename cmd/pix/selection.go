package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"pix/internal/config"
)

// readSelection collects file paths from args and, when fromStdin is set,
// from newline-delimited stdin. Paths are made absolute and deduplicated in
// first-seen order; blank lines are ignored.
func readSelection(args []string, stdin io.Reader, fromStdin bool) ([]string, error) {
	raw := append([]string(nil), args...)
	if fromStdin && stdin != nil {
		scanner := bufio.NewScanner(stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			raw = append(raw, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read selection from stdin: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(raw))
	paths := make([]string, 0, len(raw))
	for _, value := range raw {
		value = strings.TrimRight(value, "\r")
		if strings.TrimSpace(value) == "" {
			continue
		}
		path, err := config.ExpandPath(value)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", value, err)
		}
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	return paths, nil
}
