package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Requirement defines an external dependency pix relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// SearchPaths are consulted before PATH when Command is a bare name.
	SearchPaths []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Available entries carry the resolved absolute path in Command.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := Resolve(cmd, req.SearchPaths)
		if err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Resolve locates command. Names containing a path separator are checked as
// given; bare names are looked up in searchPaths first and then in PATH.
func Resolve(command string, searchPaths []string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("resolve: empty command")
	}
	if strings.ContainsRune(command, os.PathSeparator) {
		return exec.LookPath(command)
	}
	for _, dir := range searchPaths {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, executableName(command))
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate, nil
		}
	}
	return exec.LookPath(command)
}

// AugmentedPath prefixes current with searchPaths, dropping duplicates and
// empty elements. Child processes launched with the result see the same
// binaries Resolve does.
func AugmentedPath(searchPaths []string, current string) string {
	seen := make(map[string]struct{})
	parts := make([]string, 0, len(searchPaths)+8)
	add := func(dir string) {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return
		}
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		parts = append(parts, dir)
	}
	for _, dir := range searchPaths {
		add(dir)
	}
	for _, dir := range filepath.SplitList(current) {
		add(dir)
	}
	return strings.Join(parts, string(os.PathListSeparator))
}

// Environ returns os.Environ with PATH replaced by AugmentedPath.
func Environ(searchPaths []string) []string {
	env := os.Environ()
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			continue
		}
		out = append(out, kv)
	}
	return append(out, "PATH="+AugmentedPath(searchPaths, os.Getenv("PATH")))
}
