package deps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const probeTimeout = 10 * time.Second

// CheckFFmpeg reports the FFmpeg binary pix will execute for frame extraction.
//
// Homebrew installs into /usr/local/bin or /opt/homebrew/bin, neither of which
// is on PATH for processes launched outside a login shell, so searchPaths are
// consulted before PATH.
func CheckFFmpeg(command string, searchPaths []string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Extracts first and last video frames",
	}

	name := strings.TrimSpace(command)
	if name == "" {
		name = "ffmpeg"
	}
	resolved, err := Resolve(name, searchPaths)
	if err != nil {
		result.Command = name
		result.Available = false
		result.Detail = fmt.Sprintf("binary %q not found", name)
		return result
	}
	result.Command = resolved
	result.Available = true
	return result
}

// ProbeFFmpeg runs "<binary> -version" and returns the first line of output.
func ProbeFFmpeg(ctx context.Context, binary string, searchPaths []string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "-version") //nolint:gosec
	cmd.Env = Environ(searchPaths)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", binary, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(line), nil
}

func executableName(base string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(base), ".exe") {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
