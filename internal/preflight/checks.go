package preflight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"pix/internal/config"
	"pix/internal/deps"
	"pix/internal/library"
)

// FullDiskAccessURL opens the macOS privacy pane where folder access is granted.
const FullDiskAccessURL = "x-apple.systempreferences:com.apple.preference.security?Privacy_AllFiles"

// Remedy tells the user how to restore access to the pictures root.
type Remedy struct {
	Message     string `json:"message"`
	SettingsURL string `json:"settings_url,omitempty"`
}

// Access is the outcome of CheckPicturesAccess: either Granted, or denied
// with a Remedy.
type Access struct {
	Granted bool    `json:"granted"`
	Path    string  `json:"path"`
	Detail  string  `json:"detail"`
	Remedy  *Remedy `json:"remedy,omitempty"`
	Err     error   `json:"-"`
}

// AccessError returns nil when access is granted, otherwise a
// *library.AccessError wrapping the underlying cause.
func (a Access) AccessError() error {
	if a.Granted {
		return nil
	}
	return &library.AccessError{Path: a.Path, Err: a.Err}
}

// Result converts the access outcome into a status row.
func (a Access) Result(name string) Result {
	return Result{Name: name, Passed: a.Granted, Detail: a.Detail}
}

// CheckPicturesAccess verifies the pictures root exists, is a directory and
// is readable by the current process.
func CheckPicturesAccess(path string) Access {
	access := Access{Path: path}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		access.Err = err
		access.Detail = fmt.Sprintf("%s (error: does not exist)", path)
		access.Remedy = &Remedy{
			Message: fmt.Sprintf("Create %s or point paths.pictures_dir (or PIX_PICTURES_DIR) at your pictures folder.", path),
		}
		return access
	case err != nil && !errors.Is(err, fs.ErrPermission):
		access.Err = err
		access.Detail = fmt.Sprintf("%s (error: stat: %v)", path, err)
		access.Remedy = &Remedy{Message: "Check that the pictures folder is mounted and reachable."}
		return access
	case err == nil && !info.IsDir():
		access.Err = unix.ENOTDIR
		access.Detail = fmt.Sprintf("%s (error: is not a directory)", path)
		access.Remedy = &Remedy{Message: "Set paths.pictures_dir to a directory, not a file."}
		return access
	}
	if err == nil {
		err = unix.Access(path, unix.R_OK)
	}
	if err != nil {
		access.Err = err
		access.Detail = fmt.Sprintf("%s (error: permission denied: %v)", path, err)
		access.Remedy = &Remedy{
			Message:     "pix requires access to your pictures folder. Grant Full Disk Access to your terminal, then retry.",
			SettingsURL: FullDiskAccessURL,
		}
		return access
	}
	access.Granted = true
	access.Detail = fmt.Sprintf("%s (read ok)", path)
	return access
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStateDir checks the state directory, or its nearest existing parent
// when it has not been created yet.
func CheckStateDir(path string) Result {
	const name = "State directory"
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for parent != filepath.Dir(parent) {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		parent = filepath.Dir(parent)
	}
	result := CheckDirectoryAccess(name, parent)
	if result.Passed {
		result.Detail = fmt.Sprintf("%s (will be created)", path)
	}
	return result
}

// CheckSystemDeps evaluates the external binaries pix invokes.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for frame extraction",
			Optional:    true,
			SearchPaths: cfg.Frames.SearchPaths,
		},
	}
	return deps.CheckBinaries(requirements)
}

// CheckFFmpegFromConfig resolves ffmpeg and reports its version line.
func CheckFFmpegFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "FFmpeg"

	status := deps.CheckFFmpeg(cfg.FFmpegBinary(), cfg.Frames.SearchPaths)
	if !status.Available {
		return Result{Name: name, Detail: status.Detail + " (install with: brew install ffmpeg)"}
	}
	version, err := deps.ProbeFFmpeg(ctx, status.Command, cfg.Frames.SearchPaths)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", status.Command, err)}
	}
	if version == "" {
		version = "version unknown"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", status.Command, version)}
}

// CheckNtfy verifies the ntfy server behind topicURL answers its health
// endpoint.
func CheckNtfy(ctx context.Context, topicURL string) Result {
	const name = "ntfy"

	parsed, err := url.Parse(strings.TrimSpace(topicURL))
	if err != nil || parsed.Host == "" {
		return Result{Name: name, Detail: "invalid topic url"}
	}
	healthURL := (&url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: "/v1/health"}).String()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, healthURL, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%v)", err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%v)", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%d)", resp.StatusCode)}
	}
	var payload struct {
		Healthy bool `json:"healthy"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || !payload.Healthy {
		return Result{Name: name, Detail: "server reports unhealthy"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", parsed.Host)}
}
