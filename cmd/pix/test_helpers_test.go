package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pix/internal/config"
	"pix/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	inbox      string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("PIX_PICTURES_DIR", "")
	t.Setenv("PIX_NTFY_TOPIC", "")

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	inbox := filepath.Join(base, "inbox")
	if err := os.MkdirAll(inbox, 0o755); err != nil {
		t.Fatalf("mkdir inbox: %v", err)
	}

	env := &cliTestEnv{
		cfg:        cfg,
		configPath: filepath.Join(base, "config.toml"),
		baseDir:    base,
		inbox:      inbox,
	}
	env.writeConfig(t)
	return env
}

// writeConfig persists env.cfg so edits made by a test reach the CLI.
func (env *cliTestEnv) writeConfig(t *testing.T) {
	t.Helper()
	cfg := env.cfg
	searchPaths := make([]string, 0, len(cfg.Frames.SearchPaths))
	for _, dir := range cfg.Frames.SearchPaths {
		searchPaths = append(searchPaths, fmt.Sprintf("%q", dir))
	}
	content := fmt.Sprintf(`[paths]
pictures_dir = %q
state_dir = %q
log_dir = %q

[picker]
order = %q

[frames]
ffmpeg = %q
search_paths = [%s]

[history]
enabled = %t

[notifications]
ntfy_topic = %q
`,
		cfg.Paths.PicturesDir,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Picker.Order,
		cfg.Frames.FFmpeg,
		strings.Join(searchPaths, ", "),
		cfg.History.Enabled,
		cfg.Notifications.NtfyTopic,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return env.runWithInput(t, "", args...)
}

func (env *cliTestEnv) runWithInput(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// inboxFiles creates files in the inbox and returns their absolute paths.
func (env *cliTestEnv) inboxFiles(t *testing.T, names ...string) []string {
	t.Helper()
	return testsupport.WriteFiles(t, env.inbox, names...)
}

// folder creates a pictures subdirectory with the given modification offset.
func (env *cliTestEnv) folder(t *testing.T, name string, modifiedSeconds int) string {
	t.Helper()
	dir := filepath.Join(env.cfg.Paths.PicturesDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(modifiedSeconds) * time.Second)
	if err := os.Chtimes(dir, ts, ts); err != nil {
		t.Fatalf("chtimes %s: %v", dir, err)
	}
	return dir
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be gone, stat err=%v", path, err)
	}
}
