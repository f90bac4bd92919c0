package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = env.run(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireExists(t, target)

	if _, _, err := env.run(t, "config", "init", "--path", target); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected existing config to be protected, got %v", err)
	}
	if _, _, err := env.run(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "pictures_dir")
	requireContains(t, out, env.cfg.Paths.PicturesDir)
	requireContains(t, out, "modified_time")
}

func TestInvalidConfigFailsBeforeCommandRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Picker.Order = "size"
	env.writeConfig(t)

	_, _, err := env.run(t, "list")
	if err == nil || !strings.Contains(err.Error(), "picker.order") {
		t.Fatalf("expected picker.order validation error, got %v", err)
	}
}
