package deps

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, executableName(name))
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present", "exit 0")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected blank command to be reported as unconfigured, got %#v", results[2])
	}
}

func TestCheckBinariesUsesSearchPaths(t *testing.T) {
	binDir := t.TempDir()
	stub := writeStub(t, binDir, "pix-helper", "exit 0")
	t.Setenv("PATH", "")

	results := CheckBinaries([]Requirement{{Name: "Helper", Command: "pix-helper", SearchPaths: []string{binDir}}})
	if !results[0].Available {
		t.Fatalf("expected helper to resolve via search paths, got %#v", results[0])
	}
	if results[0].Command != stub {
		t.Fatalf("expected resolved command %q, got %q", stub, results[0].Command)
	}
}

func TestResolvePrefersSearchPathsOverPATH(t *testing.T) {
	preferred := t.TempDir()
	onPath := t.TempDir()
	want := writeStub(t, preferred, "ffmpeg", "exit 0")
	writeStub(t, onPath, "ffmpeg", "exit 0")
	t.Setenv("PATH", onPath)

	got, err := Resolve("ffmpeg", []string{"", preferred})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveSkipsNonExecutableCandidates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("execute bits are not enforced on windows")
	}
	searchDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(searchDir, "ffmpeg"), []byte("not a program"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	pathDir := t.TempDir()
	want := writeStub(t, pathDir, "ffmpeg", "exit 0")
	t.Setenv("PATH", pathDir)

	got, err := Resolve("ffmpeg", []string{searchDir})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected fallback to PATH entry %q, got %q", want, got)
	}
}

func TestResolveNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	if _, err := Resolve("ffmpeg", []string{t.TempDir()}); err == nil {
		t.Fatal("expected resolution to fail")
	}
	if _, err := Resolve("", nil); err == nil {
		t.Fatal("expected empty command to fail")
	}
}

func TestAugmentedPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	got := AugmentedPath([]string{"/usr/local/bin", "/opt/homebrew/bin", ""}, strings.Join([]string{"/usr/bin", "/usr/local/bin", "/bin"}, sep))
	want := strings.Join([]string{"/usr/local/bin", "/opt/homebrew/bin", "/usr/bin", "/bin"}, sep)
	if got != want {
		t.Fatalf("AugmentedPath = %q, want %q", got, want)
	}
}

func TestEnvironReplacesPATH(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	env := Environ([]string{"/opt/homebrew/bin"})

	count := 0
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			count++
			if kv != "PATH=/opt/homebrew/bin"+string(os.PathListSeparator)+"/usr/bin" {
				t.Fatalf("unexpected PATH entry %q", kv)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one PATH entry, got %d", count)
	}
}

func TestCheckFFmpegFromSearchPath(t *testing.T) {
	binDir := t.TempDir()
	ffmpegPath := writeStub(t, binDir, "ffmpeg", "exit 0")
	t.Setenv("PATH", "")

	status := CheckFFmpeg("", []string{binDir})
	if !status.Available {
		t.Fatalf("expected ffmpeg to be available, got detail %q", status.Detail)
	}
	if status.Command != ffmpegPath {
		t.Fatalf("expected ffmpeg command %q, got %q", ffmpegPath, status.Command)
	}
}

func TestCheckFFmpegNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckFFmpeg("ffmpeg", nil)
	if status.Available {
		t.Fatal("expected ffmpeg resolution to fail")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when ffmpeg is unavailable")
	}
	if status.Command != "ffmpeg" {
		t.Fatalf("expected unresolved command name, got %q", status.Command)
	}
}

func TestProbeFFmpeg(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are not supported on windows")
	}
	binDir := t.TempDir()
	ok := writeStub(t, binDir, "ffmpeg", `echo "ffmpeg version 7.1 Copyright (c) the FFmpeg developers"; echo "built with clang"`)
	broken := writeStub(t, binDir, "ffmpeg-broken", "exit 1")

	line, err := ProbeFFmpeg(context.Background(), ok, nil)
	if err != nil {
		t.Fatalf("ProbeFFmpeg returned error: %v", err)
	}
	if !strings.HasPrefix(line, "ffmpeg version 7.1") {
		t.Fatalf("unexpected version line %q", line)
	}

	if _, err := ProbeFFmpeg(context.Background(), broken, nil); err == nil {
		t.Fatal("expected probe of failing binary to return error")
	}
}
