package preflight

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"pix/internal/library"
	"pix/internal/testsupport"
)

func TestCheckPicturesAccess_Granted(t *testing.T) {
	dir := t.TempDir()
	access := CheckPicturesAccess(dir)
	if !access.Granted {
		t.Fatalf("expected access to temp dir, got: %s", access.Detail)
	}
	if access.Remedy != nil {
		t.Fatalf("expected no remedy when granted, got %#v", access.Remedy)
	}
	if !access.Result("Pictures").Passed {
		t.Fatal("expected passing result")
	}
	if err := access.AccessError(); err != nil {
		t.Fatalf("expected nil error when granted, got %v", err)
	}
}

func TestCheckPicturesAccess_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope")
	access := CheckPicturesAccess(path)
	if access.Granted {
		t.Fatal("expected missing dir to be denied")
	}
	if access.Remedy == nil || !strings.Contains(access.Remedy.Message, "pictures_dir") {
		t.Fatalf("expected remedy mentioning pictures_dir, got %#v", access.Remedy)
	}
	if access.Remedy.SettingsURL != "" {
		t.Fatal("settings url only applies to permission failures")
	}
	var accessErr *library.AccessError
	if err := access.AccessError(); !errors.As(err, &accessErr) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected AccessError wrapping fs.ErrNotExist, got %v", err)
	}
}

func TestCheckPicturesAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	access := CheckPicturesAccess(f)
	if access.Granted {
		t.Fatal("expected file path to be denied")
	}
	if !strings.Contains(access.Detail, "not a directory") {
		t.Fatalf("unexpected detail %q", access.Detail)
	}
}

func TestCheckPicturesAccess_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(dir, 0o300); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	access := CheckPicturesAccess(dir)
	if access.Granted {
		t.Fatal("expected unreadable dir to be denied")
	}
	if access.Remedy == nil || access.Remedy.SettingsURL != FullDiskAccessURL {
		t.Fatalf("expected full disk access remedy, got %#v", access.Remedy)
	}
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckStateDir_NotYetCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	result := CheckStateDir(path)
	if !result.Passed {
		t.Fatalf("expected writable parent to pass, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckFFmpegFromConfig(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are not supported on windows")
	}
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(`echo "ffmpeg version 6.1.1"`, "ffmpeg"))

	result := CheckFFmpegFromConfig(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected ffmpeg check to pass, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "ffmpeg version 6.1.1") {
		t.Fatalf("expected version in detail, got %q", result.Detail)
	}

	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 1 || !statuses[0].Available {
		t.Fatalf("expected ffmpeg dependency to be available, got %#v", statuses)
	}
}

func TestCheckFFmpegFromConfig_Missing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	t.Setenv("PATH", "")

	result := CheckFFmpegFromConfig(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected missing ffmpeg to fail")
	}
	if !strings.Contains(result.Detail, "brew install ffmpeg") {
		t.Fatalf("expected install hint, got %q", result.Detail)
	}
}

func TestCheckNtfy_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"healthy":true}`))
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL+"/pix-topic")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckNtfy_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"healthy":false}`))
	}))
	defer srv.Close()

	if result := CheckNtfy(context.Background(), srv.URL+"/pix-topic"); result.Passed {
		t.Fatal("expected unhealthy server to fail")
	}
}

func TestCheckNtfy_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL+"/pix-topic")
	if result.Passed {
		t.Fatal("expected failure for 500")
	}
	if !strings.Contains(result.Detail, "500") {
		t.Fatalf("expected status code in detail, got %q", result.Detail)
	}
}

func TestCheckNtfy_InvalidURL(t *testing.T) {
	if result := CheckNtfy(context.Background(), "not a url"); result.Passed {
		t.Fatal("expected invalid url to fail")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	t.Setenv("PATH", "")

	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results without ntfy topic, got %d", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("expected pictures dir to pass, got %s", results[0].Detail)
	}
	if results[2].Name != "FFmpeg" || results[2].Passed {
		t.Fatalf("expected ffmpeg failure without PATH, got %#v", results[2])
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
