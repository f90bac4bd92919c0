package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pix/internal/config"
	"pix/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyMoveCompleted(context.Background(), 3, "/pics/trip"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop notifier for nil config, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "move completed",
			send: func(svc notifications.Service) error {
				return svc.NotifyMoveCompleted(context.Background(), 3, "/pics/trip")
			},
			expectTitle:   "pix - Moved",
			expectMessage: "📁 3 pictures have moved to trip!",
			expectTags:    "pix,move,completed",
		},
		{
			name: "single move",
			send: func(svc notifications.Service) error {
				return svc.NotifyMoveCompleted(context.Background(), 1, "/pics/beach")
			},
			expectTitle:   "pix - Moved",
			expectMessage: "📁 1 picture has moved to beach!",
			expectTags:    "pix,move,completed",
		},
		{
			name: "frames completed",
			send: func(svc notifications.Service) error {
				return svc.NotifyFramesCompleted(context.Background(), 2, 0)
			},
			expectTitle:   "pix - Frames Extracted",
			expectMessage: "🎞️ Extraction complete: 2 videos",
			expectTags:    "pix,frames,completed",
		},
		{
			name: "frames with failures",
			send: func(svc notifications.Service) error {
				return svc.NotifyFramesCompleted(context.Background(), 3, 1)
			},
			expectTitle:   "pix - Frames Extracted (with errors)",
			expectMessage: "🎞️ Extraction complete: 2 succeeded, 1 failed",
			expectTags:    "pix,frames,completed",
		},
		{
			name: "error",
			send: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("no files selected"), "move")
			},
			expectTitle:    "pix - Error",
			expectMessage:  "❌ Error with move: no files selected",
			expectTags:     "pix,error,alert",
			expectPriority: "high",
		},
		{
			name: "test notification",
			send: func(svc notifications.Service) error {
				return svc.TestNotification(context.Background())
			},
			expectTitle:    "pix - Test",
			expectMessage:  "🧪 Notification system test",
			expectTags:     "pix,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Errorf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			if err := tc.send(notifications.NewService(&cfg)); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonoursEventToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call for disabled event: %s", r.Header.Get("Title"))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Move = false
	cfg.Notifications.Frames = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifyMoveCompleted(ctx, 1, "trip"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := svc.NotifyFramesCompleted(ctx, 1, 0); err != nil {
		t.Fatalf("frames: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "move"); err != nil {
		t.Fatalf("error: %v", err)
	}
}

func TestNtfyServiceReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("limit reached"))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	err := notifications.NewService(&cfg).TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "limit reached") {
		t.Fatalf("unexpected error %v", err)
	}
}
