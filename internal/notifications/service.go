package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"pix/internal/config"
)

const userAgent = "pix/0.1.0"

// Service defines the notification surface exposed to commands.
type Service interface {
	NotifyMoveCompleted(ctx context.Context, count int, destination string) error
	NotifyFramesCompleted(ctx context.Context, processed, failed int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
		move:     cfg.Notifications.Move,
		frames:   cfg.Notifications.Frames,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	move     bool
	frames   bool
	errors   bool
}

// MoveMessage is the one-line summary shown after a successful move.
func MoveMessage(count int, destination string) string {
	noun := "pictures have"
	if count == 1 {
		noun = "picture has"
	}
	return fmt.Sprintf("%d %s moved to %s!", count, noun, filepath.Base(destination))
}

// FramesMessage is the one-line summary shown after frame extraction.
func FramesMessage(processed, failed int) string {
	if failed == 0 {
		return fmt.Sprintf("Extraction complete: %d videos", processed)
	}
	return fmt.Sprintf("Extraction complete: %d succeeded, %d failed", processed-failed, failed)
}

func (n *ntfyService) NotifyMoveCompleted(ctx context.Context, count int, destination string) error {
	if !n.move {
		return nil
	}
	data := payload{
		title:   "pix - Moved",
		message: "📁 " + MoveMessage(count, strings.TrimSpace(destination)),
		tags:    []string{"pix", "move", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyFramesCompleted(ctx context.Context, processed, failed int) error {
	if !n.frames {
		return nil
	}
	title := "pix - Frames Extracted"
	if failed > 0 {
		title = "pix - Frames Extracted (with errors)"
	}
	data := payload{
		title:   title,
		message: "🎞️ " + FramesMessage(processed, failed),
		tags:    []string{"pix", "frames", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "pix - Error",
		message:  builder.String(),
		tags:     []string{"pix", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "pix - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"pix", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyMoveCompleted(context.Context, int, string) error { return nil }
func (noopService) NotifyFramesCompleted(context.Context, int, int) error  { return nil }
func (noopService) NotifyError(context.Context, error, string) error       { return nil }
func (noopService) TestNotification(context.Context) error                 { return nil }
