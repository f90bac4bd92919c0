package preflight

import (
	"context"

	"pix/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Notification reachability is only checked when a topic is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	access := CheckPicturesAccess(cfg.Paths.PicturesDir)
	results = append(results, access.Result("Pictures directory"))

	results = append(results, CheckStateDir(cfg.Paths.StateDir))
	results = append(results, CheckFFmpegFromConfig(ctx, cfg))

	if cfg.Notifications.NtfyTopic != "" {
		results = append(results, CheckNtfy(ctx, cfg.Notifications.NtfyTopic))
	}

	return results
}
