package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pix/internal/history"
	"pix/internal/library"
	"pix/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check folder access, ffmpeg and notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			cfg := inv.cfg
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(stdout, line)
			}
			if ctx.configExists {
				fmt.Fprintln(stdout, renderStatusLine("Config file", statusOK, ctx.configPath, colorize))
			} else {
				fmt.Fprintln(stdout, renderStatusLine("Config file", statusInfo, fmt.Sprintf("%s (not found, using defaults)", ctx.configPath), colorize))
			}
			fmt.Fprintln(stdout, renderStatusLine("Sort order", statusInfo, cfg.Picker.Order, colorize))
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(stdout, renderStatusLine("Notifications", statusInfo, "Disabled (no ntfy_topic)", colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(stdout, line)
			}
			results := preflight.RunAll(inv.ctx, cfg)
			optional := map[string]bool{"FFmpeg": true, "ntfy": true}
			for _, line := range preflightLines(results, optional, colorize) {
				fmt.Fprintln(stdout, line)
			}
			access := preflight.CheckPicturesAccess(cfg.Paths.PicturesDir)
			if !access.Granted {
				printRemedy(stdout, access.Remedy)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range dependencyLines(preflight.CheckSystemDeps(cfg), colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Library", colorize) {
				fmt.Fprintln(stdout, line)
			}
			if access.Granted {
				entries, err := library.List(cfg.Paths.PicturesDir)
				if err != nil {
					fmt.Fprintln(stdout, renderStatusLine("Folders", statusError, err.Error(), colorize))
				} else {
					fmt.Fprintln(stdout, renderStatusLine("Folders", statusOK, fmt.Sprintf("%d", len(entries)), colorize))
				}
			} else {
				fmt.Fprintln(stdout, renderStatusLine("Folders", statusWarn, "Unavailable", colorize))
			}
			fmt.Fprintln(stdout, historyStatusLine(inv, colorize))
			return nil
		},
	}
}

func historyStatusLine(inv *invocation, colorize bool) string {
	if !inv.cfg.History.Enabled {
		return renderStatusLine("Move history", statusInfo, "Disabled", colorize)
	}
	store, err := history.Open(inv.cfg)
	if err != nil {
		return renderStatusLine("Move history", statusWarn, err.Error(), colorize)
	}
	defer store.Close()
	count, err := store.Count(inv.ctx)
	if err != nil {
		return renderStatusLine("Move history", statusWarn, err.Error(), colorize)
	}
	return renderStatusLine("Move history", statusOK, fmt.Sprintf("%d batches (%s)", count, store.Path()), colorize)
}
