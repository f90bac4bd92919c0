package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pix/internal/frames"
	"pix/internal/logging"
	"pix/internal/notifications"
)

type framesOutput struct {
	Extracted []frames.Frames `json:"extracted"`
	Skipped   []string        `json:"skipped,omitempty"`
	Failed    []framesFailure `json:"failed,omitempty"`
	Message   string          `json:"message"`
}

type framesFailure struct {
	Video string `json:"video"`
	Error string `json:"error"`
}

func newFramesCommand(ctx *commandContext) *cobra.Command {
	var fromStdin bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "frames [videos...]",
		Short: "Save the first and last frame of each video as PNG",
		Long: "Writes <name>-first.png and <name>-last.png next to each video using ffmpeg.\n" +
			"Existing images are overwritten. Files that are not videos are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			paths, err := readSelection(args, cmd.InOrStdin(), fromStdin)
			if err != nil {
				return inv.fail("frames", err)
			}

			progress := newFramesProgress(cmd.ErrOrStderr(), !asJSON && shouldColorize(cmd.ErrOrStderr()))
			extractor, err := frames.New(inv.cfg, inv.logger, frames.WithProgress(progress.update))
			if err != nil {
				return inv.fail("frames", err)
			}
			if len(paths) == 0 {
				return inv.fail("frames", frames.ErrNoVideos)
			}

			unlock, err := inv.lock()
			if err != nil {
				return inv.fail("frames", err)
			}
			defer unlock()

			result, runErr := extractor.ExtractAll(inv.ctx, paths)
			progress.finish()

			var batchErr *frames.BatchError
			if runErr != nil && !errors.As(runErr, &batchErr) {
				return inv.fail("frames", runErr)
			}

			processed, failed := result.Processed(), len(result.Failed)
			message := notifications.FramesMessage(processed, failed)
			if notifyErr := inv.notifier.NotifyFramesCompleted(inv.ctx, processed, failed); notifyErr != nil {
				inv.logger.Warn("frames notification failed", logging.Error(notifyErr))
			}

			if asJSON {
				if err := writeJSON(cmd, buildFramesOutput(result, message)); err != nil {
					return err
				}
			} else {
				printFramesSummary(cmd.OutOrStdout(), result, message)
			}
			if batchErr != nil {
				return inv.fail("frames", batchErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read newline-delimited file paths from stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the extraction result as JSON")
	return cmd
}

func buildFramesOutput(result frames.BatchResult, message string) framesOutput {
	out := framesOutput{
		Extracted: result.Extracted,
		Skipped:   result.Skipped,
		Message:   message,
	}
	if out.Extracted == nil {
		out.Extracted = []frames.Frames{}
	}
	for _, failed := range result.Failed {
		out.Failed = append(out.Failed, framesFailure{Video: failed.Video, Error: failed.Error()})
	}
	return out
}

func printFramesSummary(w io.Writer, result frames.BatchResult, message string) {
	for _, extracted := range result.Extracted {
		fmt.Fprintf(w, "%s -> %s, %s\n", filepath.Base(extracted.Video), filepath.Base(extracted.First), filepath.Base(extracted.Last))
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped %d non-video files\n", len(result.Skipped))
	}
	fmt.Fprintln(w, message)
}

// framesProgress draws a terminal progress bar; it is inert when disabled.
type framesProgress struct {
	w       io.Writer
	enabled bool
	bar     *progressbar.ProgressBar
}

func newFramesProgress(w io.Writer, enabled bool) *framesProgress {
	return &framesProgress{w: w, enabled: enabled}
}

func (p *framesProgress) update(event frames.Progress) {
	if !p.enabled {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(event.Total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription("Extracting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	if !event.Done {
		p.bar.Describe(filepath.Base(event.Video))
		return
	}
	_ = p.bar.Add(1)
}

func (p *framesProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
