package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pix/internal/logging"
	"pix/internal/mover"
	"pix/internal/notifications"
)

func newMoveCommand(ctx *commandContext) *cobra.Command {
	var fromStdin bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "move <folder> [files...]",
		Short: "Move files into a folder under the pictures root",
		Long: "Move files into <pictures_dir>/<folder>, creating the folder when it does not exist.\n" +
			"Files come from the arguments or, with --stdin, one path per line.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			sources, err := readSelection(args[1:], cmd.InOrStdin(), fromStdin)
			if err != nil {
				return inv.fail("move", err)
			}
			return runMove(inv, args[0], sources, asJSON)
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read newline-delimited file paths from stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the move result as JSON")
	return cmd
}

// runMove checks access, takes the command lock and moves sources into the
// named folder. A pictures root that does not exist yet is created along
// with the folder. Shared by move and pick.
func runMove(inv *invocation, folder string, sources []string, asJSON bool) error {
	if len(sources) == 0 {
		return inv.fail("move", mover.ErrNoFilesSelected)
	}
	if err := inv.requirePicturesAccess(true); err != nil {
		return inv.fail("move", err)
	}

	unlock, err := inv.lock()
	if err != nil {
		return inv.fail("move", err)
	}
	defer unlock()

	var opts []mover.Option
	if store := inv.openHistory(); store != nil {
		defer store.Close()
		opts = append(opts, mover.WithRecorder(store))
	}

	result, err := mover.New(inv.cfg, inv.logger, opts...).Move(inv.ctx, folder, sources)
	if err != nil {
		return inv.fail("move", err)
	}

	if notifyErr := inv.notifier.NotifyMoveCompleted(inv.ctx, result.Moved, result.Destination); notifyErr != nil {
		inv.logger.Warn("move notification failed", logging.Error(notifyErr))
	}

	if asJSON {
		return writeJSON(inv.cmd, result)
	}
	fmt.Fprintln(inv.cmd.OutOrStdout(), notifications.MoveMessage(result.Moved, result.Destination))
	return nil
}
