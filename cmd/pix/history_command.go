package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"pix/internal/history"
)

var errHistoryDisabled = errors.New("move history is disabled (set history.enabled = true)")

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent moves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, cmd, func(inv *invocation, store *history.Store) error {
				batches, err := store.Recent(inv.ctx, limit)
				if err != nil {
					return err
				}
				if asJSON {
					if batches == nil {
						batches = []history.Batch{}
					}
					return writeJSON(cmd, batches)
				}
				out := cmd.OutOrStdout()
				if len(batches) == 0 {
					fmt.Fprintln(out, "No moves recorded")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "When", "Folder", "Moved", "Status"},
					batchRows(batches, inv.cfg.Paths.PicturesDir),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of batches to show (0 for all)")
	historyCmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	var showJSON bool
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the files of one move (an ID prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, cmd, func(inv *invocation, store *history.Store) error {
				batch, err := store.Get(inv.ctx, args[0])
				if err != nil {
					return err
				}
				if showJSON {
					return writeJSON(cmd, batch)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Batch:   %s\n", batch.ID)
				fmt.Fprintf(out, "When:    %s\n", formatTimestamp(batch.CreatedAt))
				fmt.Fprintf(out, "Folder:  %s\n", batch.Destination)
				fmt.Fprintf(out, "Moved:   %d of %d\n", batch.Moved, batch.Requested)
				if batch.Error != "" {
					fmt.Fprintf(out, "Error:   %s\n", batch.Error)
				}
				if len(batch.Files) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(batch.Files))
				for _, file := range batch.Files {
					status := "moved"
					switch {
					case file.Error != "":
						status = file.Error
					case file.Copied:
						status = "copied"
					}
					rows = append(rows, []string{file.Source, filepath.Base(file.Target), status})
				}
				fmt.Fprintln(out, renderTable([]string{"Source", "Name", "Status"}, rows, nil))
				return nil
			})
		},
	}
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	historyCmd.AddCommand(showCmd)

	return historyCmd
}

func withHistory(ctx *commandContext, cmd *cobra.Command, fn func(*invocation, *history.Store) error) error {
	inv, err := ctx.begin(cmd)
	if err != nil {
		return err
	}
	if !inv.cfg.History.Enabled {
		return errHistoryDisabled
	}
	store, err := history.Open(inv.cfg)
	if err != nil {
		return inv.fail("history", fmt.Errorf("open move history: %w", err))
	}
	defer store.Close()
	return inv.fail("history", fn(inv, store))
}

func batchRows(batches []history.Batch, root string) [][]string {
	rows := make([][]string, 0, len(batches))
	for _, batch := range batches {
		status := "ok"
		if !batch.Succeeded() {
			status = "partial"
			if batch.Moved == 0 {
				status = "failed"
			}
		}
		rows = append(rows, []string{
			batch.ShortID(),
			formatTimestamp(batch.CreatedAt),
			folderName(root, batch.Destination),
			strconv.Itoa(batch.Moved) + "/" + strconv.Itoa(batch.Requested),
			status,
		})
	}
	return rows
}

// folderName shows dest relative to the pictures root when it lives inside it.
func folderName(root, dest string) string {
	rel, err := filepath.Rel(root, dest)
	if err != nil || !filepath.IsLocal(rel) {
		return dest
	}
	return rel
}
