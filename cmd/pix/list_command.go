package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pix/internal/library"
	"pix/internal/picker"
)

const timestampLayout = "2006-01-02 15:04"

func newListCommand(ctx *commandContext) *cobra.Command {
	var search string
	var orderFlag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List folders under the pictures root, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			session, err := loadSession(inv, orderFlag)
			if err != nil {
				return inv.fail("list", err)
			}
			items := session.SetSearch(search)

			if asJSON {
				return writeJSON(cmd, items)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No folders in %s\n", inv.cfg.Paths.PicturesDir)
				return nil
			}
			fmt.Fprintln(out, renderPickerTable(items, session.Order()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show folders whose name contains this text")
	cmd.Flags().StringVar(&orderFlag, "order", "", "Sort by add_time, create_time or modified_time (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// loadSession checks access to the pictures root and reads its folders once.
func loadSession(inv *invocation, orderFlag string) (*picker.Session, error) {
	value := inv.cfg.Picker.Order
	if strings.TrimSpace(orderFlag) != "" {
		value = orderFlag
	}
	order, err := picker.ParseOrder(value)
	if err != nil {
		return nil, err
	}
	if err := inv.requirePicturesAccess(false); err != nil {
		return nil, err
	}
	entries, err := library.List(inv.cfg.Paths.PicturesDir)
	if err != nil {
		return nil, err
	}
	return picker.NewSession(entries, order), nil
}

func renderPickerTable(items []picker.Item, order picker.Order) string {
	headers := []string{"#", "Folder", "Images", orderColumn(order)}
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		row := []string{strconv.Itoa(i + 1), item.Name, "", ""}
		if item.Synthetic || item.Entry == nil {
			row[1] = item.Name + " (new)"
			row[2] = "-"
			row[3] = "-"
		} else {
			row[2] = strconv.Itoa(item.Entry.ImageCount)
			row[3] = formatTimestamp(orderTimestamp(*item.Entry, order))
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignLeft})
}

func orderColumn(order picker.Order) string {
	switch order {
	case picker.OrderAddTime:
		return "Added"
	case picker.OrderCreateTime:
		return "Created"
	default:
		return "Modified"
	}
}

func orderTimestamp(entry library.Entry, order picker.Order) time.Time {
	switch order {
	case picker.OrderAddTime:
		return entry.AccessedAt
	case picker.OrderCreateTime:
		return entry.CreatedAt
	default:
		return entry.ModifiedAt
	}
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(timestampLayout)
}
