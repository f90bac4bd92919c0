package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pix/internal/mover"
	"pix/internal/picker"
)

const pickPrompt = "Folder (text to search, /text to search literally, number to choose, enter to accept #1 after searching, q to quit): "

func newPickCommand(ctx *commandContext) *cobra.Command {
	var search string
	var orderFlag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "pick <files...>",
		Short: "Choose a folder interactively and move files into it",
		Long: "Lists folders under the pictures root, most recent first. Typing text filters the list;\n" +
			"when no folder has exactly that name, a new folder with that name is offered first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			sources, err := readSelection(args, nil, false)
			if err != nil {
				return inv.fail("pick", err)
			}
			if len(sources) == 0 {
				return inv.fail("pick", mover.ErrNoFilesSelected)
			}

			session, err := loadSession(inv, orderFlag)
			if err != nil {
				return inv.fail("pick", err)
			}
			session.SetSearch(search)

			item, ok, err := promptDestination(session, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return inv.fail("pick", err)
			}
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
				return nil
			}
			return runMove(inv, item.Name, sources, asJSON)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Initial search text")
	cmd.Flags().StringVar(&orderFlag, "order", "", "Sort by add_time, create_time or modified_time (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the move result as JSON")
	return cmd
}

// promptDestination runs the search loop until a row is chosen. The table and
// prompt go to out so stdout stays free for the move result. ok is false when
// the user quits or input ends.
func promptDestination(session *picker.Session, in io.Reader, out io.Writer) (picker.Item, bool, error) {
	scanner := bufio.NewScanner(in)
	for {
		if session.Empty() && session.Search() == "" {
			fmt.Fprintln(out, "No folders yet; type a name to create one.")
		} else {
			fmt.Fprintln(out, renderPickerTable(session.Items(), session.Order()))
		}
		fmt.Fprint(out, pickPrompt)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return picker.Item{}, false, scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "q":
			return picker.Item{}, false, nil
		case line == "":
			item, err := session.Default()
			if errors.Is(err, picker.ErrNoSelection) {
				fmt.Fprintln(out, "Type a folder name or a row number.")
				continue
			}
			return item, err == nil, err
		case strings.HasPrefix(line, "/"):
			session.SetSearch(strings.TrimPrefix(line, "/"))
		default:
			if row, err := strconv.Atoi(line); err == nil {
				item, err := session.Choose(row)
				if err != nil {
					fmt.Fprintln(out, err)
					continue
				}
				return item, true, nil
			}
			session.SetSearch(line)
		}
	}
}
