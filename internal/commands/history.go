package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/neogenz/pulpe-sub001/internal/savelog"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <snapshot.yaml>",
		Short: "List the saves recorded for a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.OutOrStdout(), filepath.Dir(args[0]), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n saves")

	return cmd
}

func runHistory(out io.Writer, dir string, limit int) error {
	entries, err := savelog.Read(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No saves recorded")
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCOMMAND\tBUDGET\tOUTCOME\tSAVED\tDELETED\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			e.Timestamp.Format(time.DateTime), e.Command, e.BudgetID, e.Outcome, e.Saved, e.Deleted, e.Message)
	}
	return tw.Flush()
}
