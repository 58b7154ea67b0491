package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/neogenz/pulpe-sub001/internal/budget"
	"github.com/neogenz/pulpe-sub001/internal/ledger"
	"github.com/neogenz/pulpe-sub001/internal/logging"
)

func newLedgerCommand(g *globalFlags) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "ledger <snapshot.yaml>",
		Short: "Print the ledger of a budget snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := g.settings(cmd)
			if err != nil {
				return err
			}
			return runLedger(cmd.OutOrStdout(), logger, args[0], asCSV)
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")

	return cmd
}

func runLedger(out io.Writer, logger *logging.Logger, path string, asCSV bool) error {
	snap, err := budget.LoadSnapshot(path)
	if err != nil {
		return err
	}

	rows := ledger.Build(snap.Lines, snap.Transactions)
	logger.Debug().
		Int("lines", len(snap.Lines)).
		Int("transactions", len(snap.Transactions)).
		Int("rows", len(rows)).
		Msg("ledger built")

	if asCSV {
		return ledger.WriteCSV(out, rows)
	}
	return printLedger(out, rows)
}

func printLedger(out io.Writer, rows []ledger.Row) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tAMOUNT\tCONSUMED\tBALANCE")

	for _, r := range rows {
		switch r.Kind {
		case ledger.RowHeader:
			fmt.Fprintf(tw, "%s (%d)\t\t\t\n", strings.ToUpper(string(r.Group)), r.Count)
		case ledger.RowLine:
			consumed := fmt.Sprintf("%s (%d%%)", r.Consumption.Consumed.StringFixed(2), r.Consumption.Percentage)
			if r.Consumption.Overrun() {
				consumed += " !"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", r.Name(), r.Line.Amount.StringFixed(2), consumed, r.Balance.StringFixed(2))
		case ledger.RowTransaction:
			fmt.Fprintf(tw, "  %s\t%s\t\t%s\n", r.Name(), r.Amount.StringFixed(2), r.Balance.StringFixed(2))
		}
	}

	totals := ledger.Summarize(rows)
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", totals.Balance.StringFixed(2))
	return tw.Flush()
}
