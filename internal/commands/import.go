package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neogenz/pulpe-sub001/internal/budget"
	"github.com/neogenz/pulpe-sub001/internal/bulk"
	"github.com/neogenz/pulpe-sub001/internal/bulk/memory"
	"github.com/neogenz/pulpe-sub001/internal/config"
	"github.com/neogenz/pulpe-sub001/internal/importer"
	"github.com/neogenz/pulpe-sub001/internal/logging"
	"github.com/neogenz/pulpe-sub001/internal/model"
)

type importOptions struct {
	snapshotPath string
	source       string
	format       string
	lineID       string
	dryRun       bool
	offline      bool
	archive      bool
}

func newImportCommand(g *globalFlags) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <snapshot.yaml> <statement.csv|dir>",
		Short: "Import bank statement rows as transactions of a budget",
		Long: `Import parses one statement, or every CSV directly under a directory,
and saves the new rows as transactions in one bulk call. Rows already in the
snapshot (same day, name, amount and kind) are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.settings(cmd)
			if err != nil {
				return err
			}
			opts.snapshotPath, opts.source = args[0], args[1]
			return runImport(cmd.Context(), cmd.OutOrStdout(), cfg, logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "chase", "statement format: "+strings.Join(importer.DefaultRegistry().Formats(), ", "))
	cmd.Flags().StringVar(&opts.lineID, "line", "", "allocate every imported transaction to this line id")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report what would be imported without saving")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "save against an in-memory backend")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "move imported statements into processed/")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, cfg *config.Config, logger *logging.Logger, opts importOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	parser := importer.DefaultRegistry().Get(opts.format)
	if parser == nil {
		return fmt.Errorf("unknown statement format %q (known: %s)", opts.format,
			strings.Join(importer.DefaultRegistry().Formats(), ", "))
	}

	snap, err := budget.LoadSnapshot(opts.snapshotPath)
	if err != nil {
		return err
	}
	budgetID, err := resolveBudget(snap, cfg)
	if err != nil {
		return err
	}

	var line *string
	if opts.lineID != "" {
		if !slices.ContainsFunc(snap.Lines, func(l model.Line) bool { return l.ID == opts.lineID }) {
			return fmt.Errorf("line %q is not in the snapshot", opts.lineID)
		}
		line = &opts.lineID
	}

	files, err := statements(opts.source)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statements to import")
		return nil
	}

	var rows []importer.Row
	for _, f := range files {
		parsed, err := importer.ParseFile(parser, f)
		if err != nil {
			return err
		}
		logger.Debug().Str("file", f).Int("rows", len(parsed)).Msg("statement parsed")
		rows = append(rows, parsed...)
	}

	fresh, skipped := importer.Dedupe(importer.Forms(rows, line), snap.Transactions)
	if opts.dryRun {
		fmt.Fprintf(out, "Would import %d transaction(s), skip %d duplicate(s)\n", len(fresh), skipped)
		return nil
	}

	editor := budget.NewTransactionEditor(budget.TransactionSchema{BudgetID: budgetID},
		transactionSubmitter(cfg, logger, budgetID, snap.Transactions, opts.offline), logger)
	editor.Load(snap.Transactions)
	for _, f := range fresh {
		editor.Collection().Add(f)
	}

	if !editor.Collection().HasUnsavedChanges() {
		fmt.Fprintf(out, "Nothing to import (%d duplicate(s) skipped)\n", skipped)
		return archive(opts, files)
	}

	res := editor.Save(ctx)
	recordSave(logger, opts.snapshotPath, "import", budgetID, res)
	if res.Err != nil {
		return fmt.Errorf("saving: %w", res.Err)
	}

	snap.BudgetID = budgetID
	snap.MergeTransactions(res.UpdatedLines, res.DeletedIDs)
	if err := budget.SaveSnapshot(opts.snapshotPath, snap); err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d transaction(s), skipped %d duplicate(s)\n", len(res.UpdatedLines), skipped)
	return archive(opts, files)
}

// statements expands source into the statement files to read.
func statements(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("reading statements: %w", err)
	}
	if !info.IsDir() {
		return []string{source}, nil
	}

	found, err := importer.Scan(source)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.Path
	}
	return paths, nil
}

func archive(opts importOptions, files []string) error {
	if !opts.archive {
		return nil
	}
	for _, f := range files {
		if err := importer.MarkProcessed(f); err != nil {
			return err
		}
	}
	return nil
}

func transactionSubmitter(cfg *config.Config, logger *logging.Logger, budgetID string, txs []model.Transaction, forceOffline bool) budget.TransactionSubmitter {
	if offline(cfg, forceOffline) {
		logger.Info().Str("budget", budgetID).Msg("saving offline")
		return memory.New(budget.TransactionCodec(nil), txs)
	}
	return bulk.NewEndpoint[budget.TransactionCreate, budget.TransactionUpdate, model.Transaction](
		newClient(cfg, logger), collection(cfg), budgetID, budget.TransactionsResource)
}
