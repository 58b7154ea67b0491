package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/neogenz/pulpe-sub001/internal/budget"
	"github.com/neogenz/pulpe-sub001/internal/bulk"
	"github.com/neogenz/pulpe-sub001/internal/bulk/memory"
	"github.com/neogenz/pulpe-sub001/internal/config"
	"github.com/neogenz/pulpe-sub001/internal/editable"
	"github.com/neogenz/pulpe-sub001/internal/logging"
	"github.com/neogenz/pulpe-sub001/internal/model"
	"github.com/neogenz/pulpe-sub001/internal/reconcile"
)

type editOptions struct {
	snapshotPath string
	scriptPath   string
	dryRun       bool
	offline      bool
}

func newEditCommand(g *globalFlags) *cobra.Command {
	var opts editOptions

	cmd := &cobra.Command{
		Use:   "edit <snapshot.yaml>",
		Short: "Apply an edit script to a budget's lines and save them in one bulk call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.settings(cmd)
			if err != nil {
				return err
			}
			opts.snapshotPath = args[0]
			return runEdit(cmd.Context(), cmd.OutOrStdout(), cfg, logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scriptPath, "script", "", "YAML edit script (required)")
	_ = cmd.MarkFlagRequired("script")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the bulk batch without sending it")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "save against an in-memory backend")

	return cmd
}

func runEdit(ctx context.Context, out io.Writer, cfg *config.Config, logger *logging.Logger, opts editOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	snap, err := budget.LoadSnapshot(opts.snapshotPath)
	if err != nil {
		return err
	}
	script, err := budget.LoadScript(opts.scriptPath)
	if err != nil {
		return err
	}

	budgetID, err := resolveBudget(snap, cfg)
	if err != nil {
		return err
	}

	editor := budget.NewLineEditor(budgetID, lineSubmitter(cfg, logger, budgetID, snap.Lines, opts.offline), logger)
	editor.Load(snap.Lines)
	if err := script.Apply(editor.Collection()); err != nil {
		return fmt.Errorf("applying script: %w", err)
	}

	if opts.dryRun {
		plan := editable.Diff[budget.LineForm, model.Line, budget.LineCreate, budget.LineUpdate](
			editor.Collection(), budget.LineSchema{BudgetID: budgetID})
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plan.Batch); err != nil {
			return err
		}
		if verrs := editor.Collection().Validate(); len(verrs) > 0 {
			return fmt.Errorf("dry run: save would be blocked: %w", &reconcile.ValidationError{Errors: verrs})
		}
		return nil
	}

	if !editor.Collection().HasUnsavedChanges() {
		fmt.Fprintln(out, "Nothing to save")
		return nil
	}

	res := editor.Save(ctx)
	recordSave(logger, opts.snapshotPath, "edit", budgetID, res)
	if res.Err != nil {
		return fmt.Errorf("saving: %w", res.Err)
	}

	snap.BudgetID = budgetID
	snap.MergeLines(res.UpdatedLines, res.DeletedIDs)
	if err := budget.SaveSnapshot(opts.snapshotPath, snap); err != nil {
		return err
	}

	fmt.Fprintf(out, "Saved %d line(s), deleted %d\n", len(res.UpdatedLines), len(res.DeletedIDs))
	if p := res.Propagation; p != nil {
		fmt.Fprintf(out, "Propagated to %d budget(s)\n", p.AffectedBudgetsCount)
	}
	return nil
}

// lineSubmitter picks the HTTP endpoint, or the in-memory backend when
// offline or no API is configured.
func lineSubmitter(cfg *config.Config, logger *logging.Logger, budgetID string, lines []model.Line, forceOffline bool) budget.LineSubmitter {
	if offline(cfg, forceOffline) {
		logger.Info().Str("budget", budgetID).Msg("saving offline")
		return memory.New(budget.LineCodec(nil), lines)
	}
	return bulk.NewEndpoint[budget.LineCreate, budget.LineUpdate, model.Line](
		newClient(cfg, logger), collection(cfg), budgetID, bulk.DefaultResource)
}
