package commands

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/neogenz/pulpe-sub001/internal/budget"
	"github.com/neogenz/pulpe-sub001/internal/bulk"
	"github.com/neogenz/pulpe-sub001/internal/config"
	"github.com/neogenz/pulpe-sub001/internal/logging"
	"github.com/neogenz/pulpe-sub001/internal/reconcile"
	"github.com/neogenz/pulpe-sub001/internal/savelog"
)

var errNoBudget = errors.New("no budget id: set budget_id in the snapshot or budget.owner_id in pulpe.yaml")

// resolveBudget picks the snapshot's budget, falling back to the configured owner.
func resolveBudget(snap *budget.Snapshot, cfg *config.Config) (string, error) {
	if id := strings.TrimSpace(snap.BudgetID); id != "" {
		return id, nil
	}
	if id := strings.TrimSpace(cfg.Budget.OwnerID); id != "" {
		return id, nil
	}
	return "", errNoBudget
}

func offline(cfg *config.Config, forced bool) bool {
	return forced || cfg.Offline()
}

func newClient(cfg *config.Config, logger *logging.Logger) *bulk.Client {
	return bulk.NewClient(cfg.API.BaseURL,
		bulk.WithToken(cfg.API.Token),
		bulk.WithTimeout(cfg.API.Timeout),
		bulk.WithRateLimit(cfg.API.RateLimit),
		bulk.WithLogger(logger),
	)
}

func collection(cfg *config.Config) string {
	if cfg.Budget.Collection == "" {
		return budget.BudgetsCollection
	}
	return cfg.Budget.Collection
}

// recordSave appends the outcome of a save to the log beside the snapshot.
// A log failure is reported but never fails the command.
func recordSave[R any](logger *logging.Logger, snapshotPath, command, budgetID string, res reconcile.Result[R]) {
	e := savelog.Entry{
		Timestamp: time.Now(),
		Command:   command,
		BudgetID:  budgetID,
		Outcome:   savelog.OutcomeSaved,
		Saved:     len(res.UpdatedLines),
		Deleted:   len(res.DeletedIDs),
	}
	switch {
	case errors.Is(res.Err, reconcile.ErrSaveCancelled):
		e.Outcome = savelog.OutcomeCancelled
	case res.Err != nil:
		e.Outcome = savelog.OutcomeFailed
		e.Message = res.Message()
	}

	if err := savelog.Append(filepath.Dir(snapshotPath), e); err != nil {
		logger.Warn().Err(err).Msg("could not write save log")
	}
}
