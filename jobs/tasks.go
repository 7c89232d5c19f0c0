package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shoplite/shoplite/internal/stock"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockReconcileAll triggers a catalog-wide stock reconcile.
	TaskStockReconcileAll = "stock:reconcile_all"
)

// StockReconcileAllPayload carries scheduling metadata.
type StockReconcileAllPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewStockReconcileAllTask constructs an Asynq task for the nightly reconcile.
func NewStockReconcileAllTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(StockReconcileAllPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockReconcileAll, body, asynq.Queue(QueueDefault)), nil
}

// StockReconcileAllHandler binds the reconcile task to the stock service.
func StockReconcileAllHandler(svc *stock.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload StockReconcileAllPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		result, err := svc.ReconcileAll(ctx)
		if err != nil {
			return err
		}
		logger.Info("nightly stock reconcile finished",
			slog.Int("synced", result.SyncedCount),
			slog.Int("total", result.TotalCount),
			slog.Int("errors", result.ErrorCount))
		return nil
	}
}
