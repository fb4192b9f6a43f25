package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gevapp/gevapp/internal/catalog"
	jobmetrics "github.com/gevapp/gevapp/internal/jobs"
)

// NewStockScanTask constructs the scheduled low stock scan task.
func NewStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeStockScan, nil, asynq.Queue(QueueDefault))
}

// NewStockScanHandler logs every product whose stock fell below the threshold.
func NewStockScanHandler(svc *catalog.Service, threshold int, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskTypeStockScan)
		products, err := svc.ListBelowStock(ctx, threshold)
		if err != nil {
			logger.Error("stock scan failed", "error", err)
			return tracker.End(err)
		}
		if len(products) == 0 {
			logger.Info("stock scan clean", "threshold", threshold)
			return tracker.End(nil)
		}
		for _, p := range products {
			logger.Warn("low stock", "produto_id", p.ID, "nome", p.Nome, "estoque", p.EstoqueAtual)
		}
		return tracker.End(nil)
	}
}
