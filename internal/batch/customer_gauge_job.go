package batch

import (
	"context"
	"customer-api/internal/infrastructure/monitoring"
	"fmt"
	"log/slog"
	"time"
)

type customerCounter interface {
	Count(ctx context.Context) (int64, error)
}

// CustomerGaugeJob refreshes the customer_api_customers gauge from the store.
type CustomerGaugeJob struct {
	repo   customerCounter
	logger *slog.Logger
}

func NewCustomerGaugeJob(repo customerCounter, logger *slog.Logger) *CustomerGaugeJob {
	if repo == nil || logger == nil {
		panic("CustomerGaugeJob dependencies cannot be nil")
	}
	return &CustomerGaugeJob{
		repo:   repo,
		logger: logger.With("job", "CustomerGauge"),
	}
}

func (j *CustomerGaugeJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.DebugContext(ctx, "Counting customers.")

	n, err := j.repo.Count(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count customers, gauge left unchanged.", slog.Any("error", err))
		return fmt.Errorf("cannot refresh customer gauge: %w", err)
	}

	monitoring.SetCustomerCount(n)
	j.logger.InfoContext(ctx, "Customer gauge refreshed.",
		slog.Int64("customers", n),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
