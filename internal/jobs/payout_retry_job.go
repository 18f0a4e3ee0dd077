package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PayoutRetryJob sweeps for delivered orders that have no earning record and
// recomputes their payouts. A payout normally happens right after delivery;
// this job covers the case where that step failed and the order was left
// delivered without an earning.
type PayoutRetryJob struct {
	uowFactory commands.UoWFactory
	handler    commands.ComputePayoutCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewPayoutRetryJob creates a job that retries missed payouts once a minute.
func NewPayoutRetryJob(
	uowFactory commands.UoWFactory,
	handler commands.ComputePayoutCommandHandler,
	logger *slog.Logger,
) *PayoutRetryJob {
	return &PayoutRetryJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(),
		logger:     logger.With("component", "payout_retry_job"),
	}
}

// Start begins the payout retry job to run every minute.
func (j *PayoutRetryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Payout retry sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payout retry job started (running every minute)")
	return nil
}

// Stop stops the payout retry job.
func (j *PayoutRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Payout retry job stopped")
}

func (j *PayoutRetryJob) run(ctx context.Context) error {
	// The listing happens outside of a transaction; each payout opens its
	// own transaction inside the command handler.
	orders, err := j.uowFactory.Create().OrderRepository().GetDeliveredWithoutEarning(ctx)
	if err != nil {
		return err
	}

	for _, o := range orders {
		cmd, cmdErr := commands.NewComputePayoutCommand(o.ID())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build payout command", "order_id", o.ID(), "error", cmdErr)
			continue
		}

		if _, handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			// A failed order stays in the sweep; it will be retried
			// on the next run.
			j.logger.ErrorContext(ctx, "Payout retry failed", "order_id", o.ID(), "error", handleErr)
			continue
		}

		j.logger.InfoContext(ctx, "Recovered missed payout", "order_id", o.ID())
	}

	return nil
}
