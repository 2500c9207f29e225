package jobs

import (
	"context"
	"log/slog"
	"time"

	"agritrade/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type payoutDispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchPayoutsCommand) (paid, failed int, err error)
}

// PayoutDispatchJob sends pending farmer balances to the payment gateway.
type PayoutDispatchJob struct {
	handler   payoutDispatcher
	spec      string
	batchSize int
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewPayoutDispatchJob(handler payoutDispatcher, spec string, batchSize int, logger *slog.Logger) *PayoutDispatchJob {
	return &PayoutDispatchJob{
		handler:   handler,
		spec:      spec,
		batchSize: batchSize,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "payout_dispatch_job"),
	}
}

// Run dispatches one batch. Balances the gateway failed on are already marked
// Failed by the handler and only need a log line here.
func (j *PayoutDispatchJob) Run(ctx context.Context) {
	paid, failed, err := j.handler.Handle(ctx, commands.NewDispatchPayoutsCommand(j.now(), j.batchSize))
	if err != nil {
		j.logger.ErrorContext(ctx, "Payout dispatch failed", "paid", paid, "failed", failed, "error", err)
		return
	}
	if failed > 0 {
		j.logger.WarnContext(ctx, "Payouts failed at the gateway", "paid", paid, "failed", failed)
	} else if paid > 0 {
		j.logger.InfoContext(ctx, "Payouts dispatched", "paid", paid)
	}
}

func (j *PayoutDispatchJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Payout dispatch job started", "schedule", j.spec)
	return nil
}

func (j *PayoutDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Payout dispatch job stopped")
}
