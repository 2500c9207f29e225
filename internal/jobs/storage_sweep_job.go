package jobs

import (
	"context"
	"log/slog"
	"time"

	"agritrade/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type storageAdvancer interface {
	Handle(ctx context.Context, cmd commands.AdvanceStorageBookingsCommand) (int, error)
}

// StorageSweepJob activates bookings whose window opened and releases the expired ones.
type StorageSweepJob struct {
	handler   storageAdvancer
	spec      string
	batchSize int
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewStorageSweepJob(handler storageAdvancer, spec string, batchSize int, logger *slog.Logger) *StorageSweepJob {
	return &StorageSweepJob{
		handler:   handler,
		spec:      spec,
		batchSize: batchSize,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "storage_sweep_job"),
	}
}

func (j *StorageSweepJob) Run(ctx context.Context) {
	advanced, err := j.handler.Handle(ctx, commands.NewAdvanceStorageBookingsCommand(j.now(), j.batchSize))
	if err != nil {
		j.logger.ErrorContext(ctx, "Storage sweep failed", "error", err)
		return
	}
	if advanced > 0 {
		j.logger.InfoContext(ctx, "Storage bookings advanced", "count", advanced)
	}
}

func (j *StorageSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Storage sweep job started", "schedule", j.spec)
	return nil
}

func (j *StorageSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Storage sweep job stopped")
}
