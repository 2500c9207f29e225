package jobs

import (
	"context"
	"log/slog"
	"time"

	"agritrade/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type listingExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireListingsCommand) (int, error)
}

// ListingExpiryJob closes market listings whose availability window has passed.
type ListingExpiryJob struct {
	handler   listingExpirer
	spec      string
	batchSize int
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewListingExpiryJob(handler listingExpirer, spec string, batchSize int, logger *slog.Logger) *ListingExpiryJob {
	return &ListingExpiryJob{
		handler:   handler,
		spec:      spec,
		batchSize: batchSize,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "listing_expiry_job"),
	}
}

func (j *ListingExpiryJob) Run(ctx context.Context) {
	expired, err := j.handler.Handle(ctx, commands.NewExpireListingsCommand(j.now(), j.batchSize))
	if err != nil {
		j.logger.ErrorContext(ctx, "Listing expiry failed", "error", err)
		return
	}
	if expired > 0 {
		j.logger.InfoContext(ctx, "Listings expired", "count", expired)
	}
}

func (j *ListingExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Listing expiry job started", "schedule", j.spec)
	return nil
}

func (j *ListingExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Listing expiry job stopped")
}
