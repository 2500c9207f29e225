package jobs

import (
	"fmt"
	"log/slog"
)

type job interface {
	Start() error
	Stop()
}

// Schedules holds the cron expressions (with seconds) and batch sizes of the scheduled jobs.
type Schedules struct {
	OutboxRelay    string
	StorageSweep   string
	ListingExpiry  string
	PayoutDispatch string
	BatchSize      int
}

// DefaultSchedules relays every second and sweeps once a minute.
var DefaultSchedules = Schedules{
	OutboxRelay:    "* * * * * *",
	StorageSweep:   "0 * * * * *",
	ListingExpiry:  "30 * * * * *",
	PayoutDispatch: "*/15 * * * * *",
	BatchSize:      100,
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs  []job
	names []string
}

func NewJobManager(
	relayHandler outboxRelayer,
	storageHandler storageAdvancer,
	listingHandler listingExpirer,
	payoutHandler payoutDispatcher,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	if schedules.BatchSize <= 0 {
		schedules.BatchSize = DefaultSchedules.BatchSize
	}
	return &JobManager{
		jobs: []job{
			NewOutboxRelayJob(relayHandler, schedules.OutboxRelay, schedules.BatchSize, logger),
			NewStorageSweepJob(storageHandler, schedules.StorageSweep, schedules.BatchSize, logger),
			NewListingExpiryJob(listingHandler, schedules.ListingExpiry, schedules.BatchSize, logger),
			NewPayoutDispatchJob(payoutHandler, schedules.PayoutDispatch, schedules.BatchSize, logger),
		},
		names: []string{"outbox relay", "storage sweep", "listing expiry", "payout dispatch"},
	}
}

// StartAll starts the jobs in order. If one fails to start, the ones already running are stopped.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.Start(); err != nil {
			for k := i - 1; k >= 0; k-- {
				jm.jobs[k].Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", jm.names[i], err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for running ticks to finish.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].Stop()
	}
}
