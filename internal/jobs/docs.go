// Package jobs provides scheduled background tasks of the trade pipeline.
//
// Jobs are cron-driven (github.com/robfig/cron/v3, seconds resolution) and each
// one wraps a single command handler:
//
//  1. OutboxRelayJob publishes committed domain events from the outbox.
//  2. StorageSweepJob activates storage bookings whose window opened and releases expired ones.
//  3. ListingExpiryJob expires market listings past their availability window.
//  4. PayoutDispatchJob pays pending farmer balances through the payment gateway.
//
// Overlapping ticks of the same job are skipped. Errors are logged and the
// next tick retries, so every handler is written to be safe to rerun.
//
//	jobManager := jobs.NewJobManager(relay, sweep, expiry, payouts, jobs.DefaultSchedules, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal(err)
//	}
//	defer jobManager.StopAll()
package jobs
