// Package jobs provides scheduled background tasks for the order lifecycle.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PayoutRetryJob - Runs every minute to recompute payouts for delivered
// orders that have no earning record. Delivery-time payout failures leave the
// order delivered without an earning; this sweep picks those up.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(uowFactory, payoutHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A payout that fails during the sweep is logged and left in place; the next
// run retries it. Duplicate computation is impossible because earnings carry
// a unique index on the order id.
package jobs
