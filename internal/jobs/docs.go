// Package jobs provides scheduled background tasks for the route planner.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the route planning service.
//
// # Available Jobs
//
// 1. ETARefreshJob - Periodically re-projects estimated arrival times for all
// active routes, so estimates stay aligned with actual progress in the field.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(refreshETAsHandler, "0 */5 * * * *", collector, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The refresh schedule is a six-field cron expression (with seconds) taken
// from configuration. The default of every five minutes balances estimate
// freshness against optimizer load.
//
// # Error Handling
//
// - Per-route refresh failures are joined and logged; one stale route does
// not prevent the remaining routes from refreshing
// - Failed job starts will stop any already running jobs
package jobs
