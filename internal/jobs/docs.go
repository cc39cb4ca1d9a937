// Package jobs runs the background housekeeping of meal orders.
//
// HousekeepingJob drives the time based part of the order lifecycle:
//
//   - a periodic sweep on a github.com/robfig/cron/v3 schedule (with seconds)
//     deletes abandoned orders, then reopens, delivers and archives orders
//     that stayed too long in LOCKED, ORDERED and DELIVERED
//   - one-shot timers armed after each lock, ordered, delivered and revoked
//     transition perform the same follow-up for a single order as soon as
//     its deadline passes
//
// Timers live in memory only. On start the job re-derives them from the
// orders currently in LOCKED, ORDERED, REVOKED and DELIVERED, and runs one
// sweep after a short delay.
//
// A timer that fires for an order which has moved on in the meantime does
// nothing. Every change goes through the ordinary command handlers, so
// version checks, row locks and notifications apply to housekeeping as well.
//
// JobManager bundles the jobs for the composition root:
//
//	manager := jobs.NewJobManager(housekeeping)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
package jobs
