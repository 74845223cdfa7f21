// Package retention removes old history records.
//
// Pruner deletes records older than a number of days; Scheduler runs it on a
// cron expression such as "0 3 * * *" (daily at 03:00). The schedule "off"
// disables automatic pruning; Prune can still be called directly.
package retention
