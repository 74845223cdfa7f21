// Package history keeps an optional, append-only log of download link
// resolutions.
//
// Each call to the resolver produces a Record with the track ID, the selected
// codec, the outcome and the elapsed time. The signed link is not part of the
// record.
//
// # Components
//
//   - storage: memory and SQLite implementations of Storage
//   - recorder: an asynchronous writer that implements download.Observer
//   - retention: a pruner that drops old records and a cron scheduler for it
//
// Recording never blocks a request. When the recorder buffer is full the
// record is dropped and counted in the history_writes_total metric.
package history
