// Package storage provides history.Storage backends.
//
// MemoryStorage keeps records in a slice and suits tests and short-lived
// deployments. SQLiteStorage persists records with modernc.org/sqlite, a
// cgo-free driver, with optional WAL mode and a busy timeout applied to every
// pooled connection.
//
//	store, err := storage.New(&cfg.History, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
package storage
