package storage

import (
	"fmt"
	"log/slog"

	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/history"
)

// New creates the backend selected by cfg.Backend.
func New(cfg *config.HistoryConfig, logger *slog.Logger) (history.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite", "":
		return NewSQLiteStorage(cfg.SQLite, logger)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
