package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/history"
)

const sqliteBackend = "sqlite"

// SQLiteStorage implements history.Storage on SQLite through the pure-Go
// modernc.org/sqlite driver.
type SQLiteStorage struct {
	db     *sql.DB
	config config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at cfg.Path,
// applies the schema and verifies its version.
func NewSQLiteStorage(cfg config.SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history.storage.sqlite")

	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, history.NewStorageError(sqliteBackend, "create_dir", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(cfg))
	if err != nil {
		return nil, history.NewStorageError(sqliteBackend, "open", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen < 1 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)

	s := &SQLiteStorage{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
		"max_open_conns", maxOpen,
	)

	return s, nil
}

// dsn builds a connection string whose pragmas apply to every pooled
// connection.
func dsn(cfg config.SQLiteConfig) string {
	d := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout.Milliseconds())
	if cfg.WALMode {
		d += "&_pragma=journal_mode(WAL)"
	}
	return d
}

func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError(sqliteBackend, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError(sqliteBackend, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return history.NewStorageError(sqliteBackend, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return history.NewStorageError(sqliteBackend, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store inserts record.
func (s *SQLiteStorage) Store(ctx context.Context, record *history.Record) error {
	_, err := s.db.ExecContext(ctx, insertRecord,
		record.ID,
		nullString(record.RequestID),
		record.TrackID,
		nullString(record.Codec),
		record.Outcome,
		nullString(record.Error),
		record.DurationMS,
		record.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return history.NewStorageError(sqliteBackend, "store", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (s *SQLiteStorage) Recent(ctx context.Context, limit int) ([]*history.Record, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, selectRecent, limit)
	if err != nil {
		return nil, history.NewStorageError(sqliteBackend, "recent", err)
	}
	defer rows.Close()

	var records []*history.Record
	for rows.Next() {
		var (
			rec                        history.Record
			requestID, codec, errorMsg sql.NullString
			createdAt                  int64
		)
		if err := rows.Scan(&rec.ID, &requestID, &rec.TrackID, &codec, &rec.Outcome, &errorMsg, &rec.DurationMS, &createdAt); err != nil {
			return nil, history.NewStorageError(sqliteBackend, "scan", err)
		}
		rec.RequestID = requestID.String
		rec.Codec = codec.String
		rec.Error = errorMsg.String
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError(sqliteBackend, "recent", err)
	}

	return records, nil
}

// DeleteOlderThan removes records created before cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteOlderThan, cutoff.UTC().UnixNano())
	if err != nil {
		return 0, history.NewStorageError(sqliteBackend, "delete", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError(sqliteBackend, "delete", err)
	}
	return n, nil
}

// Count returns the number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, countRecords).Scan(&n); err != nil {
		return 0, history.NewStorageError(sqliteBackend, "count", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return history.NewStorageError(sqliteBackend, "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError(sqliteBackend, "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
