package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"yaproxy-hq/yaproxy/pkg/download"
	"yaproxy-hq/yaproxy/pkg/history"
	"yaproxy-hq/yaproxy/pkg/telemetry/logging"
	"yaproxy-hq/yaproxy/pkg/telemetry/metrics"
)

// Write results reported to metrics.
const (
	ResultStored  = "stored"
	ResultDropped = "dropped"
	ResultFailed  = "failed"
)

// Config contains configuration for the recorder.
type Config struct {
	// BufferSize is the size of the async write channel.
	// Default: 256
	BufferSize int

	// WriteTimeout bounds each storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		BufferSize:   256,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder turns resolver results into history records and writes them from
// a single background goroutine. It implements download.Observer.
type Recorder struct {
	storage history.Storage
	config  *Config
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	ch     chan *history.Record
	wg     sync.WaitGroup
}

var _ download.Observer = (*Recorder)(nil)

// New starts a recorder writing to storage. collector and logger may be nil.
func New(storage history.Storage, cfg *Config, collector *metrics.Collector, logger *slog.Logger) *Recorder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage: storage,
		config:  cfg,
		metrics: collector,
		logger:  logger.With("component", "history.recorder"),
		now:     time.Now,
		ch:      make(chan *history.Record, cfg.BufferSize),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("history recorder started", "buffer_size", cfg.BufferSize)

	return r
}

// ObserveResolution enqueues a record for res. It never blocks; when the
// buffer is full the record is dropped.
func (r *Recorder) ObserveResolution(ctx context.Context, res download.Result) {
	record := r.newRecord(ctx, res)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	select {
	case r.ch <- record:
	default:
		r.metrics.RecordHistoryWrite(ResultDropped)
		r.logger.Warn("history buffer full, dropping record",
			"track_id", record.TrackID,
			"outcome", record.Outcome,
		)
	}
}

func (r *Recorder) newRecord(ctx context.Context, res download.Result) *history.Record {
	record := &history.Record{
		ID:         uuid.NewString(),
		RequestID:  logging.GetRequestID(ctx),
		TrackID:    res.TrackID,
		Codec:      res.Codec,
		Outcome:    res.Outcome,
		DurationMS: res.Duration.Milliseconds(),
		CreatedAt:  r.now().UTC(),
	}
	if res.Err != nil {
		record.Error = res.Err.Error()
	}
	return record
}

// Close stops accepting records, writes everything already queued and
// waits for the worker to exit.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Debug("history recorder stopped")
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for record := range r.ch {
		r.write(record)
	}
}

func (r *Recorder) write(record *history.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.metrics.RecordHistoryWrite(ResultFailed)
		r.logger.Error("failed to store history record",
			"record_id", record.ID,
			"track_id", record.TrackID,
			"error", err,
		)
		return
	}

	r.metrics.RecordHistoryWrite(ResultStored)
}
