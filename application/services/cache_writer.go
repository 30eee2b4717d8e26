package services

import (
	"context"
	"time"

	"clinect-backend/application/ports"
	"clinect-backend/domain/trial"
	"clinect-backend/pkg/observability"

	"go.uber.org/zap"
)

// Syncer projects a trial record into the graph.
type Syncer interface {
	Sync(ctx context.Context, rec *trial.Record) error
}

// CacheWriter writes a trial into the document cache and then pushes it into
// the graph. The document write is the one that matters: if it fails the
// error propagates, if it succeeds the trial is stored no matter what the
// graph sync does afterwards.
type CacheWriter struct {
	cache   ports.DocumentCache
	syncer  Syncer
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCacheWriter creates a new cache writer
func NewCacheWriter(
	cache ports.DocumentCache,
	syncer Syncer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CacheWriter {
	return &CacheWriter{
		cache:   cache,
		syncer:  syncer,
		metrics: metrics,
		logger:  logger,
	}
}

// Put upserts the record into the document cache, stamping cachedAt, then
// syncs it into the graph. This is the error-suppression boundary for sync
// failures: the graph is a rebuildable secondary index, so a failed sync is
// logged and counted but never rolls back or fails the document write.
func (w *CacheWriter) Put(ctx context.Context, rec *trial.Record) (bool, error) {
	if rec == nil || rec.NCTID == "" {
		return false, nil
	}

	rec.CachedAt = time.Now().UTC()

	stored, err := w.cache.Upsert(ctx, rec)
	if err != nil {
		return false, err
	}
	w.metrics.CacheWrites.Inc()

	if err := w.syncer.Sync(ctx, rec); err != nil {
		w.metrics.SyncFailures.Inc()
		w.logger.Warn("graph sync failed, document cache remains authoritative",
			zap.String("nctId", rec.NCTID),
			zap.Error(err),
		)
	}

	return stored, nil
}
