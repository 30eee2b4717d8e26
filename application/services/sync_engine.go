package services

import (
	"context"

	"clinect-backend/application/ports"
	"clinect-backend/domain/trial"

	"go.uber.org/zap"
)

// Graph upsert queries. Every node is keyed by a natural identifier (NCT id,
// normalized condition/location key) so re-running a sync merges into the
// same nodes and edges instead of inserting new ones.
const (
	upsertTrialQuery = `MERGE (t:Trial {nctId: $nctId})
SET t.title = $title,
    t.status = $status,
    t.phase = $phase,
    t.updatedAt = datetime()`

	upsertConditionQuery = `MERGE (c:Condition {key: $key})
SET c.name = $name`

	upsertLocationQuery = `MERGE (l:Location {key: $key})
SET l.name = $name`

	linkTreatsQuery = `MATCH (t:Trial {nctId: $nctId})
MATCH (c:Condition {key: $key})
MERGE (t)-[:TREATS]->(c)`

	linkLocatedInQuery = `MATCH (t:Trial {nctId: $nctId})
MATCH (l:Location {key: $key})
MERGE (t)-[:LOCATED_IN]->(l)`
)

// SyncEngine projects a trial record into the graph: a Trial node, one
// Condition node per distinct normalized condition, one Location node per
// distinct normalized location, and TREATS / LOCATED_IN edges between them.
// Conditions and locations are normalized with the same function the match
// engine uses; any divergence there would break matching.
type SyncEngine struct {
	graph  ports.GraphStore
	logger *zap.Logger
}

// NewSyncEngine creates a new sync engine
func NewSyncEngine(graph ports.GraphStore, logger *zap.Logger) *SyncEngine {
	return &SyncEngine{
		graph:  graph,
		logger: logger,
	}
}

// Sync upserts the record's nodes and edges. Idempotent: syncing the same
// record N times leaves the graph in the same state as syncing it once.
// Mutable trial attributes (title, status, phase) are overwritten with the
// latest values on every call.
//
// Sync returns its error for the caller to log and swallow; the write-back
// path treats the graph as a rebuildable index, not a store of record.
func (e *SyncEngine) Sync(ctx context.Context, rec *trial.Record) error {
	if _, err := e.graph.Run(ctx, upsertTrialQuery, map[string]any{
		"nctId":  rec.NCTID,
		"title":  rec.Title,
		"status": rec.Status,
		"phase":  rec.Phase,
	}); err != nil {
		return err
	}

	for _, condition := range rec.Conditions {
		key := trial.NormalizeKey(condition)
		if key == "" {
			continue
		}
		if _, err := e.graph.Run(ctx, upsertConditionQuery, map[string]any{
			"key":  key,
			"name": condition,
		}); err != nil {
			return err
		}
		if _, err := e.graph.Run(ctx, linkTreatsQuery, map[string]any{
			"nctId": rec.NCTID,
			"key":   key,
		}); err != nil {
			return err
		}
	}

	for _, location := range rec.Locations {
		key := trial.NormalizeKey(location)
		if key == "" {
			continue
		}
		if _, err := e.graph.Run(ctx, upsertLocationQuery, map[string]any{
			"key":  key,
			"name": location,
		}); err != nil {
			return err
		}
		if _, err := e.graph.Run(ctx, linkLocatedInQuery, map[string]any{
			"nctId": rec.NCTID,
			"key":   key,
		}); err != nil {
			return err
		}
	}

	e.logger.Debug("trial synced to graph",
		zap.String("nctId", rec.NCTID),
		zap.Int("conditions", len(rec.Conditions)),
		zap.Int("locations", len(rec.Locations)),
	)

	return nil
}
