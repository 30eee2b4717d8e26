package services

import (
	"context"

	"clinect-backend/application/ports"

	"go.uber.org/zap"
)

const clearGraphQuery = `MATCH (n) DETACH DELETE n`

// graphStatQueries mirror the operational stats the graph exposes.
var graphStatQueries = map[string]string{
	"nodes":         `MATCH (n) RETURN count(n) AS count`,
	"relationships": `MATCH ()-[r]->() RETURN count(r) AS count`,
	"trials":        `MATCH (t:Trial) RETURN count(t) AS count`,
	"conditions":    `MATCH (c:Condition) RETURN count(c) AS count`,
	"locations":     `MATCH (l:Location) RETURN count(l) AS count`,
}

// AdminService exposes the operational tooling: full-cache and full-graph
// clears (independently invokable) and store statistics.
type AdminService struct {
	graph  ports.GraphStore
	cache  ports.DocumentCache
	logger *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(graph ports.GraphStore, cache ports.DocumentCache, logger *zap.Logger) *AdminService {
	return &AdminService{
		graph:  graph,
		cache:  cache,
		logger: logger,
	}
}

// ClearCache deletes every cached trial document. When clearGraph is set the
// graph is wiped too; clearing the cache without the graph is allowed, the
// graph then keeps serving as a stale-but-rebuildable index.
func (s *AdminService) ClearCache(ctx context.Context, clearGraph bool) (deleted int64, graphCleared bool, err error) {
	deleted, err = s.cache.ClearAll(ctx)
	if err != nil {
		return 0, false, err
	}
	s.logger.Info("document cache cleared", zap.Int64("deleted", deleted))

	if clearGraph {
		if err := s.ClearGraph(ctx); err != nil {
			return deleted, false, err
		}
		graphCleared = true
	}
	return deleted, graphCleared, nil
}

// ClearExpired deletes cache entries past their TTL.
func (s *AdminService) ClearExpired(ctx context.Context) (int64, error) {
	deleted, err := s.cache.ClearExpired(ctx)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("expired cache entries cleared", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// ClearGraph deletes every node and relationship in the graph.
func (s *AdminService) ClearGraph(ctx context.Context) error {
	if _, err := s.graph.Run(ctx, clearGraphQuery, nil); err != nil {
		return err
	}
	s.logger.Info("graph cleared")
	return nil
}

// StoreStats reports counts from both stores.
type StoreStats struct {
	Cache ports.CacheStats `json:"cache"`
	Graph map[string]int64 `json:"graph"`
}

// Stats collects document-cache and graph statistics.
func (s *AdminService) Stats(ctx context.Context) (*StoreStats, error) {
	cacheStats, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, err
	}

	graphStats := make(map[string]int64, len(graphStatQueries))
	for name, query := range graphStatQueries {
		rows, err := s.graph.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			graphStats[name] = int64(rowInt(rows[0], "count"))
		}
	}

	return &StoreStats{Cache: cacheStats, Graph: graphStats}, nil
}
