package services

import (
	"context"
	"fmt"
	"strings"

	"clinect-backend/application/ports"
	"clinect-backend/domain/trial"
	apperrors "clinect-backend/pkg/errors"
	"clinect-backend/pkg/observability"

	"go.uber.org/zap"
)

// Match methods reported in responses.
const (
	MethodGraph       = "graph"
	MethodAPIFallback = "api_fallback"
)

// MatchResult is the outcome of a smart match.
type MatchResult struct {
	Matches       []trial.ScoredTrial `json:"matches"`
	TotalMatches  int                 `json:"totalMatches"`
	Method        string              `json:"method"`
	CachedToGraph int                 `json:"cached_to_graph,omitempty"`
}

// Matcher answers scored trial searches against the graph.
type Matcher interface {
	Query(ctx context.Context, criteria trial.Criteria) ([]trial.ScoredTrial, error)
}

// Cacher write-backs a freshly fetched trial record.
type Cacher interface {
	Put(ctx context.Context, rec *trial.Record) (bool, error)
}

// SmartMatchService is the read-through policy layer: serve from the graph
// when it has a real (score > 0) match, otherwise fetch from the registry,
// write every fetched trial back through the cache, and answer from the
// fetched set. The next search for the same condition is then graph-served.
type SmartMatchService struct {
	matcher  Matcher
	registry ports.RegistryClient
	cacher   Cacher
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewSmartMatchService creates a new smart match service
func NewSmartMatchService(
	matcher Matcher,
	registry ports.RegistryClient,
	cacher Cacher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SmartMatchService {
	return &SmartMatchService{
		matcher:  matcher,
		registry: registry,
		cacher:   cacher,
		metrics:  metrics,
		logger:   logger,
	}
}

// SmartMatch runs the fallback policy for one request.
//
// Store and registry failures propagate as typed errors; they are never
// coerced into an empty result, because "the store is down" and "nothing
// matched" must stay distinguishable to the caller. A successful fallback
// with zero registry hits is a genuine zero-match result.
func (s *SmartMatchService) SmartMatch(ctx context.Context, criteria trial.Criteria) (*MatchResult, error) {
	criteria = criteria.Normalize()
	if criteria.Empty() {
		return nil, apperrors.NewValidationError("at least one of conditions, location or status is required")
	}

	matches, err := s.matcher.Query(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if len(matches) > 0 {
		// Fast path: the graph already knows this condition. No network call.
		s.metrics.GraphMatches.Inc()
		return &MatchResult{
			Matches:      matches,
			TotalMatches: len(matches),
			Method:       MethodGraph,
		}, nil
	}

	records, err := s.registry.Search(ctx, registrySearchFrom(criteria))
	if err != nil {
		s.metrics.RegistryErrors.Inc()
		return nil, err
	}
	s.metrics.APIFallbacks.Inc()

	// Write-back. Each put is independent and idempotent: one trial failing
	// to cache must not abort the rest, and concurrent callers racing on the
	// same condition just repeat the same keyed upserts.
	cached := 0
	for _, rec := range records {
		stored, err := s.cacher.Put(ctx, rec)
		if err != nil {
			s.logger.Warn("write-back failed for trial",
				zap.String("nctId", rec.NCTID),
				zap.Error(err),
			)
			continue
		}
		if stored {
			cached++
		}
	}

	// The response comes straight from the registry records. The sync that
	// just ran is best-effort, so the graph is not re-queried here and the
	// score stays 0 rather than pretending these were graph-ranked.
	matches = make([]trial.ScoredTrial, 0, len(records))
	for _, rec := range records {
		matches = append(matches, trial.ScoredTrial{
			NCTID:      rec.NCTID,
			Title:      rec.Title,
			Status:     rec.Status,
			Phase:      rec.Phase,
			MatchScore: 0,
		})
	}

	return &MatchResult{
		Matches:       matches,
		TotalMatches:  len(matches),
		Method:        MethodAPIFallback,
		CachedToGraph: cached,
	}, nil
}

// registrySearchFrom maps match criteria onto registry query parameters.
// Multiple conditions become one OR expression, since the registry takes a
// single condition term.
func registrySearchFrom(criteria trial.Criteria) ports.RegistrySearch {
	q := ports.RegistrySearch{
		Location: criteria.Location,
		Status:   criteria.Status,
		PageSize: criteria.Limit,
	}
	switch len(criteria.Conditions) {
	case 0:
	case 1:
		q.Condition = criteria.Conditions[0]
	default:
		q.Condition = fmt.Sprintf("(%s)", strings.Join(criteria.Conditions, " OR "))
	}
	return q
}
