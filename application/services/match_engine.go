package services

import (
	"context"
	"fmt"
	"strings"

	"clinect-backend/application/ports"
	"clinect-backend/domain/trial"

	"go.uber.org/zap"
)

// MatchEngine answers trial searches from the graph. Matching is exact and
// case-insensitive on normalized condition/location keys; there is no
// substring or fuzzy matching. Read-only: it never writes to the graph.
type MatchEngine struct {
	graph  ports.GraphStore
	logger *zap.Logger
}

// NewMatchEngine creates a new match engine
func NewMatchEngine(graph ports.GraphStore, logger *zap.Logger) *MatchEngine {
	return &MatchEngine{
		graph:  graph,
		logger: logger,
	}
}

// Query returns trials matching the criteria, ordered by descending score
// with ascending NCT id as the tie-break. Each matched condition and a
// matched location contribute one point. When a condition or location was
// supplied, rows scoring zero are excluded; that filter is what makes an
// empty result a provable miss rather than an unscored table scan. With
// status-only criteria the score plays no part and rows pass through.
//
// A graph store failure surfaces as a store-unavailable error, never as an
// empty result.
func (e *MatchEngine) Query(ctx context.Context, criteria trial.Criteria) ([]trial.ScoredTrial, error) {
	criteria = criteria.Normalize()

	query, params := buildMatchQuery(criteria)

	rows, err := e.graph.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	matches := make([]trial.ScoredTrial, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, trial.ScoredTrial{
			NCTID:      rowString(row, "nctId"),
			Title:      rowString(row, "title"),
			Status:     rowString(row, "status"),
			Phase:      rowStrings(row, "phase"),
			MatchScore: rowInt(row, "matchScore"),
		})
	}

	e.logger.Debug("graph match query",
		zap.Int("conditions", len(criteria.Conditions)),
		zap.String("location", criteria.Location),
		zap.String("status", criteria.Status),
		zap.Int("matches", len(matches)),
	)

	return matches, nil
}

// buildMatchQuery assembles the Cypher for the given criteria. Conditions
// and location are optional matches so a trial missing one can still score
// on the other; status is a hard filter.
func buildMatchQuery(criteria trial.Criteria) (string, map[string]any) {
	var b strings.Builder
	params := map[string]any{"limit": criteria.Limit}

	b.WriteString("MATCH (t:Trial)\n")
	if criteria.Status != "" {
		b.WriteString("WHERE t.status = $status\n")
		params["status"] = criteria.Status
	}

	conditionScore := "0"
	if len(criteria.Conditions) > 0 {
		params["conditionKeys"] = trial.NormalizeKeys(criteria.Conditions)
		b.WriteString("OPTIONAL MATCH (t)-[:TREATS]->(c:Condition)\n")
		b.WriteString("WHERE c.key IN $conditionKeys\n")
		conditionScore = "count(DISTINCT c)"
	}

	locationScore := "0"
	if criteria.Location != "" {
		params["locationKey"] = trial.NormalizeKey(criteria.Location)
		b.WriteString("OPTIONAL MATCH (t)-[:LOCATED_IN]->(l:Location {key: $locationKey})\n")
		locationScore = "count(DISTINCT l)"
	}

	fmt.Fprintf(&b, "WITH t, %s + %s AS matchScore\n", conditionScore, locationScore)
	if criteria.Scored() {
		b.WriteString("WHERE matchScore > 0\n")
	}
	b.WriteString("RETURN t.nctId AS nctId,\n")
	b.WriteString("       t.title AS title,\n")
	b.WriteString("       t.status AS status,\n")
	b.WriteString("       t.phase AS phase,\n")
	b.WriteString("       matchScore\n")
	b.WriteString("ORDER BY matchScore DESC, nctId ASC\n")
	b.WriteString("LIMIT $limit")

	return b.String(), params
}

// Row decoding helpers. The graph adapter returns loosely typed rows; these
// coerce the handful of shapes the driver produces.

func rowString(row map[string]any, key string) string {
	if s, ok := row[key].(string); ok {
		return s
	}
	return ""
}

func rowStrings(row map[string]any, key string) []string {
	switch v := row[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func rowInt(row map[string]any, key string) int {
	switch v := row[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
