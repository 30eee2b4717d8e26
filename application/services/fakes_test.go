package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"clinect-backend/application/ports"
	"clinect-backend/domain/trial"
	apperrors "clinect-backend/pkg/errors"
	"clinect-backend/pkg/observability"

	"github.com/prometheus/client_golang/prometheus"
)

// fakeGraphStore is an in-memory stand-in for the graph adapter. It
// recognizes the queries the engines issue by their leading clauses and
// maintains node and edge sets keyed the same way the real graph is, which
// makes idempotency observable as stable node and edge counts.
type fakeGraphStore struct {
	trials     map[string]map[string]any
	conditions map[string]string
	locations  map[string]string
	treats     map[string]map[string]bool
	located    map[string]map[string]bool

	down bool
}

func newFakeGraphStore() *fakeGraphStore {
	return &fakeGraphStore{
		trials:     make(map[string]map[string]any),
		conditions: make(map[string]string),
		locations:  make(map[string]string),
		treats:     make(map[string]map[string]bool),
		located:    make(map[string]map[string]bool),
	}
}

func (f *fakeGraphStore) nodeCount() int {
	return len(f.trials) + len(f.conditions) + len(f.locations)
}

func (f *fakeGraphStore) edgeCount() int {
	n := 0
	for _, set := range f.treats {
		n += len(set)
	}
	for _, set := range f.located {
		n += len(set)
	}
	return n
}

func (f *fakeGraphStore) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if f.down {
		return nil, apperrors.NewStoreUnavailableError("graph", errors.New("connection refused"))
	}

	switch {
	case strings.HasPrefix(query, "MERGE (t:Trial"):
		nctID := params["nctId"].(string)
		f.trials[nctID] = map[string]any{
			"title":  params["title"],
			"status": params["status"],
			"phase":  params["phase"],
		}
		return nil, nil

	case strings.HasPrefix(query, "MERGE (c:Condition"):
		f.conditions[params["key"].(string)] = params["name"].(string)
		return nil, nil

	case strings.HasPrefix(query, "MERGE (l:Location"):
		f.locations[params["key"].(string)] = params["name"].(string)
		return nil, nil

	case strings.Contains(query, "MERGE (t)-[:TREATS]->"):
		nctID := params["nctId"].(string)
		if f.treats[nctID] == nil {
			f.treats[nctID] = make(map[string]bool)
		}
		f.treats[nctID][params["key"].(string)] = true
		return nil, nil

	case strings.Contains(query, "MERGE (t)-[:LOCATED_IN]->"):
		nctID := params["nctId"].(string)
		if f.located[nctID] == nil {
			f.located[nctID] = make(map[string]bool)
		}
		f.located[nctID][params["key"].(string)] = true
		return nil, nil

	case strings.Contains(query, "DETACH DELETE"):
		f.trials = make(map[string]map[string]any)
		f.conditions = make(map[string]string)
		f.locations = make(map[string]string)
		f.treats = make(map[string]map[string]bool)
		f.located = make(map[string]map[string]bool)
		return nil, nil

	case strings.Contains(query, "RETURN count"):
		return f.runCount(query), nil

	case strings.Contains(query, "(t1:Trial"):
		// Related query; the fakes only need it to answer without error.
		return nil, nil

	case strings.HasPrefix(query, "MATCH (t:Trial)"):
		return f.runMatch(query, params), nil
	}

	return nil, errors.New("fake graph store: unrecognized query: " + query)
}

func (f *fakeGraphStore) runCount(query string) []map[string]any {
	var count int
	switch {
	case strings.Contains(query, "(t:Trial)"):
		count = len(f.trials)
	case strings.Contains(query, "(c:Condition)"):
		count = len(f.conditions)
	case strings.Contains(query, "(l:Location)"):
		count = len(f.locations)
	case strings.Contains(query, "[r]"):
		count = f.edgeCount()
	default:
		count = f.nodeCount()
	}
	return []map[string]any{{"count": int64(count)}}
}

func (f *fakeGraphStore) runMatch(query string, params map[string]any) []map[string]any {
	conditionKeys, _ := params["conditionKeys"].([]string)
	locationKey, _ := params["locationKey"].(string)
	status, _ := params["status"].(string)
	limit, _ := params["limit"].(int)
	scoredOnly := strings.Contains(query, "WHERE matchScore > 0")

	type row struct {
		nctID string
		score int
	}
	var rows []row
	for nctID, props := range f.trials {
		if status != "" && props["status"] != status {
			continue
		}
		score := 0
		for _, key := range conditionKeys {
			if f.treats[nctID][key] {
				score++
			}
		}
		if locationKey != "" && f.located[nctID][locationKey] {
			score++
		}
		if scoredOnly && score == 0 {
			continue
		}
		rows = append(rows, row{nctID: nctID, score: score})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		return rows[i].nctID < rows[j].nctID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		props := f.trials[r.nctID]
		out = append(out, map[string]any{
			"nctId":      r.nctID,
			"title":      props["title"],
			"status":     props["status"],
			"phase":      props["phase"],
			"matchScore": int64(r.score),
		})
	}
	return out
}

// fakeRegistry serves canned records and counts calls.
type fakeRegistry struct {
	records []*trial.Record
	err     error
	calls   int
	lastQ   ports.RegistrySearch
}

func (f *fakeRegistry) Search(ctx context.Context, q ports.RegistrySearch) ([]*trial.Record, error) {
	f.calls++
	f.lastQ = q
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeRegistry) GetStudy(ctx context.Context, nctID string) (*trial.Record, error) {
	f.calls++
	for _, rec := range f.records {
		if rec.NCTID == nctID {
			return rec, nil
		}
	}
	return nil, apperrors.NewNotFoundError("trial " + nctID)
}

// fakeDocumentCache is an in-memory DocumentCache.
type fakeDocumentCache struct {
	records   map[string]*trial.Record
	upsertErr error
}

func newFakeDocumentCache() *fakeDocumentCache {
	return &fakeDocumentCache{records: make(map[string]*trial.Record)}
}

func (f *fakeDocumentCache) Upsert(ctx context.Context, rec *trial.Record) (bool, error) {
	if f.upsertErr != nil {
		return false, f.upsertErr
	}
	clone := *rec
	f.records[rec.NCTID] = &clone
	return true, nil
}

func (f *fakeDocumentCache) Get(ctx context.Context, nctID string) (*trial.Record, error) {
	rec, ok := f.records[nctID]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeDocumentCache) ClearAll(ctx context.Context) (int64, error) {
	n := int64(len(f.records))
	f.records = make(map[string]*trial.Record)
	return n, nil
}

func (f *fakeDocumentCache) ClearExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeDocumentCache) Stats(ctx context.Context) (ports.CacheStats, error) {
	n := int64(len(f.records))
	return ports.CacheStats{Total: n, Valid: n}, nil
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.NewRegistry())
}
