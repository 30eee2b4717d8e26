package services

import (
	"context"
	"testing"

	"clinect-backend/domain/trial"
	apperrors "clinect-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedGraph(t *testing.T, graph *fakeGraphStore, records ...*trial.Record) {
	t.Helper()
	engine := NewSyncEngine(graph, zap.NewNop())
	for _, rec := range records {
		require.NoError(t, engine.Sync(context.Background(), rec))
	}
}

func TestQueryScoresConditionsAndLocation(t *testing.T) {
	graph := newFakeGraphStore()
	seedGraph(t, graph,
		&trial.Record{NCTID: "NCT002", Conditions: []string{"Asthma"}, Locations: []string{"Chicago, IL"}},
		&trial.Record{NCTID: "NCT001", Conditions: []string{"Asthma", "Chronic Cough"}, Locations: []string{"Boston, MA"}},
		&trial.Record{NCTID: "NCT003", Conditions: []string{"Diabetes"}, Locations: []string{"Boston, MA"}},
	)

	engine := NewMatchEngine(graph, zap.NewNop())
	matches, err := engine.Query(context.Background(), trial.Criteria{
		Conditions: []string{"Asthma", "Chronic Cough"},
		Location:   "Boston, MA",
	})
	require.NoError(t, err)

	// NCT001 matches both conditions and the location, NCT002 one condition,
	// NCT003 the location only. Zero-scoring rows are excluded.
	require.Len(t, matches, 3)
	assert.Equal(t, "NCT001", matches[0].NCTID)
	assert.Equal(t, 3, matches[0].MatchScore)
	assert.Equal(t, "NCT002", matches[1].NCTID)
	assert.Equal(t, 1, matches[1].MatchScore)
	assert.Equal(t, "NCT003", matches[2].NCTID)
	assert.Equal(t, 1, matches[2].MatchScore)
}

func TestQueryExcludesZeroScoreRows(t *testing.T) {
	graph := newFakeGraphStore()
	seedGraph(t, graph,
		&trial.Record{NCTID: "NCT001", Conditions: []string{"Asthma"}},
		&trial.Record{NCTID: "NCT999", Conditions: []string{"Melanoma"}},
	)

	engine := NewMatchEngine(graph, zap.NewNop())
	matches, err := engine.Query(context.Background(), trial.Criteria{
		Conditions: []string{"Asthma"},
	})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "NCT001", matches[0].NCTID)
	for _, m := range matches {
		assert.Greater(t, m.MatchScore, 0)
	}
}

func TestQueryMatchingIsCaseInsensitiveExact(t *testing.T) {
	graph := newFakeGraphStore()
	seedGraph(t, graph,
		&trial.Record{NCTID: "NCT001", Conditions: []string{"Diabetes Type 1"}},
	)

	engine := NewMatchEngine(graph, zap.NewNop())

	matches, err := engine.Query(context.Background(), trial.Criteria{
		Conditions: []string{"DIABETES  type 1"},
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// Substrings do not match; the key comparison is exact.
	matches, err = engine.Query(context.Background(), trial.Criteria{
		Conditions: []string{"Diabetes"},
	})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQueryTieBreaksOnNCTID(t *testing.T) {
	graph := newFakeGraphStore()
	seedGraph(t, graph,
		&trial.Record{NCTID: "NCT300", Conditions: []string{"Asthma"}},
		&trial.Record{NCTID: "NCT100", Conditions: []string{"Asthma"}},
		&trial.Record{NCTID: "NCT200", Conditions: []string{"Asthma"}},
	)

	engine := NewMatchEngine(graph, zap.NewNop())
	matches, err := engine.Query(context.Background(), trial.Criteria{
		Conditions: []string{"Asthma"},
	})
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, "NCT100", matches[0].NCTID)
	assert.Equal(t, "NCT200", matches[1].NCTID)
	assert.Equal(t, "NCT300", matches[2].NCTID)
}

func TestQueryStatusOnlyPassesUnscoredRows(t *testing.T) {
	graph := newFakeGraphStore()
	seedGraph(t, graph,
		&trial.Record{NCTID: "NCT001", Status: "RECRUITING"},
		&trial.Record{NCTID: "NCT002", Status: "COMPLETED"},
	)

	engine := NewMatchEngine(graph, zap.NewNop())
	matches, err := engine.Query(context.Background(), trial.Criteria{
		Status: "RECRUITING",
	})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "NCT001", matches[0].NCTID)
	assert.Equal(t, 0, matches[0].MatchScore)
}

func TestQueryStatusFiltersScoredResults(t *testing.T) {
	graph := newFakeGraphStore()
	seedGraph(t, graph,
		&trial.Record{NCTID: "NCT001", Status: "RECRUITING", Conditions: []string{"Asthma"}},
		&trial.Record{NCTID: "NCT002", Status: "COMPLETED", Conditions: []string{"Asthma"}},
	)

	engine := NewMatchEngine(graph, zap.NewNop())
	matches, err := engine.Query(context.Background(), trial.Criteria{
		Conditions: []string{"Asthma"},
		Status:     "RECRUITING",
	})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "NCT001", matches[0].NCTID)
}

func TestQueryRespectsLimit(t *testing.T) {
	graph := newFakeGraphStore()
	seedGraph(t, graph,
		&trial.Record{NCTID: "NCT001", Conditions: []string{"Asthma"}},
		&trial.Record{NCTID: "NCT002", Conditions: []string{"Asthma"}},
		&trial.Record{NCTID: "NCT003", Conditions: []string{"Asthma"}},
	)

	engine := NewMatchEngine(graph, zap.NewNop())
	matches, err := engine.Query(context.Background(), trial.Criteria{
		Conditions: []string{"Asthma"},
		Limit:      2,
	})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestQueryStoreDownIsAnErrorNotEmpty(t *testing.T) {
	graph := newFakeGraphStore()
	graph.down = true

	engine := NewMatchEngine(graph, zap.NewNop())
	matches, err := engine.Query(context.Background(), trial.Criteria{
		Conditions: []string{"Asthma"},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsStoreUnavailable(err))
	assert.Nil(t, matches)
}
