package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinect-backend/application/ports"
	apperrors "clinect-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleStudy = `{
	"protocolSection": {
		"identificationModule": {"nctId": "NCT001", "briefTitle": "Asthma Inhaler Study"},
		"statusModule": {"overallStatus": "RECRUITING"},
		"designModule": {"phases": ["PHASE2", "PHASE3"]},
		"conditionsModule": {"conditions": ["Asthma", "Chronic Cough"]},
		"contactsLocationsModule": {"locations": [
			{"city": "Boston", "state": "MA", "country": "United States"},
			{"city": "Lyon", "country": "France"},
			{"city": "Boston", "state": "MA", "country": "United States"}
		]}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, zap.NewNop())
}

func TestSearchBuildsRegistryQuery(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"format":     r.URL.Query().Get("format"),
			"pageSize":   r.URL.Query().Get("pageSize"),
			"pageToken":  r.URL.Query().Get("pageToken"),
			"query.term": r.URL.Query().Get("query.term"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"studies": []}`))
	})

	_, err := client.Search(context.Background(), ports.RegistrySearch{
		Condition: "Asthma",
		Location:  "Boston, MA",
		Status:    "RECRUITING",
		PageSize:  25,
		PageToken: "tok123",
	})
	require.NoError(t, err)

	assert.Equal(t, "json", gotQuery["format"])
	assert.Equal(t, "25", gotQuery["pageSize"])
	assert.Equal(t, "tok123", gotQuery["pageToken"])
	assert.Equal(t,
		"AREA[ConditionSearch]Asthma AND AREA[LocationSearch]Boston, MA AND AREA[RecruitmentStatus]RECRUITING",
		gotQuery["query.term"],
	)
}

func TestSearchParsesStudies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"studies": [` + sampleStudy + `, {"protocolSection": {}}]}`))
	})

	records, err := client.Search(context.Background(), ports.RegistrySearch{Condition: "Asthma"})
	require.NoError(t, err)

	// The study without an NCT id is skipped.
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "NCT001", rec.NCTID)
	assert.Equal(t, "Asthma Inhaler Study", rec.Title)
	assert.Equal(t, "RECRUITING", rec.Status)
	assert.Equal(t, []string{"PHASE2", "PHASE3"}, rec.Phase)
	assert.Equal(t, []string{"Asthma", "Chronic Cough"}, rec.Conditions)
	assert.Equal(t, []string{"Boston, MA", "Lyon, France"}, rec.Locations)
	assert.NotEmpty(t, rec.Raw)
}

func TestSearchOmitsEmptyPageToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["pageToken"]
		assert.False(t, present)
		w.Write([]byte(`{"studies": []}`))
	})

	_, err := client.Search(context.Background(), ports.RegistrySearch{Condition: "Asthma"})
	require.NoError(t, err)
}

func TestSearchEmptyPageIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"studies": []}`))
	})

	records, err := client.Search(context.Background(), ports.RegistrySearch{Condition: "Rare"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchServerErrorIsRegistryError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Search(context.Background(), ports.RegistrySearch{Condition: "Asthma"})
	require.Error(t, err)
	assert.True(t, apperrors.IsRegistry(err))
}

func TestSearchMalformedBodyIsRegistryError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Search(context.Background(), ports.RegistrySearch{Condition: "Asthma"})
	require.Error(t, err)
	assert.True(t, apperrors.IsRegistry(err))
}

func TestGetStudy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/studies/NCT001", r.URL.Path)
		w.Write([]byte(sampleStudy))
	})

	rec, err := client.GetStudy(context.Background(), "NCT001")
	require.NoError(t, err)
	assert.Equal(t, "NCT001", rec.NCTID)
}

func TestGetStudyNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetStudy(context.Background(), "NCT999")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestParseStudyLocationFormats(t *testing.T) {
	tests := []struct {
		name     string
		location string
		expected []string
	}{
		{"city and state", `{"city": "Boston", "state": "MA"}`, []string{"Boston, MA"}},
		{"city and country", `{"city": "Lyon", "country": "France"}`, []string{"Lyon, France"}},
		{"city only", `{"city": "Reykjavik"}`, []string{"Reykjavik"}},
		{"no city", `{"state": "MA", "country": "United States"}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"protocolSection": {
				"identificationModule": {"nctId": "NCT001"},
				"contactsLocationsModule": {"locations": [` + tt.location + `]}
			}}`
			rec := ParseStudy(json.RawMessage(raw))
			require.NotNil(t, rec)
			assert.Equal(t, tt.expected, rec.Locations)
		})
	}
}

func TestParseStudyRejectsUnkeyed(t *testing.T) {
	assert.Nil(t, ParseStudy(json.RawMessage(`{"protocolSection": {}}`)))
	assert.Nil(t, ParseStudy(json.RawMessage(`not json`)))
}
