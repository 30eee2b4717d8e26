package trial

import (
	"encoding/json"
	"time"
)

// Record is the canonical form of a clinical trial as produced by the
// registry and stored in the document cache. NCTID is the unique key and is
// immutable once created; every other field is overwritten on re-fetch.
type Record struct {
	NCTID      string          `json:"nctId" bson:"nctId"`
	Title      string          `json:"title" bson:"title"`
	Status     string          `json:"status" bson:"status"`
	Phase      []string        `json:"phase" bson:"phase"`
	Conditions []string        `json:"conditions" bson:"conditions"`
	Locations  []string        `json:"locations" bson:"locations"`
	Raw        json.RawMessage `json:"raw,omitempty" bson:"raw,omitempty"`
	CachedAt   time.Time       `json:"cachedAt" bson:"cachedAt"`
}

// ScoredTrial is a match-query result row. MatchScore counts the criteria
// the trial matched; fallback results carry a score of 0 because they are
// built straight from the registry response, not re-scored against the graph.
type ScoredTrial struct {
	NCTID      string   `json:"nctId"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	Phase      []string `json:"phase"`
	MatchScore int      `json:"matchScore"`
}

// Expired reports whether the record's cache entry is older than ttl.
func (r *Record) Expired(ttl time.Duration, now time.Time) bool {
	if r.CachedAt.IsZero() {
		return false
	}
	return r.CachedAt.Before(now.Add(-ttl))
}
