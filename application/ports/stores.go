package ports

import (
	"context"
	"encoding/json"
	"time"

	"clinect-backend/domain/trial"
)

// GraphStore executes parameterized queries against the relationship store.
// The query language must support upsert-by-key (MERGE) semantics; callers
// own the query text, the adapter owns the connection.
type GraphStore interface {
	Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// CacheStats summarizes the document cache contents.
type CacheStats struct {
	Total   int64 `json:"total"`
	Valid   int64 `json:"valid"`
	Expired int64 `json:"expired"`
}

// DocumentCache is the key-value store of trial documents, keyed by NCT id.
// The document cache is the durability-of-record; the graph is a derived
// index rebuilt from it.
type DocumentCache interface {
	// Upsert stores or overwrites a record. Returns true when the write
	// committed (including overwrites).
	Upsert(ctx context.Context, rec *trial.Record) (bool, error)
	// Get returns the cached record, or (nil, nil) when the id is absent or
	// the entry has outlived its TTL.
	Get(ctx context.Context, nctID string) (*trial.Record, error)
	// ClearAll deletes every cached trial and returns the count deleted.
	ClearAll(ctx context.Context) (int64, error)
	// ClearExpired deletes entries past their TTL and returns the count.
	ClearExpired(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (CacheStats, error)
}

// SavedTrial is a per-user bookmark of a trial.
type SavedTrial struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	NCTID     string          `json:"nctId"`
	TrialData json.RawMessage `json:"trialData,omitempty"`
	SavedAt   time.Time       `json:"savedAt"`
}

// SavedTrialStore persists per-user saved-trial bookmarks.
type SavedTrialStore interface {
	List(ctx context.Context, username string) ([]SavedTrial, error)
	// Save bookmarks a trial. Returns false when it was already saved.
	Save(ctx context.Context, username, nctID string, trialData json.RawMessage) (bool, error)
	Delete(ctx context.Context, username, nctID string) error
}

// MedicalHistory is a user's self-reported profile. One document per user;
// saving replaces the previous profile wholesale.
type MedicalHistory struct {
	Username    string    `json:"username"`
	Age         int       `json:"age,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Location    string    `json:"location,omitempty"`
	Conditions  []string  `json:"conditions,omitempty"`
	Medications []string  `json:"medications,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MedicalHistoryStore persists per-user medical histories.
type MedicalHistoryStore interface {
	// Get returns the user's history, or (nil, nil) when none was saved.
	Get(ctx context.Context, username string) (*MedicalHistory, error)
	// Save upserts the user's history and returns the stored document.
	Save(ctx context.Context, history *MedicalHistory) (*MedicalHistory, error)
}
