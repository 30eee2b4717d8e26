package ports

import (
	"context"

	"clinect-backend/domain/trial"
)

// RegistrySearch are the query parameters understood by the external trial
// registry. Condition may hold an OR-joined expression when the caller
// searched for several conditions at once.
type RegistrySearch struct {
	Condition string
	Location  string
	Status    string
	PageSize  int
	// PageToken continues a previous search; empty means the first page.
	PageToken string
}

// RegistryClient calls the external trial registry API. Implementations must
// tolerate the registry being slow or returning partial pages; a partial
// page is a valid result, not an error.
type RegistryClient interface {
	Search(ctx context.Context, q RegistrySearch) ([]*trial.Record, error)
	GetStudy(ctx context.Context, nctID string) (*trial.Record, error)
}
