// Package neo4j adapts the Neo4j driver to the GraphStore port. The adapter
// only runs parameterized Cypher; query text belongs to the services.
package neo4j

import (
	"context"

	apperrors "clinect-backend/pkg/errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Store executes Cypher against a Neo4j database.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// NewStore creates a graph store over an existing driver.
func NewStore(driver neo4j.DriverWithContext, database string, logger *zap.Logger) *Store {
	if database == "" {
		database = "neo4j"
	}
	return &Store{
		driver:   driver,
		database: database,
		logger:   logger,
	}
}

// Connect creates a driver and verifies connectivity before returning a store.
func Connect(ctx context.Context, uri, user, password string, logger *zap.Logger) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("graph", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, apperrors.NewStoreUnavailableError("graph", err)
	}
	return NewStore(driver, "", logger), nil
}

// Run executes one parameterized query and returns the result rows. Any
// driver failure is reported as a store-unavailable error so callers can
// tell a down store apart from an empty result.
func (s *Store) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.database),
	)
	if err != nil {
		s.logger.Error("graph query failed", zap.Error(err))
		return nil, apperrors.NewStoreUnavailableError("graph", err)
	}

	rows := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, record.AsMap())
	}
	return rows, nil
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
