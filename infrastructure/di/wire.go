//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"clinect-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMongoClient,
	ProvideMongoDatabase,
	ProvideGraphStore,
	ProvideDocumentCache,
	ProvideSavedTrialStore,
	ProvideMedicalHistoryStore,
	ProvideRegistryClient,
	ProvidePrometheusRegistry,
	ProvideMetrics,
	ProvideMatchEngine,
	ProvideSyncEngine,
	ProvideCacheWriter,
	ProvideSmartMatchService,
	ProvideAdminService,
	ProvideTokenGenerator,
	ProvideTokenValidator,
	ProvideReadyCheck,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
