package di

import (
	"context"

	"clinect-backend/application/ports"
	"clinect-backend/application/services"
	"clinect-backend/infrastructure/config"
	"clinect-backend/infrastructure/persistence/mongodb"
	neo4jstore "clinect-backend/infrastructure/persistence/neo4j"
	"clinect-backend/infrastructure/registry"
	"clinect-backend/interfaces/http/rest"
	"clinect-backend/interfaces/http/rest/handlers"
	"clinect-backend/pkg/auth"
	"clinect-backend/pkg/observability"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	MongoClient *mongo.Client
	GraphStore  *neo4jstore.Store
	Cache       ports.DocumentCache
	SavedTrials ports.SavedTrialStore
	Histories   ports.MedicalHistoryStore
	Registry    ports.RegistryClient
	Metrics     *observability.Metrics
	SmartMatch  *services.SmartMatchService
	Admin       *services.AdminService
	Router      *rest.Router
}

// Close releases store connections.
func (c *Container) Close(ctx context.Context) error {
	var firstErr error
	if c.GraphStore != nil {
		if err := c.GraphStore.Close(ctx); err != nil {
			firstErr = err
		}
	}
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideMongoClient connects to MongoDB and verifies the connection
func ProvideMongoClient(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// ProvideMongoDatabase selects the application database
func ProvideMongoDatabase(client *mongo.Client, cfg *config.Config) *mongo.Database {
	return client.Database(cfg.MongoDatabase)
}

// ProvideGraphStore connects to Neo4j
func ProvideGraphStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*neo4jstore.Store, error) {
	return neo4jstore.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, logger)
}

// ProvideDocumentCache creates the trial document cache and its indexes
func ProvideDocumentCache(ctx context.Context, db *mongo.Database, cfg *config.Config, logger *zap.Logger) (ports.DocumentCache, error) {
	cache := mongodb.NewDocumentCache(db, cfg.CacheTTL(), logger)
	if err := cache.EnsureIndexes(ctx); err != nil {
		// Index creation is idempotent; a failure here degrades queries but
		// does not block startup.
		logger.Warn("failed to ensure cache indexes", zap.Error(err))
	}
	return cache, nil
}

// ProvideSavedTrialStore creates the saved-trial store and its indexes
func ProvideSavedTrialStore(ctx context.Context, db *mongo.Database, logger *zap.Logger) (ports.SavedTrialStore, error) {
	store := mongodb.NewSavedTrialStore(db, logger)
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure saved-trial indexes", zap.Error(err))
	}
	return store, nil
}

// ProvideMedicalHistoryStore creates the medical-history store and its indexes
func ProvideMedicalHistoryStore(ctx context.Context, db *mongo.Database, logger *zap.Logger) (ports.MedicalHistoryStore, error) {
	store := mongodb.NewMedicalHistoryStore(db, logger)
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure medical-history indexes", zap.Error(err))
	}
	return store, nil
}

// ProvideRegistryClient creates the trial registry client
func ProvideRegistryClient(cfg *config.Config, logger *zap.Logger) ports.RegistryClient {
	return registry.NewClient(cfg.RegistryBaseURL, cfg.RegistryTimeout, logger)
}

// ProvidePrometheusRegistry creates the metrics registry
func ProvidePrometheusRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(reg *prometheus.Registry) *observability.Metrics {
	return observability.NewMetrics(reg)
}

// ProvideMatchEngine creates the graph match engine
func ProvideMatchEngine(graph *neo4jstore.Store, logger *zap.Logger) *services.MatchEngine {
	return services.NewMatchEngine(graph, logger)
}

// ProvideSyncEngine creates the graph sync engine
func ProvideSyncEngine(graph *neo4jstore.Store, logger *zap.Logger) *services.SyncEngine {
	return services.NewSyncEngine(graph, logger)
}

// ProvideCacheWriter creates the write-back cache writer
func ProvideCacheWriter(
	cache ports.DocumentCache,
	syncer *services.SyncEngine,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.CacheWriter {
	return services.NewCacheWriter(cache, syncer, metrics, logger)
}

// ProvideSmartMatchService creates the smart match service
func ProvideSmartMatchService(
	engine *services.MatchEngine,
	registryClient ports.RegistryClient,
	writer *services.CacheWriter,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.SmartMatchService {
	return services.NewSmartMatchService(engine, registryClient, writer, metrics, logger)
}

// ProvideAdminService creates the admin service
func ProvideAdminService(graph *neo4jstore.Store, cache ports.DocumentCache, logger *zap.Logger) *services.AdminService {
	return services.NewAdminService(graph, cache, logger)
}

// ProvideTokenGenerator creates the session token generator
func ProvideTokenGenerator(cfg *config.Config) (*auth.Generator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		// Development fallback; production requires JWT_SECRET via Validate.
		secret = "development-secret-change-in-production"
	}
	return auth.NewGenerator(auth.GeneratorConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideTokenValidator creates the session token validator
func ProvideTokenValidator(cfg *config.Config) (*auth.Validator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "development-secret-change-in-production"
	}
	return auth.NewValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideReadyCheck reports whether both stores answer.
func ProvideReadyCheck(client *mongo.Client, graph *neo4jstore.Store) rest.ReadyCheck {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return err
		}
		_, err := graph.Run(ctx, "RETURN 1 AS ok", nil)
		return err
	}
}

// ProvideRouter assembles the HTTP router from the handlers
func ProvideRouter(
	cfg *config.Config,
	smartMatch *services.SmartMatchService,
	engine *services.MatchEngine,
	registryClient ports.RegistryClient,
	cache ports.DocumentCache,
	writer *services.CacheWriter,
	savedTrials ports.SavedTrialStore,
	histories ports.MedicalHistoryStore,
	admin *services.AdminService,
	generator *auth.Generator,
	validator *auth.Validator,
	promRegistry *prometheus.Registry,
	readyCheck rest.ReadyCheck,
	logger *zap.Logger,
) *rest.Router {
	authHandler := handlers.NewAuthHandler(generator, logger)
	trialHandler := handlers.NewTrialHandler(smartMatch, engine, registryClient, cache, writer, cfg.DefaultPageSize, logger)
	savedHandler := handlers.NewSavedTrialHandler(savedTrials, logger)
	medicalHandler := handlers.NewMedicalHistoryHandler(histories, logger)
	adminHandler := handlers.NewAdminHandler(admin, logger)

	return rest.NewRouter(
		authHandler,
		trialHandler,
		savedHandler,
		medicalHandler,
		adminHandler,
		validator,
		promRegistry,
		readyCheck,
		cfg.EnableCORS,
		logger,
	)
}
