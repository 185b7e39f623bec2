package app

import (
	"context"
	"database/sql"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	libdb "voltgrid/libs/db"
	libredis "voltgrid/libs/redis"

	"voltgrid/internal/auth"
	"voltgrid/internal/billing"
	"voltgrid/internal/config"
	httpserver "voltgrid/internal/http"
	"voltgrid/internal/http/handlers"
	"voltgrid/internal/http/middleware"
	"voltgrid/internal/pricing"
	"voltgrid/internal/redisstore"
	"voltgrid/internal/repository"
)

// App wires the service dependency graph.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgres(cfg.Database.DSN, libdb.PoolOptions{})
	if err != nil {
		return nil, err
	}

	var (
		redisClient  *goredis.Client
		catalogCache pricing.SnapshotCache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		catalogCache = redisstore.NewCatalogCache(redisClient, cfg.Redis.CatalogTTL)
	}

	pricingRepo := repository.NewPricingRepository(sqlDB)
	txRepo := repository.NewTransactionRepository(sqlDB)
	chargerRepo := repository.NewChargerRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)

	catalogProvider := pricing.NewProvider(pricingRepo, catalogCache, logger)
	billingService := billing.NewService(txRepo, catalogProvider, logger)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(userRepo, auth.NewBcryptHasher(0), tokens, logger)

	authHandler := handlers.NewAuthHandler(authService, logger)
	pricingHandler := handlers.NewPricingHandler(pricingRepo, catalogProvider, logger)
	txHandler := handlers.NewTransactionsHandler(billingService, logger)
	chargersHandler := handlers.NewChargersHandler(chargerRepo, logger)

	routes := httpserver.Routes{
		Health:         handlers.NewHealthHandler(),
		Login:          authHandler.Login,
		SessionStopped: handlers.NewSessionStoppedHandler(billingService, logger),
		Import:         handlers.NewImportHandler(txRepo, catalogProvider, logger),
		Transactions: httpserver.Endpoint{
			Get:    txHandler.List,
			Delete: txHandler.Delete,
		},
		TransactionsPay: txHandler.Pay,
		PricingRules: httpserver.Endpoint{
			Get:    pricingHandler.ListRules,
			Post:   pricingHandler.CreateRule,
			Put:    pricingHandler.UpdateRule,
			Delete: pricingHandler.DeleteRule,
		},
		PricingGroups: httpserver.Endpoint{
			Get:    pricingHandler.ListGroups,
			Post:   pricingHandler.CreateGroup,
			Put:    pricingHandler.UpdateGroup,
			Delete: pricingHandler.DeleteGroup,
		},
		Chargers: httpserver.Endpoint{
			Get:    chargersHandler.List,
			Post:   chargersHandler.Create,
			Put:    chargersHandler.Update,
			Delete: chargersHandler.Delete,
		},
		Authenticate: middleware.Auth(tokens),
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.Origins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(httpserver.NewRouter(routes))

	server := httpserver.NewServer(cfg.HTTPAddress(), handler, logger)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts the HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
