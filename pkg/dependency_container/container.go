package dependency_container

import (
	"fmt"

	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	"github.com/NeuralTrust/FollowerManager/pkg/app/botdetection"
	"github.com/NeuralTrust/FollowerManager/pkg/app/filter"
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/app/retention"
	"github.com/NeuralTrust/FollowerManager/pkg/app/sample"
	appSettings "github.com/NeuralTrust/FollowerManager/pkg/app/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/removal"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	handlers "github.com/NeuralTrust/FollowerManager/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/FollowerManager/pkg/handlers/websocket"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	auditKafka "github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs/kafka"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auth/oauth"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/cache"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/database"
	mockPlatform "github.com/NeuralTrust/FollowerManager/pkg/infra/platform/mock"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/platform/twitter"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/repository"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/repository/memory"
	infraWs "github.com/NeuralTrust/FollowerManager/pkg/infra/websocket"
	"github.com/NeuralTrust/FollowerManager/pkg/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Cache               cache.Client
	JWTManager          jwt.Manager
	PlatformClient      platform.Client
	UserRepository      user.Repository
	FollowerRepository  follower.Repository
	RemovalRepository   removal.Repository
	SettingsRepository  settings.Repository
	HandlerTransport    *handlers.HandlerTransport
	WSHandlerTransport  *wsHandlers.HandlerTransport
	MiddlewareTransport *middleware.Transport
	AuditLogsService    auditlogs.Service
	RetentionScheduler  *retention.Scheduler
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	// DB is nil when storage.driver is memory.
	DB *database.DB
}

func NewContainer(di ContainerDI) (*Container, error) {
	cfg := di.Cfg

	cacheInstance, err := newCache(cfg, di.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	// repository
	var (
		userRepository     user.Repository
		followerRepository follower.Repository
		removalRepository  removal.Repository
		settingsRepository settings.Repository
	)
	if di.DB != nil {
		userRepository = repository.NewUserRepository(di.DB.DB)
		followerRepository = repository.NewFollowerRepository(di.DB.DB)
		removalRepository = repository.NewRemovalRepository(di.DB.DB)
		settingsRepository = repository.NewSettingsRepository(di.DB.DB)
	} else {
		store := memory.NewStore()
		userRepository = store.Users()
		followerRepository = store.Followers()
		removalRepository = store.Removals()
		settingsRepository = store.Settings()
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		di.Logger.Warn("auth.jwt_secret is empty, using a random secret; tokens will not survive a restart")
		jwtSecret = uuid.NewString()
	}
	jwtManager := jwt.NewJwtManager(jwtSecret, cfg.Auth.TokenTTL)

	// platform
	var (
		platformClient platform.Client
		tokenSource    platform.TokenSource
		tokenClient    oauth.TokenClient
	)
	if cfg.App.Mode == config.ModeLive {
		tokenClient = oauth.NewTokenClient(oauth.WithTimeout(cfg.Twitter.Timeout))
		platformClient = twitter.NewClient(cfg.Twitter, di.Logger)
		tokenSource = appAuth.NewTokenSource(di.Logger, cfg.Twitter, tokenClient, userRepository)
	} else {
		platformClient = mockPlatform.NewClient(mockPlatform.Config{
			Account:     sample.Account(),
			FailureRate: cfg.Removal.MockFailureRate,
			Latency:     cfg.Removal.MockLatency,
		})
		tokenSource = platform.StaticTokenSource{}
	}

	botGate, err := filter.ParseBotGate(cfg.Analysis.BotGate)
	if err != nil {
		return nil, err
	}

	// service
	detector := botdetection.NewDetector()
	pipeline := filter.NewPipeline(detector, botGate)
	settingsService := appSettings.NewService(di.Logger, settingsRepository)
	authService := appAuth.NewService(
		di.Logger,
		appAuth.Config{Mode: cfg.App.Mode, Twitter: cfg.Twitter, StateTTL: cfg.Auth.StateTTL},
		cacheInstance,
		tokenClient,
		platformClient,
		userRepository,
		settingsService,
		jwtManager,
	)
	authenticator := appAuth.NewAuthenticator(di.Logger, jwtManager, cacheInstance, userRepository)
	analyzer := appFollower.NewAnalyzer(di.Logger, followerRepository, detector, pipeline, botGate)
	syncer := appFollower.NewSyncer(di.Logger, platformClient, tokenSource, followerRepository, detector)
	remover := appFollower.NewRemover(di.Logger, platformClient, tokenSource, followerRepository, removalRepository,
		appFollower.RemoverConfig{BatchSize: cfg.Removal.BatchSize, BatchPause: cfg.Removal.BatchPause})
	seeder := sample.NewSeeder(di.Logger, userRepository, followerRepository, settingsRepository)

	// retention
	var scheduler *retention.Scheduler
	if cfg.Retention.Enabled {
		purger := retention.NewPurger(di.Logger, settingsRepository, removalRepository)
		scheduler, err = retention.NewScheduler(di.Logger, purger, cfg.Retention.Schedule)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize retention scheduler: %w", err)
		}
	}

	auditLogsService := newAuditService(cfg, di.Logger)

	limiter := infraWs.NewConnectionLimiter(infraWs.WithMaxConnections(cfg.Websocket.MaxConnections))

	middlewareTransport := &middleware.Transport{
		AuthMiddleware: middleware.NewAuthMiddleware(di.Logger, authenticator),
		CORSMiddleware: middleware.NewCORSGlobalMiddleware(
			cfg.CORS.AllowOrigins,
			cfg.CORS.AllowMethods,
			cfg.CORS.AllowCredentials,
			cfg.CORS.ExposeHeaders,
			cfg.CORS.MaxAge,
		),
		MetricsMiddleware:   middleware.NewMetricsMiddleware(di.Logger),
		RecoverMiddleware:   middleware.NewPanicRecoverMiddleware(di.Logger),
		RequestIDMiddleware: middleware.NewRequestIDMiddleware(),
		WebsocketMiddleware: middleware.NewWebsocketMiddleware(di.Logger, limiter),
	}

	wsHandlerTransport := &wsHandlers.HandlerTransport{
		RemovalHandler: wsHandlers.NewRemovalHandler(
			di.Logger,
			authenticator,
			remover,
			auditLogsService,
			cfg.Websocket.RequestTimeout,
		),
	}

	handlerTransport := &handlers.HandlerTransport{
		// System
		HealthHandler: handlers.NewGetHealthHandler(),
		StatusHandler: handlers.NewGetStatusHandler(cfg.App.Mode),
		InitDBHandler: handlers.NewInitDBHandler(di.Logger, cfg.App.Mode, seeder, auditLogsService),
		// Auth
		LoginHandler:    handlers.NewLoginHandler(di.Logger, authService, auditLogsService),
		CallbackHandler: handlers.NewCallbackHandler(di.Logger, authService, auditLogsService),
		RefreshHandler:  handlers.NewRefreshTokenHandler(di.Logger, authService),
		LogoutHandler:   handlers.NewLogoutHandler(di.Logger, authService, auditLogsService),
		// User
		GetProfileHandler:     handlers.NewGetProfileHandler(di.Logger, authService),
		GetSettingsHandler:    handlers.NewGetSettingsHandler(di.Logger, settingsService),
		UpdateSettingsHandler: handlers.NewUpdateSettingsHandler(di.Logger, settingsService, auditLogsService),
		// Followers
		ListFollowersHandler:      handlers.NewListFollowersHandler(di.Logger, appFollower.NewFinder(followerRepository)),
		SyncFollowersHandler:      handlers.NewSyncFollowersHandler(di.Logger, syncer, auditLogsService),
		AnalyzeFollowersHandler:   handlers.NewAnalyzeFollowersHandler(di.Logger, analyzer),
		GetBotAnalysisHandler:     handlers.NewGetBotAnalysisHandler(di.Logger, analyzer),
		RemoveFollowersHandler:    handlers.NewRemoveFollowersHandler(di.Logger, remover, auditLogsService),
		ListRemovalHistoryHandler: handlers.NewListRemovalHistoryHandler(di.Logger, removalRepository),
		ListRemovalReasonsHandler: handlers.NewListRemovalReasonsHandler(),
	}

	return &Container{
		Cache:               cacheInstance,
		JWTManager:          jwtManager,
		PlatformClient:      platformClient,
		UserRepository:      userRepository,
		FollowerRepository:  followerRepository,
		RemovalRepository:   removalRepository,
		SettingsRepository:  settingsRepository,
		HandlerTransport:    handlerTransport,
		WSHandlerTransport:  wsHandlerTransport,
		MiddlewareTransport: middlewareTransport,
		AuditLogsService:    auditLogsService,
		RetentionScheduler:  scheduler,
	}, nil
}

func newCache(cfg *config.Config, logger *logrus.Logger) (cache.Client, error) {
	if !cfg.Redis.Enabled {
		return cache.NewLocalClient(), nil
	}
	return cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, logger)
}

// newAuditService falls back to the log exporter when the configured one
// rejects its settings.
func newAuditService(cfg *config.Config, logger *logrus.Logger) auditlogs.Service {
	locator := auditlogs.NewExporterLocator(
		auditlogs.WithExporter(auditlogs.NewLogExporter(logger)),
		auditlogs.WithExporter(auditKafka.NewKafkaExporter()),
	)
	exporter, err := locator.GetExporter(cfg.Audit.Exporter, cfg.Audit.Settings)
	if err != nil {
		logger.WithError(err).WithField("exporter", cfg.Audit.Exporter).
			Warn("failed to initialize audit exporter, falling back to log exporter")
		exporter = auditlogs.NewLogExporter(logger)
	}
	return auditlogs.NewService(exporter, logger, cfg.Audit.Enabled)
}
