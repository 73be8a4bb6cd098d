package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/dependency_container"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/database"
	infraLogger "github.com/NeuralTrust/FollowerManager/pkg/infra/logger"
	_ "github.com/NeuralTrust/FollowerManager/pkg/infra/migrations"
	"github.com/NeuralTrust/FollowerManager/pkg/server"
	"github.com/NeuralTrust/FollowerManager/pkg/server/router"
	"github.com/NeuralTrust/FollowerManager/pkg/version"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs --outputTypes json

// @title FollowerManager API
// @version 1.0
// @description Follower sync, bot detection and batch removal for social accounts.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger, closeLogger, err := infraLogger.NewLogger("api")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLogger()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	logger.WithFields(logrus.Fields{
		"version": version.Version,
		"mode":    cfg.App.Mode,
		"storage": cfg.Storage.Driver,
	}).Info("starting " + version.AppName)

	if command() == "migrate-down" {
		rollbackLastMigration(logger, cfg)
		return
	}

	var db *database.DB
	if cfg.Storage.Driver == config.StoragePostgres {
		db, err = database.NewDB(logger, databaseConfig(cfg))
		if err != nil {
			logger.Fatalf("failed to initialize database: %v", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.WithError(err).Warn("failed to close database")
			}
		}()
	}

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
		DB:     db,
	})
	if err != nil {
		logger.Fatalf("failed to initialize dependencies: %v", err)
	}
	defer func() {
		if err := container.AuditLogsService.Close(); err != nil {
			logger.WithError(err).Warn("failed to flush audit events")
		}
	}()

	if container.RetentionScheduler != nil {
		container.RetentionScheduler.Start()
		defer container.RetentionScheduler.Stop()
	}

	srv, err := server.NewAPIServer(server.APIServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewAPIRouter(
				container.MiddlewareTransport,
				container.HandlerTransport,
				container.WSHandlerTransport,
				cfg.Server.DocsURL,
			),
		},
	})
	if err != nil {
		logger.WithError(err).Error("failed to build api server")
		return
	}

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		return
	}
	logger.Info("server gracefully stopped")
}

// command is the optional first argument: "serve" (default) or "migrate-down".
func command() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "serve"
}

func databaseConfig(cfg *config.Config) *database.Config {
	return &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
}

func rollbackLastMigration(logger *logrus.Logger, cfg *config.Config) {
	db, err := database.Open(logger, databaseConfig(cfg))
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	id, err := database.NewMigrationsManager(db.DB).RollbackLast()
	if err != nil {
		logger.WithError(err).Error("rollback failed")
		return
	}
	logger.WithField("migration", id).Info("migration rolled back")
}
