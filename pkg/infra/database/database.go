package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const pingTimeout = 30 * time.Second

type DB struct {
	*gorm.DB
	logger *logrus.Logger
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the connection string in URL form so that passwords with
// spaces or quotes survive.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.MaxOpenConns <= 0 {
		out.MaxOpenConns = 20
	}
	if out.MaxIdleConns <= 0 {
		out.MaxIdleConns = out.MaxOpenConns / 2
	}
	if out.ConnMaxLifetime <= 0 {
		out.ConnMaxLifetime = 5 * time.Minute
	}
	return out
}

// NewDB opens the pool and brings the schema up to date.
func NewDB(logger *logrus.Logger, cfg *Config) (*DB, error) {
	db, err := Open(logger, cfg)
	if err != nil {
		return nil, err
	}
	applied, err := NewMigrationsManager(db.DB).ApplyPending()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.WithField("applied", applied).Info("database schema is up to date")
	return db, nil
}

// Open connects to postgres and waits for the server to answer.
func Open(logger *logrus.Logger, cfg *Config) (*DB, error) {
	c := cfg.withDefaults()
	logger.WithFields(logrus.Fields{
		"host": c.Host,
		"port": c.Port,
		"db":   c.DBName,
	}).Info("connecting to postgres")

	gormDB, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	pool, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	pool.SetMaxOpenConns(c.MaxOpenConns)
	pool.SetMaxIdleConns(c.MaxIdleConns)
	pool.SetConnMaxLifetime(c.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("postgres did not answer: %w", err)
	}
	return &DB{DB: gormDB, logger: logger}, nil
}

func (db *DB) Close() error {
	pool, err := db.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}
