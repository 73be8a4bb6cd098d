package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	ModeMock = "mock"
	ModeLive = "live"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Twitter   TwitterConfig   `mapstructure:"twitter"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Removal   RemovalConfig   `mapstructure:"removal"`
	Retention RetentionConfig `mapstructure:"retention"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Websocket WebsocketConfig `mapstructure:"websocket"`
}

type AppConfig struct {
	// Mode is "mock" for the simulated platform and instant login, "live" for Twitter OAuth.
	Mode        string `mapstructure:"mode"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	Host        string `mapstructure:"host"`
	DocsURL     string `mapstructure:"docs_url"`
}

type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	EnableLatency  bool `mapstructure:"enable_latency"`
	EnablePerRoute bool `mapstructure:"enable_per_route"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	StateTTL  time.Duration `mapstructure:"state_ttl"`
}

type TwitterConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	RedirectURI  string        `mapstructure:"redirect_uri"`
	AuthorizeURL string        `mapstructure:"authorize_url"`
	TokenURL     string        `mapstructure:"token_url"`
	APIBaseURL   string        `mapstructure:"api_base_url"`
	Scopes       []string      `mapstructure:"scopes"`
	RPS          float64       `mapstructure:"rps"`
	Burst        int           `mapstructure:"burst"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	BaseBackoff  time.Duration `mapstructure:"base_backoff"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PageSize     int           `mapstructure:"page_size"`
}

type AnalysisConfig struct {
	// BotGate is "recompute" or "stored".
	BotGate string `mapstructure:"bot_gate"`
}

type RemovalConfig struct {
	BatchSize       int           `mapstructure:"batch_size"`
	BatchPause      time.Duration `mapstructure:"batch_pause"`
	MockFailureRate float64       `mapstructure:"mock_failure_rate"`
	MockLatency     time.Duration `mapstructure:"mock_latency"`
}

type RetentionConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	MaxAge           string   `mapstructure:"max_age"`
}

type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Exporter is "log" or "kafka".
	Exporter string                 `mapstructure:"exporter"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

type WebsocketConfig struct {
	MaxConnections int           `mapstructure:"max_connections"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

var globalConfig Config

func Load(configPath string) error {
	cfg := Config{}
	if err := loadConfigFile(configPath, "config", &cfg); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}
	globalConfig = cfg
	return nil
}

func loadConfigFile(configPath, fileName string, out *Config) error {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaultValues(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(out, hook); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return out.validate()
}

// setDefaultValues registers every key so that environment overrides apply
// even when the config file is absent.
func setDefaultValues(v *viper.Viper) {
	v.SetDefault("app.mode", ModeMock)
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.port", 3001)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.docs_url", "http://localhost:3001/swagger.json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("metrics.enable_per_route", true)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "follower_manager")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)

	v.SetDefault("storage.driver", StorageMemory)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.state_ttl", "10m")

	v.SetDefault("twitter.client_id", "")
	v.SetDefault("twitter.client_secret", "")
	v.SetDefault("twitter.redirect_uri", "http://localhost:3000/auth/callback")
	v.SetDefault("twitter.authorize_url", "https://twitter.com/i/oauth2/authorize")
	v.SetDefault("twitter.token_url", "https://api.twitter.com/2/oauth2/token")
	v.SetDefault("twitter.api_base_url", "https://api.twitter.com/2")
	v.SetDefault("twitter.scopes", []string{
		"tweet.read", "users.read", "follows.read", "follows.write",
		"block.read", "block.write", "offline.access",
	})
	v.SetDefault("twitter.rps", 2.0)
	v.SetDefault("twitter.burst", 10)
	v.SetDefault("twitter.max_attempts", 5)
	v.SetDefault("twitter.base_backoff", "500ms")
	v.SetDefault("twitter.timeout", "15s")
	v.SetDefault("twitter.page_size", 1000)

	v.SetDefault("analysis.bot_gate", "recompute")

	v.SetDefault("removal.batch_size", 10)
	v.SetDefault("removal.batch_pause", "1s")
	v.SetDefault("removal.mock_failure_rate", 0.1)
	v.SetDefault("removal.mock_latency", "100ms")

	v.SetDefault("retention.enabled", true)
	v.SetDefault("retention.schedule", "@daily")

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.expose_headers", []string{})
	v.SetDefault("cors.max_age", "86400")

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.exporter", "log")

	v.SetDefault("websocket.max_connections", 100)
	v.SetDefault("websocket.request_timeout", "30s")
}

func (c *Config) validate() error {
	switch c.App.Mode {
	case ModeMock, ModeLive:
	default:
		return fmt.Errorf("app.mode must be %q or %q, got %q", ModeMock, ModeLive, c.App.Mode)
	}
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage.Driver)
	}
	if c.Removal.BatchSize <= 0 {
		return fmt.Errorf("removal.batch_size must be positive, got %d", c.Removal.BatchSize)
	}
	if c.Removal.MockFailureRate < 0 || c.Removal.MockFailureRate > 1 {
		return fmt.Errorf("removal.mock_failure_rate must be within [0,1], got %v", c.Removal.MockFailureRate)
	}
	if c.App.Mode == ModeLive && c.Twitter.ClientID == "" {
		return errors.New("twitter.client_id is required in live mode")
	}
	return nil
}

func GetConfig() *Config {
	return &globalConfig
}
