package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	OAuthStateKeyPattern   = "oauth:state:%s"
	RevokedTokenKeyPattern = "auth:revoked:%s"

	revokedMarker = "1"
)

var ErrCacheMiss = errors.New("cache miss")

type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error

	SaveOAuthState(ctx context.Context, state, codeVerifier string, ttl time.Duration) error
	// ConsumeOAuthState returns the verifier bound to state and forgets it.
	ConsumeOAuthState(ctx context.Context, state string) (string, error)
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}

// backend is the raw key/value surface shared by redis and the local map.
type backend interface {
	get(ctx context.Context, key string) (string, error)
	set(ctx context.Context, key, value string, ttl time.Duration) error
	del(ctx context.Context, key string) (int64, error)
}

type client struct {
	backend backend
}

// NewClient connects to redis and fails when the server does not answer a
// ping within five seconds.
func NewClient(config Config, logger *logrus.Logger) (Client, error) {
	addr := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	opts := &redis.Options{Addr: addr, Password: config.Password, DB: config.DB}
	if config.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: config.Host}
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	logger.WithField("addr", addr).WithField("db", config.DB).Info("connected to redis")
	return NewRedisClient(rdb), nil
}

func NewRedisClient(rdb *redis.Client) Client {
	return &client{backend: &redisBackend{rdb: rdb}}
}

// NewLocalClient keeps everything in process memory. Used in mock mode
// and when redis is disabled.
func NewLocalClient() Client {
	return &client{backend: &localBackend{entries: NewTTLMap[string](0)}}
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	return c.backend.get(ctx, key)
}

func (c *client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return c.backend.set(ctx, key, value, expiration)
}

func (c *client) Delete(ctx context.Context, key string) error {
	_, err := c.backend.del(ctx, key)
	return err
}

func (c *client) SaveOAuthState(ctx context.Context, state, codeVerifier string, ttl time.Duration) error {
	return c.backend.set(ctx, fmt.Sprintf(OAuthStateKeyPattern, state), codeVerifier, ttl)
}

func (c *client) ConsumeOAuthState(ctx context.Context, state string) (string, error) {
	key := fmt.Sprintf(OAuthStateKeyPattern, state)
	verifier, err := c.backend.get(ctx, key)
	if err != nil {
		return "", err
	}
	n, err := c.backend.del(ctx, key)
	if err != nil {
		return "", err
	}
	// another request consumed it between get and del
	if n == 0 {
		return "", ErrCacheMiss
	}
	return verifier, nil
}

func (c *client) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.backend.set(ctx, fmt.Sprintf(RevokedTokenKeyPattern, tokenID), revokedMarker, ttl)
}

func (c *client) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := c.backend.get(ctx, fmt.Sprintf(RevokedTokenKeyPattern, tokenID))
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type redisBackend struct {
	rdb *redis.Client
}

func (b *redisBackend) get(ctx context.Context, key string) (string, error) {
	value, err := b.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return value, err
}

func (b *redisBackend) set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return b.rdb.Set(ctx, key, value, ttl).Err()
}

func (b *redisBackend) del(ctx context.Context, key string) (int64, error) {
	return b.rdb.Del(ctx, key).Result()
}

// localPurgeEvery bounds how many writes may pass between sweeps of
// expired keys.
const localPurgeEvery = 256

type localBackend struct {
	entries *TTLMap[string]
	writes  atomic.Uint64
}

func (b *localBackend) get(_ context.Context, key string) (string, error) {
	if v, ok := b.entries.Get(key); ok {
		return v, nil
	}
	return "", ErrCacheMiss
}

func (b *localBackend) set(_ context.Context, key, value string, ttl time.Duration) error {
	b.entries.SetWithTTL(key, value, ttl)
	if b.writes.Add(1)%localPurgeEvery == 0 {
		b.entries.Purge()
	}
	return nil
}

func (b *localBackend) del(_ context.Context, key string) (int64, error) {
	if b.entries.Delete(key) {
		return 1, nil
	}
	return 0, nil
}
