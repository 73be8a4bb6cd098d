// Package mock simulates the social platform for local development and
// demos. Its follower graph is generated from a fixed seed so every run
// sees the same accounts.
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
)

const (
	DefaultFollowerCount = 100
	seed                 = 42
)

var baseUsernames = []string{
	"john_doe", "jane_smith", "alex_wilson", "sarah_jones", "mike_brown",
	"emma_davis", "chris_taylor", "lisa_anderson", "david_miller", "anna_garcia",
	"bot_user123", "spam_account", "fake_profile", "test_user", "demo_account",
}

type Config struct {
	Account       platform.Account
	FollowerCount int
	// FailureRate is the probability in [0,1] that a removal fails.
	FailureRate float64
	Latency     time.Duration
}

type client struct {
	cfg       Config
	followers []platform.Account
	following []platform.Account

	mu      sync.Mutex
	rng     *rand.Rand
	removed map[string]struct{}
}

func NewClient(cfg Config) platform.Client {
	return newClient(cfg, rand.New(rand.NewSource(time.Now().UnixNano()))) // #nosec G404
}

func newClient(cfg Config, rng *rand.Rand) *client {
	if cfg.FollowerCount <= 0 {
		cfg.FollowerCount = DefaultFollowerCount
	}
	followers, following := generateGraph(cfg.FollowerCount)
	return &client{
		cfg:       cfg,
		followers: followers,
		following: following,
		rng:       rng,
		removed:   make(map[string]struct{}),
	}
}

func (c *client) Me(ctx context.Context, _ string) (*platform.Account, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	acc := c.cfg.Account
	return &acc, nil
}

func (c *client) Followers(ctx context.Context, _ string, _ string) ([]platform.Account, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]platform.Account, 0, len(c.followers))
	for _, f := range c.followers {
		if _, gone := c.removed[f.ID]; !gone {
			out = append(out, f)
		}
	}
	return out, nil
}

func (c *client) Following(ctx context.Context, _ string, _ string) ([]platform.Account, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]platform.Account, len(c.following))
	copy(out, c.following)
	return out, nil
}

func (c *client) RemoveFollower(ctx context.Context, _ string, _ string, followerID string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rng.Float64() < c.cfg.FailureRate {
		return platform.ErrRateLimited
	}
	c.removed[followerID] = struct{}{}
	return nil
}

func (c *client) wait(ctx context.Context) error {
	if c.cfg.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.cfg.Latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// generateGraph builds n followers. Every fourth follower is followed back
// and a handful of non-followers are followed as well.
func generateGraph(n int) ([]platform.Account, []platform.Account) {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404
	followers := make([]platform.Account, 0, n)
	var following []platform.Account
	for i := 0; i < n; i++ {
		username := baseUsernames[i%len(baseUsernames)]
		if i >= len(baseUsernames) {
			username = fmt.Sprintf("%s_%d", username, i)
		}
		acc := platform.Account{
			ID:             fmt.Sprintf("platform_%d", i),
			Username:       username,
			DisplayName:    displayName(username),
			AvatarURL:      "https://api.dicebear.com/7.x/avataaars/svg?seed=" + username,
			FollowerCount:  rng.Intn(10000) + 10,
			FollowingCount: rng.Intn(5000) + 5,
			IsVerified:     i%10 == 0,
			IsPrivate:      i%5 == 0,
		}
		if i%3 == 0 {
			acc.Bio = "This is a sample bio for demonstration purposes."
		}
		followers = append(followers, acc)
		if i%4 == 0 {
			following = append(following, acc)
		}
	}
	for i := 0; i < 5; i++ {
		following = append(following, platform.Account{
			ID:       fmt.Sprintf("followed_only_%d", i),
			Username: fmt.Sprintf("creator_%d", i),
		})
	}
	return followers, following
}

func displayName(username string) string {
	parts := strings.Split(username, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
