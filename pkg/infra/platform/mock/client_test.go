package mock

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GraphIsDeterministic(t *testing.T) {
	a := NewClient(Config{})
	b := NewClient(Config{})

	fa, err := a.Followers(context.Background(), "", "")
	require.NoError(t, err)
	fb, err := b.Followers(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, fa, DefaultFollowerCount)
	assert.Equal(t, fa, fb)
	assert.Equal(t, "john_doe", fa[0].Username)
	assert.Equal(t, "john_doe_15", fa[15].Username)
	assert.Equal(t, "Jane Smith", fa[1].DisplayName)
	assert.True(t, fa[0].IsVerified)
	assert.True(t, fa[5].IsPrivate)
}

func TestClient_FollowingOverlapsEveryFourthFollower(t *testing.T) {
	c := NewClient(Config{FollowerCount: 8})
	following, err := c.Following(context.Background(), "", "")
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, f := range following {
		ids[f.ID] = true
	}
	assert.True(t, ids["platform_0"])
	assert.True(t, ids["platform_4"])
	assert.False(t, ids["platform_1"])
	assert.Len(t, following, 2+5)
}

func TestClient_MeReturnsConfiguredAccount(t *testing.T) {
	c := NewClient(Config{Account: platform.Account{ID: "123456789", Username: "testuser"}})
	me, err := c.Me(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "testuser", me.Username)
}

func TestClient_RemovedFollowersDisappear(t *testing.T) {
	c := NewClient(Config{FollowerCount: 3})
	require.NoError(t, c.RemoveFollower(context.Background(), "", "", "platform_1"))

	followers, err := c.Followers(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, followers, 2)
	for _, f := range followers {
		assert.NotEqual(t, "platform_1", f.ID)
	}
}

func TestClient_FailureRate(t *testing.T) {
	always := newClient(Config{FailureRate: 1}, rand.New(rand.NewSource(1)))
	err := always.RemoveFollower(context.Background(), "", "", "platform_0")
	assert.ErrorIs(t, err, platform.ErrRateLimited)
	assert.EqualError(t, err, "API rate limit exceeded")

	never := newClient(Config{FailureRate: 0}, rand.New(rand.NewSource(1)))
	for i := 0; i < 50; i++ {
		assert.NoError(t, never.RemoveFollower(context.Background(), "", "", "platform_0"))
	}
}

func TestClient_LatencyHonoursContext(t *testing.T) {
	c := NewClient(Config{Latency: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Followers(ctx, "", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
