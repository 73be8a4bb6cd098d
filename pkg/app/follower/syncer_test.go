package follower

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/app/botdetection"
	domainFollower "github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	platformMocks "github.com/NeuralTrust/FollowerManager/pkg/domain/platform/mocks"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	mockPlatform "github.com/NeuralTrust/FollowerManager/pkg/infra/platform/mock"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func syncUser() *user.User {
	return &user.User{
		ID:          uuid.New(),
		Username:    "owner",
		PlatformID:  "42",
		Platform:    user.PlatformTwitter,
		AccessToken: "token",
	}
}

func TestSyncer_Sync_MarksMutualAndScores(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	client := &platformMocks.Client{}
	u := syncUser()

	followers := []platform.Account{
		{ID: "1", Username: "jane_smith", Bio: "Designer", AvatarURL: "https://example.com/a.png", FollowerCount: 800, FollowingCount: 200, IsVerified: true},
		{ID: "2", Username: "spam1234", Bio: "follow me back", FollowerCount: 50, FollowingCount: 5000},
		{ID: "3", Username: "alex_wilson", AvatarURL: "https://example.com/b.png", FollowerCount: 300, FollowingCount: 250},
	}
	following := []platform.Account{{ID: "1"}, {ID: "99"}}

	client.On("Followers", mock.Anything, "token", "42").Return(followers, nil)
	client.On("Following", mock.Anything, "token", "42").Return(following, nil)

	s := NewSyncer(testLogger(), client, platform.StaticTokenSource{}, store.Followers(), botdetection.NewDetector())
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.(*syncer).now = func() time.Time { return fixed }

	res, err := s.Sync(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Synced)
	assert.Equal(t, 1, res.Mutual)
	assert.Equal(t, 1, res.Bots)
	assert.Zero(t, res.Pruned)

	stored, err := store.Followers().ListAll(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	byPlatformID := map[string]bool{}
	detector := botdetection.NewDetector()
	for i := range stored {
		f := stored[i]
		byPlatformID[f.PlatformID] = f.IsMutual
		assert.Equal(t, detector.Detect(&f).Score, f.BotScore)
		assert.Equal(t, fixed, f.LastAnalyzed)
		assert.Equal(t, u.ID, f.UserID)
	}
	assert.Equal(t, map[string]bool{"1": true, "2": false, "3": false}, byPlatformID)
	client.AssertExpectations(t)
}

func TestSyncer_Sync_PrunesUnfollowed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	client := &platformMocks.Client{}
	u := syncUser()

	require.NoError(t, store.Followers().Upsert(ctx, []domainFollower.Follower{
		humanRecord(u.ID, "1", "jane_smith"),
		humanRecord(u.ID, "gone", "former_friend"),
	}))

	client.On("Followers", mock.Anything, "token", "42").
		Return([]platform.Account{{ID: "1", Username: "jane_smith", FollowerCount: 800, FollowingCount: 200}}, nil)
	client.On("Following", mock.Anything, "token", "42").Return([]platform.Account{}, nil)

	s := NewSyncer(testLogger(), client, platform.StaticTokenSource{}, store.Followers(), botdetection.NewDetector())

	res, err := s.Sync(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, int64(1), res.Pruned)

	stored, err := store.Followers().ListAll(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "1", stored[0].PlatformID)
}

func TestSyncer_Sync_FetchError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	client := &platformMocks.Client{}
	u := syncUser()

	client.On("Followers", mock.Anything, "token", "42").Return(nil, platform.ErrRateLimited)
	client.On("Following", mock.Anything, "token", "42").Return([]platform.Account{}, nil).Maybe()

	s := NewSyncer(testLogger(), client, platform.StaticTokenSource{}, store.Followers(), botdetection.NewDetector())

	_, err := s.Sync(ctx, u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, platform.ErrRateLimited))

	stored, err := store.Followers().ListAll(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSyncer_Sync_ResyncKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	client := mockPlatform.NewClient(mockPlatform.Config{FollowerCount: 20})
	u := syncUser()

	s := NewSyncer(testLogger(), client, platform.StaticTokenSource{}, store.Followers(), botdetection.NewDetector())

	_, err := s.Sync(ctx, u)
	require.NoError(t, err)
	first, err := store.Followers().ListAll(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, first, 20)

	res, err := s.Sync(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Synced)
	assert.Zero(t, res.Pruned)

	second, err := store.Followers().ListAll(ctx, u.ID)
	require.NoError(t, err)
	ids := map[uuid.UUID]struct{}{}
	for _, f := range first {
		ids[f.ID] = struct{}{}
	}
	for _, f := range second {
		assert.Contains(t, ids, f.ID)
	}
}
