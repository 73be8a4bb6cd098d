package follower

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/NeuralTrust/FollowerManager/pkg/app/botdetection"
	"github.com/NeuralTrust/FollowerManager/pkg/app/filter"
	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	domainFollower "github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyzer(store *memory.Store, gate filter.BotGate) Analyzer {
	detector := botdetection.NewDetector()
	return NewAnalyzer(testLogger(), store.Followers(), detector, filter.NewPipeline(detector, gate), gate)
}

func TestAnalyzer_Analyze_PaginatesSurvivorsInOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	userID := uuid.New()

	var records []domainFollower.Follower
	for i := 0; i < 7; i++ {
		records = append(records, humanRecord(userID, fmt.Sprintf("p%d", i), fmt.Sprintf("friend_%c", 'a'+i)))
	}
	low := humanRecord(userID, "low", "quiet_one")
	low.FollowerCount = 99
	records = append(records[:3], append([]domainFollower.Follower{low}, records[3:]...)...)
	require.NoError(t, store.Followers().Upsert(ctx, records))

	a := newAnalyzer(store, filter.BotGateRecompute)

	page1, total, err := a.Analyze(ctx, userID, filter.DefaultConfig(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, page1, 3)
	assert.Equal(t, []string{"p0", "p1", "p2"}, platformIDs(page1))

	page3, total, err := a.Analyze(ctx, userID, filter.DefaultConfig(), 3, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Equal(t, []string{"p6"}, platformIDs(page3))

	beyond, _, err := a.Analyze(ctx, userID, filter.DefaultConfig(), 9, 3)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	huge, total, err := a.Analyze(ctx, userID, filter.DefaultConfig(), 92233720368547760, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Empty(t, huge)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 50))
	assert.Equal(t, 100, Offset(3, 50))
	assert.Equal(t, 0, Offset(0, 50))
	assert.Equal(t, math.MaxInt, Offset(92233720368547760, 100))
	assert.Equal(t, math.MaxInt-1, Offset(math.MaxInt, 1))
	assert.Empty(t, paginate(make([]domainFollower.Follower, 3), 92233720368547760, 100))
}

func TestAnalyzer_Analyze_InvalidConfig(t *testing.T) {
	a := newAnalyzer(memory.NewStore(), filter.BotGateRecompute)

	cfg := filter.DefaultConfig()
	cfg.MaxFollowingRatio = 5000

	_, _, err := a.Analyze(context.Background(), uuid.New(), cfg, 1, 10)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestAnalyzer_Analyze_BotGates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	userID := uuid.New()

	human := humanRecord(userID, "human", "jane_smith")
	human.BotScore = 0.95 // stale score from an earlier run
	bot := botRecord(userID, "bot")
	bot.BotScore = 0
	require.NoError(t, store.Followers().Upsert(ctx, []domainFollower.Follower{human, bot}))

	recomputed, _, err := newAnalyzer(store, filter.BotGateRecompute).
		Analyze(ctx, userID, filter.DefaultConfig(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"human"}, platformIDs(recomputed))
	assert.Zero(t, recomputed[0].BotScore)

	stored, _, err := newAnalyzer(store, filter.BotGateStored).
		Analyze(ctx, userID, filter.DefaultConfig(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"bot"}, platformIDs(stored))
	assert.Zero(t, stored[0].BotScore)
}

func TestAnalyzer_Analyze_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	owner, other := uuid.New(), uuid.New()
	require.NoError(t, store.Followers().Upsert(ctx, []domainFollower.Follower{
		humanRecord(owner, "mine", "jane_smith"),
		humanRecord(other, "theirs", "john_doe"),
	}))

	got, total, err := newAnalyzer(store, filter.BotGateRecompute).
		Analyze(ctx, owner, filter.DefaultConfig(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"mine"}, platformIDs(got))
}

func TestAnalyzer_Inspect(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	userID := uuid.New()
	bot := botRecord(userID, "bot")
	bot.BotScore = 0.1
	require.NoError(t, store.Followers().Upsert(ctx, []domainFollower.Follower{bot}))
	all, err := store.Followers().ListAll(ctx, userID)
	require.NoError(t, err)

	a := newAnalyzer(store, filter.BotGateRecompute)

	got, err := a.Inspect(ctx, userID, all[0].ID)
	require.NoError(t, err)
	assert.True(t, got.IsBot)
	assert.Equal(t, "spam1234", got.Username)
	assert.Equal(t, 0.1, got.StoredScore)
	assert.Equal(t, botdetection.SeverityOf(got.Score), got.Severity)
	assert.Equal(t, got.Severity.Label(), got.Description)
	assert.Equal(t, got.Severity.Color(), got.Color)
	assert.Contains(t, got.Reasons, botdetection.ReasonUsername)

	_, err = a.Inspect(ctx, uuid.New(), all[0].ID)
	assert.True(t, domain.IsNotFoundError(err))
}

func platformIDs(records []domainFollower.Follower) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.PlatformID
	}
	return out
}
