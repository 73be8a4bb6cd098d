package filter

import (
	"sync"
	"testing"

	"github.com/NeuralTrust/FollowerManager/pkg/app/botdetection"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDetector struct {
	isBot bool
	calls int
	mu    sync.Mutex
}

func (d *fixedDetector) Detect(f *follower.Follower) botdetection.Result {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.isBot {
		return botdetection.Result{Score: 0.9, IsBot: true, Reasons: []string{"fixed"}}
	}
	return botdetection.Result{Score: 0, Reasons: []string{}}
}

func record(username string, followers, following int) follower.Follower {
	return follower.Follower{
		Username:       username,
		Bio:            "Designer and artist",
		AvatarURL:      "https://example.com/real.png",
		IsVerified:     true,
		FollowerCount:  followers,
		FollowingCount: following,
	}
}

func usernames(records []follower.Follower) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Username
	}
	return out
}

func openConfig() Config {
	return Config{MaxFollowingRatio: 1000}
}

func TestApply_MinFollowerThresholdIsInclusive(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	cfg := openConfig()
	cfg.MinFollowerThreshold = 100

	out := p.Apply([]follower.Follower{
		record("below", 99, 50),
		record("exact", 100, 50),
	}, cfg)

	assert.Equal(t, []string{"exact"}, usernames(out))
}

func TestApply_MaxFollowingRatio(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	cfg := openConfig()
	cfg.MaxFollowingRatio = 10

	out := p.Apply([]follower.Follower{
		record("ratio20", 1000, 50),
		record("ratio10", 1000, 100),
		record("ratio5", 500, 100),
	}, cfg)

	assert.Equal(t, []string{"ratio10", "ratio5"}, usernames(out))
}

func TestApply_ZeroFollowingNeverRejectedByRatio(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)

	for _, ratio := range []float64{0, 0.5, 10, 1000} {
		cfg := openConfig()
		cfg.MaxFollowingRatio = ratio
		out := p.Apply([]follower.Follower{record("loner", 9000, 0)}, cfg)
		assert.Len(t, out, 1, "ratio %v", ratio)
	}
}

func TestApply_NonMutualOnly(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	mutual := record("mutual", 500, 400)
	mutual.IsMutual = true
	stranger := record("stranger", 500, 400)

	cfg := openConfig()
	cfg.NonMutualOnly = true
	assert.Equal(t, []string{"stranger"}, usernames(p.Apply([]follower.Follower{mutual, stranger}, cfg)))

	cfg.NonMutualOnly = false
	assert.Equal(t, []string{"mutual", "stranger"}, usernames(p.Apply([]follower.Follower{mutual, stranger}, cfg)))
}

func TestApply_VerifiedAndPrivate(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	verifiedPublic := record("verified_public", 500, 400)
	unverifiedPrivate := record("unverified_private", 500, 400)
	unverifiedPrivate.IsVerified = false
	unverifiedPrivate.IsPrivate = true

	records := []follower.Follower{verifiedPublic, unverifiedPrivate}

	cfg := openConfig()
	cfg.VerifiedOnly = true
	assert.Equal(t, []string{"verified_public"}, usernames(p.Apply(records, cfg)))

	cfg = openConfig()
	cfg.PrivateAccountsOnly = true
	assert.Equal(t, []string{"unverified_private"}, usernames(p.Apply(records, cfg)))

	cfg.VerifiedOnly = true
	assert.Empty(t, p.Apply(records, cfg))
}

func TestApply_BotDetectionRecompute(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	bot := follower.Follower{
		Username:       "spam1234",
		Bio:            "follow me back!! 😀😀😀😀😀😀",
		FollowerCount:  50,
		FollowingCount: 5000,
		BotScore:       0,
	}
	human := record("jane_smith", 800, 200)
	human.BotScore = 0.99

	cfg := openConfig()
	cfg.BotDetectionEnabled = true
	assert.Equal(t, []string{"jane_smith"}, usernames(p.Apply([]follower.Follower{bot, human}, cfg)))

	cfg.BotDetectionEnabled = false
	assert.Len(t, p.Apply([]follower.Follower{bot, human}, cfg), 2)
}

func TestApply_BotDetectionStoredScore(t *testing.T) {
	d := &fixedDetector{isBot: true}
	p := NewPipeline(d, BotGateStored)

	atThreshold := record("at_threshold", 500, 400)
	atThreshold.BotScore = 0.6
	above := record("above", 500, 400)
	above.BotScore = 0.61

	cfg := openConfig()
	cfg.BotDetectionEnabled = true
	out := p.Apply([]follower.Follower{atThreshold, above}, cfg)

	assert.Equal(t, []string{"at_threshold"}, usernames(out))
	assert.Zero(t, d.calls)
}

func TestApply_GatesCanDisagreeOnStaleScores(t *testing.T) {
	stale := record("stale", 500, 400)
	stale.BotScore = 0.95

	cfg := openConfig()
	cfg.BotDetectionEnabled = true

	recompute := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	stored := NewPipeline(botdetection.NewDetector(), BotGateStored)

	assert.Len(t, recompute.Apply([]follower.Follower{stale}, cfg), 1)
	assert.Empty(t, stored.Apply([]follower.Follower{stale}, cfg))
}

func TestApply_UnknownContactsOnlyHasNoEffect(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	records := []follower.Follower{record("a", 500, 400), record("b", 300, 200)}

	cfg := openConfig()
	without := p.Apply(records, cfg)
	cfg.UnknownContactsOnly = true
	with := p.Apply(records, cfg)

	assert.Equal(t, without, with)
}

func TestApply_PreservesOrderAndInput(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	records := []follower.Follower{
		record("e", 100, 10),
		record("d", 50, 10),
		record("c", 300, 10),
		record("b", 10, 10),
		record("a", 200, 10),
	}
	snapshot := append([]follower.Follower(nil), records...)

	cfg := openConfig()
	cfg.MinFollowerThreshold = 100
	out := p.Apply(records, cfg)

	assert.Equal(t, []string{"e", "c", "a"}, usernames(out))
	assert.Equal(t, snapshot, records)
}

func TestApply_EmptyInput(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	out := p.Apply(nil, DefaultConfig())
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestApply_ConcurrentUse(t *testing.T) {
	p := NewPipeline(botdetection.NewDetector(), BotGateRecompute)
	records := []follower.Follower{record("a", 500, 400), record("b", 10, 400), record("c", 2000, 10)}
	cfg := DefaultConfig()
	expected := p.Apply(records, cfg)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, expected, p.Apply(records, cfg))
		}()
	}
	wg.Wait()
}

func TestParseBotGate(t *testing.T) {
	g, err := ParseBotGate("")
	assert.NoError(t, err)
	assert.Equal(t, BotGateRecompute, g)

	g, err = ParseBotGate("stored")
	assert.NoError(t, err)
	assert.Equal(t, BotGateStored, g)

	_, err = ParseBotGate("cached")
	assert.Error(t, err)
}
