package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAreRegistered(t *testing.T) {
	before := testutil.ToFloat64(FollowerRemovals.WithLabelValues("removed"))
	FollowerRemovals.WithLabelValues("removed").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(FollowerRemovals.WithLabelValues("removed")))

	families, err := Gatherer().Gather()
	assert.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["followermanager_follower_removals_total"])
}

func TestBotVerdict(t *testing.T) {
	assert.Equal(t, "bot", BotVerdict(true))
	assert.Equal(t, "human", BotVerdict(false))
}
