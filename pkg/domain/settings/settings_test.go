package settings

import (
	"math"
	"testing"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	userID := uuid.New()
	s := Defaults(userID)

	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, 100, s.MinFollowerThreshold)
	assert.Equal(t, 10.0, s.MaxFollowingRatio)
	assert.True(t, s.BotDetectionEnabled)
	assert.False(t, s.MutualOnlyMode)
	assert.False(t, s.EmailNotifications)
	assert.True(t, s.RemovalConfirmations)
	assert.Equal(t, 30, s.DataRetentionDays)
	assert.NoError(t, s.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
		valid  bool
	}{
		{"threshold upper bound", func(s *Settings) { s.MinFollowerThreshold = 10_000_000 }, true},
		{"threshold too high", func(s *Settings) { s.MinFollowerThreshold = 10_000_001 }, false},
		{"negative threshold", func(s *Settings) { s.MinFollowerThreshold = -1 }, false},
		{"ratio zero", func(s *Settings) { s.MaxFollowingRatio = 0 }, true},
		{"ratio too high", func(s *Settings) { s.MaxFollowingRatio = 1000.5 }, false},
		{"ratio NaN", func(s *Settings) { s.MaxFollowingRatio = math.NaN() }, false},
		{"retention zero", func(s *Settings) { s.DataRetentionDays = 0 }, false},
		{"retention one year", func(s *Settings) { s.DataRetentionDays = 365 }, true},
		{"retention too long", func(s *Settings) { s.DataRetentionDays = 366 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults(uuid.New())
			tt.mutate(s)
			err := s.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, domain.IsValidationError(err))
			}
		})
	}
}
