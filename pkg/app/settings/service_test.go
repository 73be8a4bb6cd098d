package settings

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	domainSettings "github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/repository/memory"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (Service, *memory.Store) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := memory.NewStore()
	return NewService(logger, store.Settings()), store
}

func ptr[T any](v T) *T { return &v }

func TestService_Get_DefaultsWhenMissing(t *testing.T) {
	svc, store := newService()
	userID := uuid.New()

	got, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domainSettings.Defaults(userID), got)

	_, err = store.Settings().Get(context.Background(), userID)
	assert.True(t, domain.IsNotFoundError(err), "Get must not persist defaults")
}

func TestService_Update_Partial(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	userID := uuid.New()

	got, err := svc.Update(ctx, userID, Update{MaxFollowingRatio: ptr(2.5), MutualOnlyMode: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.MaxFollowingRatio)
	assert.True(t, got.MutualOnlyMode)
	assert.Equal(t, domainSettings.DefaultMinFollowerThreshold, got.MinFollowerThreshold)
	assert.Equal(t, domainSettings.DefaultDataRetentionDays, got.DataRetentionDays)
	assert.True(t, got.BotDetectionEnabled)

	got, err = svc.Update(ctx, userID, Update{DataRetentionDays: ptr(90)})
	require.NoError(t, err)
	assert.Equal(t, 90, got.DataRetentionDays)
	assert.Equal(t, 2.5, got.MaxFollowingRatio)

	stored, err := store.Settings().Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 90, stored.DataRetentionDays)
	assert.True(t, stored.MutualOnlyMode)
}

func TestService_Update_RejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	userID := uuid.New()

	tests := []struct {
		name   string
		update Update
	}{
		{"negative threshold", Update{MinFollowerThreshold: ptr(-1)}},
		{"threshold too large", Update{MinFollowerThreshold: ptr(domainSettings.MaxFollowerThreshold + 1)}},
		{"ratio too large", Update{MaxFollowingRatio: ptr(1000.5)}},
		{"retention zero", Update{DataRetentionDays: ptr(0)}},
		{"retention too long", Update{DataRetentionDays: ptr(366)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, userID, tt.update)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}

	_, err := store.Settings().Get(ctx, userID)
	assert.True(t, domain.IsNotFoundError(err))
}

func TestService_EnsureDefaults(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	userID := uuid.New()

	require.NoError(t, svc.EnsureDefaults(ctx, userID))
	stored, err := store.Settings().Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domainSettings.DefaultMaxFollowingRatio, stored.MaxFollowingRatio)

	_, err = svc.Update(ctx, userID, Update{EmailNotifications: ptr(true)})
	require.NoError(t, err)
	require.NoError(t, svc.EnsureDefaults(ctx, userID))

	stored, err = store.Settings().Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, stored.EmailNotifications, "existing settings must be kept")
}

func TestUpdate_IsEmpty(t *testing.T) {
	assert.True(t, Update{}.IsEmpty())
	assert.False(t, Update{BotDetectionEnabled: ptr(false)}.IsEmpty())
}
