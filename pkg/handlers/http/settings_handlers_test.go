package http

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_GetAndPartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.login(t)

	status, body := env.do(t, fiber.MethodGet, "/api/user/settings", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	current := decode[settings.Settings](t, body.Data)
	assert.Equal(t, userID, current.UserID)
	assert.Equal(t, settings.DefaultMinFollowerThreshold, current.MinFollowerThreshold)
	assert.False(t, current.MutualOnlyMode)

	status, body = env.do(t, fiber.MethodPut, "/api/user/settings", token, map[string]interface{}{
		"mutualOnlyMode":    true,
		"dataRetentionDays": 90,
	})
	require.Equal(t, fiber.StatusOK, status)
	updated := decode[settings.Settings](t, body.Data)
	assert.True(t, updated.MutualOnlyMode)
	assert.Equal(t, 90, updated.DataRetentionDays)
	assert.Equal(t, current.MinFollowerThreshold, updated.MinFollowerThreshold)

	events := env.eventsOfType(auditlogs.EventTypeSettingsUpdated)
	require.Len(t, events, 1)
	assert.Equal(t, "mutualOnlyMode,dataRetentionDays", events[0].Metadata["fields"])
}

func TestSettings_RejectsOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t)

	status, body := env.do(t, fiber.MethodPut, "/api/user/settings", token, map[string]interface{}{
		"dataRetentionDays": 0,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid settings data", body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "dataRetentionDays", body.Details[0].Field)
}

func TestInitDB_SeedsSampleData(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, fiber.MethodPost, "/api/init-db", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Database initialized successfully", body.Message)

	events := env.eventsOfType(auditlogs.EventTypeSampleSeeded)
	require.Len(t, events, 1)
	assert.Equal(t, auditlogs.ActorTypeSystem, events[0].Actor.Type)

	token, _ := env.login(t)
	status, body = env.do(t, fiber.MethodGet, "/api/followers", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body.Data), "bot_account_123")
}

func TestInitDB_ForbiddenInLiveMode(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app := fiber.New()
	app.Post("/api/init-db", NewInitDBHandler(logger, config.ModeLive, nil, nil).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/init-db", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
