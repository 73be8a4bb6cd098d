package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	"github.com/NeuralTrust/FollowerManager/pkg/app/botdetection"
	"github.com/NeuralTrust/FollowerManager/pkg/app/filter"
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/app/sample"
	appSettings "github.com/NeuralTrust/FollowerManager/pkg/app/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	auditMocks "github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs/mocks"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/cache"
	mockPlatform "github.com/NeuralTrust/FollowerManager/pkg/infra/platform/mock"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/repository/memory"
	"github.com/NeuralTrust/FollowerManager/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type followerRecord = follower.Follower

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	audit *auditMocks.Service
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	audit := &auditMocks.Service{}
	cacheClient := cache.NewLocalClient()
	jwtManager := jwt.NewJwtManager("test-secret", time.Hour)
	client := mockPlatform.NewClient(mockPlatform.Config{Account: sample.Account()})
	tokens := platform.StaticTokenSource{}

	detector := botdetection.NewDetector()
	pipeline := filter.NewPipeline(detector, filter.BotGateRecompute)
	settingsService := appSettings.NewService(logger, store.Settings())
	authService := appAuth.NewService(
		logger,
		appAuth.Config{Mode: config.ModeMock},
		cacheClient,
		nil,
		client,
		store.Users(),
		settingsService,
		jwtManager,
	)
	analyzer := appFollower.NewAnalyzer(logger, store.Followers(), detector, pipeline, filter.BotGateRecompute)
	syncer := appFollower.NewSyncer(logger, client, tokens, store.Followers(), detector)
	remover := appFollower.NewRemover(logger, client, tokens, store.Followers(), store.Removals(),
		appFollower.RemoverConfig{BatchSize: 10, BatchPause: 0})
	seeder := sample.NewSeeder(logger, store.Users(), store.Followers(), store.Settings())

	app := fiber.New()
	authenticator := appAuth.NewAuthenticator(logger, jwtManager, cacheClient, store.Users())
	auth := middleware.NewAuthMiddleware(logger, authenticator).Middleware()

	app.Get("/api/status", NewGetStatusHandler(config.ModeMock).Handle)
	app.Post("/api/init-db", NewInitDBHandler(logger, config.ModeMock, seeder, audit).Handle)
	app.Get("/api/removal-reasons", NewListRemovalReasonsHandler().Handle)
	app.Post("/api/auth/login", NewLoginHandler(logger, authService, audit).Handle)
	app.Get("/api/auth/callback", NewCallbackHandler(logger, authService, audit).Handle)

	api := app.Group("/api", auth)
	api.Post("/auth/refresh", NewRefreshTokenHandler(logger, authService).Handle)
	api.Post("/auth/logout", NewLogoutHandler(logger, authService, audit).Handle)
	api.Get("/user/profile", NewGetProfileHandler(logger, authService).Handle)
	api.Get("/user/settings", NewGetSettingsHandler(logger, settingsService).Handle)
	api.Put("/user/settings", NewUpdateSettingsHandler(logger, settingsService, audit).Handle)
	api.Get("/followers", NewListFollowersHandler(logger, appFollower.NewFinder(store.Followers())).Handle)
	api.Post("/followers/sync", NewSyncFollowersHandler(logger, syncer, audit).Handle)
	api.Post("/followers/analyze", NewAnalyzeFollowersHandler(logger, analyzer).Handle)
	api.Delete("/followers/remove", NewRemoveFollowersHandler(logger, remover, audit).Handle)
	api.Get("/followers/history", NewListRemovalHistoryHandler(logger, store.Removals()).Handle)
	api.Get("/followers/:follower_id/bot-analysis", NewGetBotAnalysisHandler(logger, analyzer).Handle)

	return &testEnv{app: app, store: store, audit: audit}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

// login signs in the demo user and returns its token and id.
func (e *testEnv) login(t *testing.T) (string, uuid.UUID) {
	t.Helper()
	status, env := e.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{"platform": "twitter"})
	require.Equal(t, fiber.StatusOK, status)
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token, out.User.ID
}

func (e *testEnv) eventsOfType(typ string) []auditlogs.Event {
	var out []auditlogs.Event
	for _, evt := range e.audit.Events() {
		if evt.Event.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func storeFollowers(t *testing.T, store *memory.Store, userID uuid.UUID) (human, bot uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Followers().Upsert(ctx, []followerRecord{
		{
			UserID:         userID,
			PlatformID:     "p-human",
			Username:       "jane_smith",
			Bio:            "Designer and artist",
			AvatarURL:      "https://example.com/real.png",
			FollowerCount:  800,
			FollowingCount: 200,
			IsVerified:     true,
		},
		{
			UserID:         userID,
			PlatformID:     "p-bot",
			Username:       "spam1234",
			Bio:            "follow me back, dm me for the link in bio",
			FollowerCount:  150,
			FollowingCount: 100,
		},
	}))
	all, err := store.Followers().ListAll(ctx, userID)
	require.NoError(t, err)
	for _, f := range all {
		switch f.PlatformID {
		case "p-human":
			human = f.ID
		case "p-bot":
			bot = f.ID
		}
	}
	require.NotEqual(t, uuid.Nil, human)
	require.NotEqual(t, uuid.Nil, bot)
	return human, bot
}
