package websocket

import (
	"context"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/app/sample"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	auditMocks "github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs/mocks"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/cache"
	mockPlatform "github.com/NeuralTrust/FollowerManager/pkg/infra/platform/mock"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/repository/memory"
	infraWs "github.com/NeuralTrust/FollowerManager/pkg/infra/websocket"
	"github.com/NeuralTrust/FollowerManager/pkg/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsEnv struct {
	url     string
	store   *memory.Store
	audit   *auditMocks.Service
	limiter *infraWs.ConnectionLimiter
	user    *user.User
	token   string
}

func newWsEnv(t *testing.T) *wsEnv {
	t.Helper()
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	u := &user.User{Username: "jane", PlatformID: "777", Platform: user.PlatformTwitter, AccessToken: "access"}
	require.NoError(t, store.Users().Upsert(ctx, u))

	jwtManager := jwt.NewJwtManager("secret", time.Hour)
	token, _, err := jwtManager.CreateToken(u)
	require.NoError(t, err)

	audit := &auditMocks.Service{}
	limiter := infraWs.NewConnectionLimiter(infraWs.WithMaxConnections(4))
	client := mockPlatform.NewClient(mockPlatform.Config{Account: sample.Account()})
	remover := appFollower.NewRemover(logger, client, platform.StaticTokenSource{}, store.Followers(), store.Removals(),
		appFollower.RemoverConfig{BatchSize: 2, BatchPause: 0})
	handler := NewRemovalHandler(
		logger,
		appAuth.NewAuthenticator(logger, jwtManager, cache.NewLocalClient(), store.Users()),
		remover,
		audit,
		time.Second,
	)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use("/ws", middleware.NewWebsocketMiddleware(logger, limiter).Middleware())
	app.Get("/ws/removals", websocket.New(handler.Handle))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return &wsEnv{
		url:     fmt.Sprintf("ws://%s/ws/removals", ln.Addr().String()),
		store:   store,
		audit:   audit,
		limiter: limiter,
		user:    u,
		token:   token,
	}
}

func (e *wsEnv) storeFollowers(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()
	records := make([]follower.Follower, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, follower.Follower{
			UserID:     e.user.ID,
			PlatformID: fmt.Sprintf("p-%d", i),
			Username:   fmt.Sprintf("follower_%d", i),
		})
	}
	require.NoError(t, e.store.Followers().Upsert(ctx, records))
	all, err := e.store.Followers().ListAll(ctx, e.user.ID)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(all))
	for _, f := range all {
		ids = append(ids, f.ID)
	}
	return ids
}

func (e *wsEnv) dial(t *testing.T) *gorilla.Conn {
	t.Helper()
	conn, _, err := gorilla.DefaultDialer.Dial(e.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello ServerMessage
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, MessageConnected, hello.Type)
	return conn
}

func removalPayload(token string, ids []uuid.UUID, reason string) map[string]interface{} {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	return map[string]interface{}{"token": token, "followerIds": raw, "reason": reason}
}

func TestRemovalHandler_StreamsProgressAndResult(t *testing.T) {
	e := newWsEnv(t)
	ids := e.storeFollowers(t, 5)
	conn := e.dial(t)

	require.NoError(t, conn.WriteJSON(removalPayload(e.token, ids, "Spam account")))

	var progress []appFollower.Progress
	var result *appFollower.RemovalResult
	for result == nil {
		var msg ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		switch msg.Type {
		case MessageProgress:
			require.NotNil(t, msg.Progress)
			progress = append(progress, *msg.Progress)
		case MessageResult:
			result = msg.Result
		default:
			t.Fatalf("unexpected message %+v", msg)
		}
	}

	require.Len(t, progress, 3)
	assert.Equal(t, 1, progress[0].Batch)
	assert.Equal(t, 3, progress[0].Batches)
	assert.Equal(t, 2, progress[0].Processed)
	assert.Equal(t, 100, progress[2].Percent)

	require.NotNil(t, result)
	assert.Equal(t, 5, result.RemovedCount)
	assert.Equal(t, 0, result.FailedCount)

	_, _, err := conn.ReadMessage()
	assert.True(t, gorilla.IsCloseError(err, gorilla.CloseNormalClosure), "got %v", err)

	remaining, err := e.store.Followers().ListAll(context.Background(), e.user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	events := e.audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, auditlogs.EventTypeFollowersRemoved, events[0].Event.Type)
	assert.Equal(t, e.user.ID.String(), events[0].Actor.ID)

	assert.Eventually(t, func() bool { return e.limiter.Active() == 0 }, time.Second, 10*time.Millisecond)
}

func TestRemovalHandler_RejectsInvalidToken(t *testing.T) {
	e := newWsEnv(t)
	ids := e.storeFollowers(t, 1)
	conn := e.dial(t)

	require.NoError(t, conn.WriteJSON(removalPayload("not-a-jwt", ids, "Spam account")))

	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageError, msg.Type)
	assert.Equal(t, "Invalid token", msg.Error)

	_, _, err := conn.ReadMessage()
	assert.True(t, gorilla.IsCloseError(err, gorilla.ClosePolicyViolation), "got %v", err)

	remaining, err := e.store.Followers().ListAll(context.Background(), e.user.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	assert.Empty(t, e.audit.Events())
}

func TestRemovalHandler_ValidationErrors(t *testing.T) {
	e := newWsEnv(t)
	conn := e.dial(t)

	require.NoError(t, conn.WriteJSON(removalPayload(e.token, nil, " ")))

	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageError, msg.Type)
	assert.Equal(t, "Invalid request parameters", msg.Error)
	assert.Len(t, msg.Details, 2)
}

func TestRemovalHandler_MalformedFrame(t *testing.T) {
	e := newWsEnv(t)
	conn := e.dial(t)

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("{not json")))

	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageError, msg.Type)
	assert.Equal(t, "Invalid JSON payload", msg.Error)
}
