package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/dependency_container"
	"github.com/NeuralTrust/FollowerManager/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Mode: config.ModeMock},
		Storage:  config.StorageConfig{Driver: config.StorageMemory},
		Auth:     config.AuthConfig{JWTSecret: "router-secret", TokenTTL: time.Hour, StateTTL: time.Minute},
		Analysis: config.AnalysisConfig{BotGate: "recompute"},
		Removal:  config.RemovalConfig{BatchSize: 10},
		CORS: config.CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
			MaxAge:           "600",
		},
		Audit:     config.AuditConfig{Enabled: true, Exporter: "log"},
		Websocket: config.WebsocketConfig{MaxConnections: 2, RequestTimeout: time.Second},
	}
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    testConfig(),
		Logger: logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.AuditLogsService.Close() })

	app := fiber.New()
	r := router.NewAPIRouter(
		container.MiddlewareTransport,
		container.HandlerTransport,
		container.WSHandlerTransport,
		"http://localhost:3001/swagger.json",
	)
	require.NoError(t, r.BuildRoutes(app))
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
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
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func TestAPIRouter_PublicRoutes(t *testing.T) {
	app := newApp(t)

	resp, body := call(t, app, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, _ = call(t, app, fiber.MethodGet, "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = call(t, app, fiber.MethodGet, "/api/status", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, _ := body["data"].(map[string]interface{})
	assert.Equal(t, config.ModeMock, data["mode"])

	resp, body = call(t, app, fiber.MethodGet, "/api/removal-reasons", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["data"])
}

func TestAPIRouter_ProtectedRoutesRequireToken(t *testing.T) {
	app := newApp(t)

	for _, route := range []struct{ method, path string }{
		{fiber.MethodGet, "/api/user/profile"},
		{fiber.MethodGet, "/api/user/settings"},
		{fiber.MethodGet, "/api/followers"},
		{fiber.MethodPost, "/api/followers/sync"},
		{fiber.MethodPost, "/api/followers/analyze"},
		{fiber.MethodGet, "/api/followers/history"},
		{fiber.MethodPost, "/api/auth/logout"},
	} {
		resp, _ := call(t, app, route.method, route.path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, route.path)
	}
}

func TestAPIRouter_LoginSyncAnalyze(t *testing.T) {
	app := newApp(t)

	resp, body := call(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{"platform": "twitter"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, _ := body["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	resp, _ = call(t, app, fiber.MethodPost, "/api/followers/sync", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = call(t, app, fiber.MethodGet, "/api/followers?limit=10", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page, _ := body["data"].(map[string]interface{})
	items, _ := page["data"].([]interface{})
	assert.Len(t, items, 10)

	resp, body = call(t, app, fiber.MethodPost, "/api/followers/analyze", token, map[string]interface{}{})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	analyzed, _ := body["data"].(map[string]interface{})
	assert.Contains(t, analyzed, "summary")
}

func TestAPIRouter_WebsocketRequiresUpgrade(t *testing.T) {
	app := newApp(t)

	resp, _ := call(t, app, fiber.MethodGet, "/api/ws/removals", "", nil)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestAPIRouter_CORSPreflight(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(fiber.MethodOptions, "/api/followers", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
