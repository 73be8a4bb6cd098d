package router

import (
	"errors"
	"time"

	handlers "github.com/NeuralTrust/FollowerManager/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/FollowerManager/pkg/handlers/websocket"
	"github.com/NeuralTrust/FollowerManager/pkg/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
	wsHandlerTransport  *wsHandlers.HandlerTransport
	docsURL             string
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
	wsHandlerTransport *wsHandlers.HandlerTransport,
	docsURL string,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		wsHandlerTransport:  wsHandlerTransport,
		docsURL:             docsURL,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil || r.middlewareTransport == nil || r.wsHandlerTransport == nil {
		return ErrInvalidHandlerTransport
	}
	h := r.handlerTransport
	mw := r.middlewareTransport
	auth := mw.AuthMiddleware.Middleware()

	router.Use(
		mw.RecoverMiddleware.Middleware(),
		mw.RequestIDMiddleware.Middleware(),
		mw.CORSMiddleware.Middleware(),
		mw.MetricsMiddleware.Middleware(),
	)

	router.Get("/health", h.HealthHandler.Handle)

	router.Static("/swagger.json", "./docs/swagger.json")
	router.Get("/docs/*", swagger.New(swagger.Config{
		URL: r.docsURL,
	}))

	api := router.Group("/api")
	{
		api.Get("/health", h.HealthHandler.Handle)
		api.Get("/status", h.StatusHandler.Handle)
		api.Get("/removal-reasons", h.ListRemovalReasonsHandler.Handle)
		api.Post("/init-db", h.InitDBHandler.Handle)

		authGroup := api.Group("/auth")
		{
			authGroup.Post("/login", h.LoginHandler.Handle)
			authGroup.Get("/callback", h.CallbackHandler.Handle)
			authGroup.Post("/callback", h.CallbackHandler.Handle)
			authGroup.Post("/refresh", auth, h.RefreshHandler.Handle)
			authGroup.Post("/logout", auth, h.LogoutHandler.Handle)
		}

		userGroup := api.Group("/user", auth)
		{
			userGroup.Get("/profile", h.GetProfileHandler.Handle)
			userGroup.Get("/settings", h.GetSettingsHandler.Handle)
			userGroup.Put("/settings", h.UpdateSettingsHandler.Handle)
		}

		followers := api.Group("/followers", auth)
		{
			followers.Get("", h.ListFollowersHandler.Handle)
			followers.Post("/sync", h.SyncFollowersHandler.Handle)
			followers.Post("/analyze", h.AnalyzeFollowersHandler.Handle)
			followers.Delete("/remove", h.RemoveFollowersHandler.Handle)
			followers.Get("/history", h.ListRemovalHistoryHandler.Handle)
			followers.Get("/:follower_id/bot-analysis", h.GetBotAnalysisHandler.Handle)
		}

		ws := api.Group("/ws", mw.WebsocketMiddleware.Middleware())
		{
			ws.Get("/removals", websocket.New(r.wsHandlerTransport.RemovalHandler.Handle, websocket.Config{
				HandshakeTimeout: 15 * time.Second,
				ReadBufferSize:   1024,
				WriteBufferSize:  1024,
			}))
		}
	}
	return nil
}
