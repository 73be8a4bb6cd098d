package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// System
	HealthHandler Handler
	StatusHandler Handler
	InitDBHandler Handler

	// Auth
	LoginHandler    Handler
	CallbackHandler Handler
	RefreshHandler  Handler
	LogoutHandler   Handler

	// User
	GetProfileHandler     Handler
	GetSettingsHandler    Handler
	UpdateSettingsHandler Handler

	// Followers
	ListFollowersHandler      Handler
	SyncFollowersHandler      Handler
	AnalyzeFollowersHandler   Handler
	GetBotAnalysisHandler     Handler
	RemoveFollowersHandler    Handler
	ListRemovalHistoryHandler Handler
	ListRemovalReasonsHandler Handler
}
