package common

type contextKey string

const (
	UserContextKey      contextKey = "user"
	ClaimsContextKey    contextKey = "claims"
	RequestIDContextKey contextKey = "request_id"
	LatencyContextKey   contextKey = "__execution_time"
)

// Websocket handlers only see locals stored under plain string keys.
const WebsocketLimiterKey = "ws_limiter"
