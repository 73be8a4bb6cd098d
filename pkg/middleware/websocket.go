package middleware

import (
	"github.com/NeuralTrust/FollowerManager/pkg/common"
	infraWs "github.com/NeuralTrust/FollowerManager/pkg/infra/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type websocketMiddleware struct {
	logger  *logrus.Logger
	limiter *infraWs.ConnectionLimiter
}

// NewWebsocketMiddleware admits websocket upgrades while the limiter has
// room. The handler owns the acquired slot and must release it.
func NewWebsocketMiddleware(logger *logrus.Logger, limiter *infraWs.ConnectionLimiter) Middleware {
	return &websocketMiddleware{
		logger:  logger,
		limiter: limiter,
	}
}

func (m *websocketMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.Status(fiber.StatusUpgradeRequired).JSON(envelopeError("Websocket upgrade required"))
		}
		if !m.limiter.TryAcquire() {
			m.logger.WithField("active", m.limiter.Active()).Warn("websocket connection limit reached")
			return c.Status(fiber.StatusTooManyRequests).JSON(envelopeError("Too many open connections"))
		}
		c.Locals(common.WebsocketLimiterKey, m.limiter)
		if err := c.Next(); err != nil {
			// the handler never ran, so nobody else will free the slot
			m.limiter.Release()
			return err
		}
		return nil
	}
}
