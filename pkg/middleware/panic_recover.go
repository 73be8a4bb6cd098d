package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/NeuralTrust/FollowerManager/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type panicRecoverMiddleware struct {
	logger *logrus.Logger
}

// NewPanicRecoverMiddleware turns a handler panic into a 500 envelope.
func NewPanicRecoverMiddleware(logger *logrus.Logger) Middleware {
	return &panicRecoverMiddleware{logger: logger}
}

func (m *panicRecoverMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			requestID, _ := c.Locals(common.RequestIDContextKey).(string)
			m.logger.WithFields(logrus.Fields{
				"panic":      fmt.Sprint(r),
				"method":     c.Method(),
				"route":      c.Route().Path,
				"request_id": requestID,
				"stack":      string(debug.Stack()),
			}).Error("recovered from handler panic")
			err = c.Status(fiber.StatusInternalServerError).JSON(envelopeError("Internal server error"))
		}()
		return c.Next()
	}
}
