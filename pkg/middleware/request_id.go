package middleware

import (
	"github.com/NeuralTrust/FollowerManager/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type requestIDMiddleware struct{}

// NewRequestIDMiddleware propagates the caller's X-Request-ID or assigns a
// fresh one, and echoes it on the response.
func NewRequestIDMiddleware() Middleware {
	return &requestIDMiddleware{}
}

func (m *requestIDMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(common.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			c.Request().Header.Set(common.RequestIDHeader, id)
		}
		c.Locals(common.RequestIDContextKey, id)
		c.Set(common.RequestIDHeader, id)
		return c.Next()
	}
}
