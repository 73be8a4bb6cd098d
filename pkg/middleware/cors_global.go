package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const defaultAllowHeaders = "Content-Type, Authorization"

// corsGlobalMiddleware lets the web client call the API from its own origin.
// Requests from other origins pass through undecorated.
type corsGlobalMiddleware struct {
	origins          map[string]struct{}
	anyOrigin        bool
	allowCredentials bool
	methods          string
	exposeHeaders    string
	maxAge           string
}

func NewCORSGlobalMiddleware(
	allowOrigins []string,
	allowMethods []string,
	allowCredentials bool,
	exposeHeaders []string,
	maxAge string,
) Middleware {
	m := &corsGlobalMiddleware{
		origins:          make(map[string]struct{}, len(allowOrigins)),
		allowCredentials: allowCredentials,
		methods:          strings.Join(allowMethods, ", "),
		exposeHeaders:    strings.Join(exposeHeaders, ", "),
		maxAge:           maxAge,
	}
	for _, o := range allowOrigins {
		if o == "*" {
			m.anyOrigin = true
			continue
		}
		m.origins[strings.ToLower(strings.TrimSpace(o))] = struct{}{}
	}
	return m
}

func (m *corsGlobalMiddleware) allowed(origin string) bool {
	if m.anyOrigin {
		return true
	}
	_, ok := m.origins[strings.ToLower(origin)]
	return ok
}

func (m *corsGlobalMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" || !m.allowed(origin) {
			return c.Next()
		}

		c.Vary(fiber.HeaderOrigin)
		// A credentialed response may not carry the "*" wildcard.
		if m.anyOrigin && !m.allowCredentials {
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		} else {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		}
		if m.allowCredentials {
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
		}
		if m.exposeHeaders != "" {
			c.Set(fiber.HeaderAccessControlExposeHeaders, m.exposeHeaders)
		}

		if c.Method() != fiber.MethodOptions || c.Get(fiber.HeaderAccessControlRequestMethod) == "" {
			return c.Next()
		}

		c.Set(fiber.HeaderAccessControlAllowMethods, m.methods)
		allowHeaders := c.Get(fiber.HeaderAccessControlRequestHeaders)
		if allowHeaders == "" {
			allowHeaders = defaultAllowHeaders
		}
		c.Set(fiber.HeaderAccessControlAllowHeaders, allowHeaders)
		if m.maxAge != "" {
			c.Set(fiber.HeaderAccessControlMaxAge, m.maxAge)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
