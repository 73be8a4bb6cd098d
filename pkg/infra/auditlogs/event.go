package auditlogs

import (
	"strings"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Event struct {
	Event     EventInfo         `json:"event"`
	Actor     Actor             `json:"actor"`
	Target    Target            `json:"target"`
	Context   Context           `json:"context"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type EventInfo struct {
	Type         string `json:"type"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

type Target struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Context struct {
	IPAddress string               `json:"ipAddress,omitempty"`
	UserAgent *utils.UserAgentInfo `json:"userAgent,omitempty"`
	RequestID string               `json:"requestId,omitempty"`
}

// ContextFromRequest captures the caller details of a fiber request. Values
// are copied because fiber reuses its buffers once the handler returns and
// events are exported asynchronously.
func ContextFromRequest(c *fiber.Ctx) Context {
	return Context{
		IPAddress: strings.Clone(c.IP()),
		UserAgent: utils.ParseUserAgent(
			strings.Clone(c.Get(fiber.HeaderUserAgent)),
			strings.Clone(c.Get(fiber.HeaderAcceptLanguage)),
		),
		RequestID: strings.Clone(c.Get(fiber.HeaderXRequestID)),
	}
}
