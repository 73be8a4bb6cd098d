package http

import (
	"errors"

	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/request"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/NeuralTrust/FollowerManager/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	ErrInvalidJsonPayload = "Invalid JSON payload"
	ErrUnauthorized       = "Authorization required"
	ErrInternal           = "Internal server error"
)

// respondError maps use case errors onto the API envelope. Anything that is
// not a caller error is logged and hidden behind fallback.
func respondError(logger *logrus.Logger, c *fiber.Ctx, err error, fallback string) error {
	var verr *request.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(response.ErrorWithDetails(verr.Message, verr.Fields))
	case domain.IsValidationError(err),
		errors.Is(err, appFollower.ErrNoFollowersSelected),
		errors.Is(err, appFollower.ErrReasonRequired),
		errors.Is(err, appAuth.ErrMissingCode),
		errors.Is(err, appAuth.ErrInvalidState),
		errors.Is(err, appAuth.ErrLiveOnly):
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(err.Error()))
	case domain.IsNotFoundError(err):
		return c.Status(fiber.StatusNotFound).JSON(response.Error(err.Error()))
	case errors.Is(err, platform.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(response.Error(err.Error()))
	case errors.Is(err, platform.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(response.Error(err.Error()))
	}
	logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error(fallback)
	if fallback == "" {
		fallback = ErrInternal
	}
	return c.Status(fiber.StatusInternalServerError).JSON(response.Error(fallback))
}

func currentUser(c *fiber.Ctx) (*user.User, bool) {
	return middleware.UserFromContext(c)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(response.Error(ErrUnauthorized))
}

func newAuditEvent(c *fiber.Ctx, u *user.User, info auditlogs.EventInfo, target auditlogs.Target) auditlogs.Event {
	return auditlogs.Event{
		Event:   info,
		Actor:   auditActor(u),
		Target:  target,
		Context: auditlogs.ContextFromRequest(c),
	}
}

func auditActor(u *user.User) auditlogs.Actor {
	if u == nil {
		return auditlogs.Actor{Type: auditlogs.ActorTypeSystem}
	}
	return auditlogs.Actor{
		ID:   u.ID.String(),
		Name: u.Username,
		Type: auditlogs.ActorTypeUser,
	}
}
