package middleware

import (
	"errors"
	"strings"

	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	"github.com/NeuralTrust/FollowerManager/pkg/common"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auth/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const bearerPrefix = "Bearer "

var credentialMessages = map[error]string{
	appAuth.ErrTokenExpired: "Token expired",
	appAuth.ErrTokenInvalid: "Invalid token",
	appAuth.ErrTokenRevoked: "Token revoked",
	appAuth.ErrUnknownUser:  "User not found",
}

type authMiddleware struct {
	logger        *logrus.Logger
	authenticator appAuth.Authenticator
}

// NewAuthMiddleware authenticates requests with a bearer JWT and loads the
// token's user into the request locals.
func NewAuthMiddleware(logger *logrus.Logger, authenticator appAuth.Authenticator) Middleware {
	return &authMiddleware{
		logger:        logger,
		authenticator: authenticator,
	}
}

func (m *authMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			m.logger.Debug("missing or malformed authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(envelopeError("Authorization required"))
		}

		u, claims, err := m.authenticator.Authenticate(c.Context(), tokenString)
		if err != nil {
			if msg := CredentialMessage(err); msg != "" {
				return c.Status(fiber.StatusUnauthorized).JSON(envelopeError(msg))
			}
			m.logger.WithError(err).Error("failed to authenticate request")
			return c.Status(fiber.StatusInternalServerError).JSON(envelopeError("Internal server error"))
		}

		c.Locals(common.ClaimsContextKey, claims)
		c.Locals(common.UserContextKey, u)
		return c.Next()
	}
}

// CredentialMessage is the client facing text of an authentication
// failure, or "" when err is not one.
func CredentialMessage(err error) string {
	for target, msg := range credentialMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return ""
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}

func UserFromContext(c *fiber.Ctx) (*user.User, bool) {
	u, ok := c.Locals(common.UserContextKey).(*user.User)
	return u, ok && u != nil
}

func ClaimsFromContext(c *fiber.Ctx) (*jwt.Claims, bool) {
	claims, ok := c.Locals(common.ClaimsContextKey).(*jwt.Claims)
	return claims, ok && claims != nil
}
