package jwt

import (
	"errors"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "follower-manager"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims is the session token payload. RegisteredClaims.ID is the token id
// used for revocation.
type Claims struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	PlatformID string `json:"platform_id"`
	Platform   string `json:"platform"`
	jwt.RegisteredClaims
}

func (c *Claims) UserUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// Manager signs and verifies HS256 session tokens.
type Manager interface {
	CreateToken(u *user.User) (string, *Claims, error)
	DecodeToken(tokenString string) (*Claims, error)
}

type manager struct {
	key    []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewJwtManager(secret string, ttl time.Duration) Manager {
	return &manager{
		key: []byte(secret),
		ttl: ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

func (m *manager) CreateToken(u *user.User) (string, *Claims, error) {
	issuedAt := time.Now()
	subject := u.ID.String()
	claims := &Claims{
		UserID:     subject,
		Username:   u.Username,
		PlatformID: u.PlatformID,
		Platform:   u.Platform,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// DecodeToken verifies signature, issuer and expiry. Every failure is
// reported as ErrInvalidToken except expiry, which is ErrExpiredToken.
func (m *manager) DecodeToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserUUID(); err != nil {
		return nil, err
	}
	return claims, nil
}
