package jwt

import (
	"testing"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *user.User {
	return &user.User{
		ID:         uuid.New(),
		Username:   "testuser",
		PlatformID: "123456789",
		Platform:   user.PlatformTwitter,
	}
}

func registered(expires time.Time) jwtlib.RegisteredClaims {
	return jwtlib.RegisteredClaims{
		Issuer:    issuer,
		IssuedAt:  jwtlib.NewNumericDate(expires.Add(-time.Hour)),
		ExpiresAt: jwtlib.NewNumericDate(expires),
	}
}

func sign(t *testing.T, method jwtlib.SigningMethod, key interface{}, claims jwtlib.Claims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestCreateToken_RoundTrip(t *testing.T) {
	mgr := NewJwtManager("test-secret", time.Hour)
	u := testUser()

	token, issued, err := mgr.CreateToken(u)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := mgr.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "123456789", claims.PlatformID)
	assert.Equal(t, user.PlatformTwitter, claims.Platform)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	id, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestCreateToken_UniqueTokenIDs(t *testing.T) {
	mgr := NewJwtManager("test-secret", time.Hour)
	_, a, err := mgr.CreateToken(testUser())
	require.NoError(t, err)
	_, b, err := mgr.CreateToken(testUser())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDecodeToken_Rejections(t *testing.T) {
	mgr := NewJwtManager("secret", time.Hour)
	later := time.Now().Add(time.Hour)
	valid := func() *Claims {
		return &Claims{UserID: uuid.NewString(), RegisteredClaims: registered(later)}
	}

	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	foreignIssuer := valid()
	foreignIssuer.Issuer = "someone-else"
	badUserID := valid()
	badUserID.UserID = "42"

	cases := map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   sign(t, jwtlib.SigningMethodHS256, []byte("other"), valid()),
		"wrong alg":      sign(t, jwtlib.SigningMethodHS512, []byte("secret"), valid()),
		"no expiry":      sign(t, jwtlib.SigningMethodHS256, []byte("secret"), noExpiry),
		"foreign issuer": sign(t, jwtlib.SigningMethodHS256, []byte("secret"), foreignIssuer),
		"bad user id":    sign(t, jwtlib.SigningMethodHS256, []byte("secret"), badUserID),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			claims, err := mgr.DecodeToken(token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestDecodeToken_Expired(t *testing.T) {
	mgr := NewJwtManager("secret", time.Hour)
	expired := &Claims{UserID: uuid.NewString(), RegisteredClaims: registered(time.Now().Add(-time.Minute))}

	_, err := mgr.DecodeToken(sign(t, jwtlib.SigningMethodHS256, []byte("secret"), expired))
	assert.ErrorIs(t, err, ErrExpiredToken)
}
