package usecases

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthLoginIssuesAdminToken(t *testing.T) {
	uc := NewAuthUsecase("secret", "api-key")
	require.NoError(t, uc.EnsureAdmin("admin", "pa55word", ""))

	token, err := uc.Login("admin", "pa55word")
	require.NoError(t, err)
	assert.NoError(t, uc.Authorize(token))

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, "admin", claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), exp.Time, time.Minute)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	uc := NewAuthUsecase("secret", "")

	_, err := uc.Login("admin", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "no admin configured")

	require.NoError(t, uc.EnsureAdmin("admin", "right", ""))
	_, err = uc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = uc.Login("root", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthEnsureAdminWithHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed"), bcrypt.MinCost)
	require.NoError(t, err)

	uc := NewAuthUsecase("secret", "")
	require.NoError(t, uc.EnsureAdmin("admin", "ignored", string(hash)))

	_, err = uc.Login("admin", "hashed")
	assert.NoError(t, err)
	_, err = uc.Login("admin", "ignored")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Error(t, uc.EnsureAdmin("", "x", ""))
	assert.Error(t, uc.EnsureAdmin("admin", "", ""))
}

func TestAuthAuthorize(t *testing.T) {
	uc := NewAuthUsecase("secret", "api-key")

	assert.NoError(t, uc.Authorize("api-key"))
	assert.ErrorIs(t, uc.Authorize(""), ErrInvalidCredentials)
	assert.ErrorIs(t, uc.Authorize("api-key-2"), ErrInvalidCredentials)

	sign := func(secret string, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	future := time.Now().Add(time.Hour).Unix()

	assert.ErrorIs(t, uc.Authorize(sign("other", jwt.MapClaims{"role": "admin", "exp": future})), ErrInvalidCredentials)
	assert.ErrorIs(t, uc.Authorize(sign("secret", jwt.MapClaims{"role": "user", "exp": future})), ErrInvalidCredentials)
	assert.ErrorIs(t, uc.Authorize(sign("secret", jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()})), ErrInvalidCredentials)
	assert.NoError(t, uc.Authorize(sign("secret", jwt.MapClaims{"role": "admin", "exp": future})))
}
