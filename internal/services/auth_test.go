package services

import (
	"testing"
	"time"

	"estimator/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T, issuer string) *AuthService {
	t.Helper()
	service, err := NewAuthService(config.Config{JWTSecret: "test-secret", JWTIssuer: issuer})
	require.NoError(t, err)
	return service
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(config.Config{})
	assert.Error(t, err)
}

func TestAuthService_RoundTrip(t *testing.T) {
	service := newTestAuthService(t, "estimator")
	userID := uuid.New()

	token, err := service.IssueToken(userID, time.Hour)
	require.NoError(t, err)

	got, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	service := newTestAuthService(t, "estimator")
	userID := uuid.New()

	sign := func(claims jwt.RegisteredClaims, method jwt.SigningMethod, key any) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	valid := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    "estimator",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"

	badSubject := valid
	badSubject.Subject = "not-a-uuid"

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", sign(valid, jwt.SigningMethodHS256, []byte("other-secret"))},
		{"wrong algorithm", sign(valid, jwt.SigningMethodHS512, []byte("test-secret"))},
		{"expired", sign(expired, jwt.SigningMethodHS256, []byte("test-secret"))},
		{"missing expiry", sign(noExpiry, jwt.SigningMethodHS256, []byte("test-secret"))},
		{"wrong issuer", sign(wrongIssuer, jwt.SigningMethodHS256, []byte("test-secret"))},
		{"subject not a uuid", sign(badSubject, jwt.SigningMethodHS256, []byte("test-secret"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Equal(t, uuid.Nil, got)
		})
	}
}

func TestAuthService_NoIssuerConfigured(t *testing.T) {
	service := newTestAuthService(t, "")
	userID := uuid.New()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    "anyone",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}
