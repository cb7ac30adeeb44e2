package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "carrental/internal/errors"
)

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", 0)

	token, err := svc.GenerateToken(108, "Test")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(108), claims.UserID)
	assert.Equal(t, "Test", claims.Username)
	assert.NotEmpty(t, claims.ID)
	assert.Nil(t, claims.ExpiresAt)
}

func TestJWTService_GenerateWithTTL(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken(1, "alice")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_ValidateToken_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	valid, err := svc.GenerateToken(1, "alice")
	require.NoError(t, err)

	otherSecret, err := NewJWTService("other-secret", 0).GenerateToken(1, "alice")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:   1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + strings.TrimRight(jwtSegment(`{"userId":2,"username":"mallory"}`), "=") + "." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", otherSecret},
		{"expired", expired},
		{"none algorithm", unsigned},
		{"tampered payload", tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestAuthenticator_ParseToken(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	token, err := svc.GenerateToken(7, "bob")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	tests := []struct {
		name      string
		revoked   bool
		expectErr bool
	}{
		{"active token", false, false},
		{"revoked token", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockTokenStore)
			store.On("IsRevoked", mock.Anything, claims.ID).Return(tt.revoked, nil)

			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

			got, err := NewAuthenticator(svc, store).ParseToken(c, token)
			if tt.expectErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(7), got.(*Claims).UserID)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := CurrentUser(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	c.Set(ContextKey, &Claims{UserID: 3, Username: "carol"})
	claims, err := CurrentUser(c)
	require.NoError(t, err)
	assert.Equal(t, "carol", claims.Username)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("testpass")
	require.NoError(t, err)
	assert.NotEqual(t, "testpass", hash)
	assert.True(t, hasher.Check("testpass", hash))
	assert.False(t, hasher.Check("wrong", hash))

	again, err := hasher.Hash("testpass")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)

	_, err = hasher.Hash(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func jwtSegment(payload string) string {
	return jwt.EncodeSegment([]byte(payload))
}
