package auth

import (
	"fmt"

	"github.com/labstack/echo/v4"

	apperrors "carrental/internal/errors"
)

// ContextKey is the echo context key holding the authenticated *Claims.
const ContextKey = "user"

// Authenticator verifies bearer tokens for the echo-jwt middleware.
type Authenticator struct {
	jwtService *JWTService
	tokenStore TokenStoreInterface
}

// NewAuthenticator creates an authenticator that also rejects revoked tokens.
func NewAuthenticator(jwtService *JWTService, tokenStore TokenStoreInterface) *Authenticator {
	return &Authenticator{jwtService: jwtService, tokenStore: tokenStore}
}

// ParseToken matches echojwt.Config.ParseTokenFunc. The returned value is stored under ContextKey.
func (a *Authenticator) ParseToken(c echo.Context, raw string) (interface{}, error) {
	claims, err := a.jwtService.ValidateToken(raw)
	if err != nil {
		return nil, err
	}

	revoked, err := a.tokenStore.IsRevoked(c.Request().Context(), claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: revoked", apperrors.ErrInvalidToken)
	}
	return claims, nil
}

// CurrentUser returns the identity attached by the auth middleware.
func CurrentUser(c echo.Context) (*Claims, error) {
	claims, ok := c.Get(ContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}
