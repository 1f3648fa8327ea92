package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
)

// IdentityContextKey is the gin context key holding the resolved identity
const IdentityContextKey = "identity"

// Identity resolves who the shopper is on every request. A valid bearer
// token yields a user identity; anything else falls back to the guest
// session cookie, minting a new session on first contact. Carts,
// reservations and orders all key off this identity, so every storefront
// route must run it.
func Identity(jwtService *auth.JWTService, session config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			identity, errCode := resolveUser(jwtService, strings.TrimPrefix(header, "Bearer "))
			if errCode != "" {
				c.AbortWithStatusJSON(dto.GetHTTPStatus(errCode), dto.NewErrorResponse(
					errCode, "Invalid or expired access token", GetRequestID(c)))
				return
			}
			c.Set(IdentityContextKey, identity)
			c.Next()
			return
		}

		sessionID, err := c.Cookie(session.CookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(session.CookieName, sessionID,
				int(session.MaxAge.Seconds()), "/", "", session.Secure, true)
		}

		identity, err := valueobject.GuestIdentity(sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
				dto.ErrCodeInternal, "Failed to establish guest session", GetRequestID(c)))
			return
		}
		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// resolveUser validates a bearer token and builds the user identity.
// Returns an API error code on failure.
func resolveUser(jwtService *auth.JWTService, token string) (valueobject.Identity, string) {
	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return valueobject.Identity{}, dto.ErrCodeTokenExpired
		}
		return valueobject.Identity{}, dto.ErrCodeTokenInvalid
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return valueobject.Identity{}, dto.ErrCodeTokenInvalid
	}
	identity, err := valueobject.UserIdentity(userID)
	if err != nil {
		return valueobject.Identity{}, dto.ErrCodeTokenInvalid
	}
	return identity, ""
}

// GetIdentity returns the identity set by the Identity middleware
func GetIdentity(c *gin.Context) (valueobject.Identity, bool) {
	value, exists := c.Get(IdentityContextKey)
	if !exists {
		return valueobject.Identity{}, false
	}
	identity, ok := value.(valueobject.Identity)
	if !ok || identity.IsZero() {
		return valueobject.Identity{}, false
	}
	return identity, true
}
