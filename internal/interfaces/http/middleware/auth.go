package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/miasolution2024/omniconnect/internal/infrastructure/auth"
	"github.com/miasolution2024/omniconnect/internal/shared/logger"
	"github.com/miasolution2024/omniconnect/internal/shared/utils"
)

// ContextKeyUserID is where RequireAuth stores the operator id.
const ContextKeyUserID = "user_id"

type AuthMiddleware struct {
	jwtService *auth.JWTService
	apiKeys    *auth.APIKeyVerifier
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, apiKeys *auth.APIKeyVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		apiKeys:    apiKeys,
		logger:     logger,
	}
}

// RequireAuth accepts either a Bearer JWT or the operator API key in
// X-API-Key. Admin routes sit behind this.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" && m.apiKeys.Enabled() {
			if err := m.apiKeys.Verify(apiKey); err != nil {
				m.logger.Warnw("api key rejected", "client_ip", c.ClientIP())
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid api key")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuth records the operator id when a valid token is present but
// never rejects. The OAuth initiation endpoints use it so the audit trail
// can attribute a link to an operator without requiring a login.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := m.jwtService.Verify(token); err == nil {
				c.Set(ContextKeyUserID, claims.UserID)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// UserIDFromContext returns the authenticated operator id, when known.
func UserIDFromContext(c *gin.Context) *uint {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return nil
	}
	userID, ok := value.(uint)
	if !ok {
		return nil
	}
	return &userID
}
