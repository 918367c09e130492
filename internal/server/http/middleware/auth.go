package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/catering/internal/domain/model"
	pkgAuth "github.com/polkiloo/catering/internal/pkg/auth"
	"github.com/polkiloo/catering/internal/server/http/dto"
)

const (
	// IdentityContextKey is a gin context key for the authenticated caller.
	IdentityContextKey = "identity"
	authCookieName     = "catering_token"
)

// TokenParser turns a bearer token into the caller identity.
type TokenParser interface {
	ParseToken(token string) (model.Identity, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		identity, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abortUnauthorized(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "INTERNAL", Message: "internal error"})
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// OperatorOnly rejects callers that are not employees or admins.
// It must run after AuthRequired.
func OperatorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			abortUnauthorized(c)
			return
		}
		if !identity.IsOperator() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "FORBIDDEN", Message: "operators only"})
			return
		}
		c.Next()
	}
}

// Identity returns the caller stored by AuthRequired.
func Identity(c *gin.Context) (model.Identity, bool) {
	val, ok := c.Get(IdentityContextKey)
	if !ok {
		return model.Identity{}, false
	}
	identity, ok := val.(model.Identity)
	return identity, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "UNAUTHORIZED", Message: "authentication required"})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}
