package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// Authenticator resolves a bearer token to a user id.
type Authenticator interface {
	Authenticate(token string) (int64, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's id for UserID.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			unauthorized(c, "not authenticated")
			return
		}

		id, err := a.Authenticate(token)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				unauthorized(c, "token expired")
				return
			}
			unauthorized(c, "could not validate credentials")
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserID returns the id stored by RequireAuth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.TokenType) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
