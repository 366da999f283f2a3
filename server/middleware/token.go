package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicenotes/errors"
)

// AuthConfig configures the shared-token middleware.
type AuthConfig struct {
	// Token is the expected bearer token.
	Token string
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
	// QueryParam, when set, is accepted in place of the Authorization header.
	// Browsers cannot set headers on an EventSource.
	QueryParam string
}

// TokenAuth returns a Gin middleware that requires "Authorization: Bearer
// <token>" on every request outside SkipPaths.
func TokenAuth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.QueryParam == "" {
		cfg.QueryParam = "token"
	}
	expected := []byte(cfg.Token)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		token, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			token = c.Query(cfg.QueryParam)
		}
		if token == "" {
			abort(c, errors.Unauthorized("Authorization header required"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			abort(c, errors.Unauthorized("Invalid token"))
			return
		}
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func abort(c *gin.Context, appErr *errors.AppError) {
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, appErr.ToResponse())
}
