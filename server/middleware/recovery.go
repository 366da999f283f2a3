package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/logger"
)

// Recovery returns a Gin middleware that recovers from panics, logs the
// stack and answers with an INTERNAL_ERROR body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithContext(c.Request.Context()).Error("panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				))
				appErr := errors.Internal(fmt.Errorf("panic: %v", rec))
				c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToResponse())
			}
		}()
		c.Next()
	}
}
