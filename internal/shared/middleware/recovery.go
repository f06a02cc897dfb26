package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/shared/response"
)

// Recovery turns a handler panic into a logged 500 inside the shared
// envelope instead of a dropped connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Interface("error", err).
					Msg("Panic recovered")

				response.ErrorResponse(c, http.StatusInternalServerError,
					"SYS_INTERNAL_ERROR", "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
