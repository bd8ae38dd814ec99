package middleware

import (
	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/respond"
)

// Errors renders the last error a handler attached with c.Error, unless a
// response has already been written.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		respond.FromError(c, c.Errors.Last().Err)
	}
}
