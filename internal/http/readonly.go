package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const CodeReadOnly = "read_only"

// readOnlyMiddleware blocks write operations. Reads and CORS preflight pass.
func readOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Error: "Mode lecture seule : modification impossible",
			Code:  CodeReadOnly,
		})
	}
}
