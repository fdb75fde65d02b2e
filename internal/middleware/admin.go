package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quizdeck/internal/response"
	"github.com/stemsi/quizdeck/internal/service"
)

// HeaderAdminSecret carries the admin secret for one request.
const HeaderAdminSecret = "X-Admin-Secret"

// RequireAdminSecret lets the request through only if it carries the admin
// secret. Nothing is remembered between requests.
func RequireAdminSecret(gate *service.AdminGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.Enabled() {
			response.AbortFail(c, http.StatusForbidden, response.ErrDeleteDisabled)
			return
		}
		if !gate.Authorize(c.GetHeader(HeaderAdminSecret)) {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminSecretInvalid)
			return
		}
		c.Next()
	}
}
