package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saitama-on/AssessmentAssist/internal/response"
	"github.com/saitama-on/AssessmentAssist/internal/service"
)

// CheckActiveSession validates the JWT's JTI against the author's active
// session in Redis. A mismatch means the session was superseded by a newer
// login or cleared by logout, and the request is rejected.
func CheckActiveSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authService.ValidateSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
