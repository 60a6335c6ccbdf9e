package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

// CtxUserIDKey is the Gin context key holding the authenticated caller id.
const CtxUserIDKey = "userID"

// Auth validates the bearer access token and sets userID in the Gin context.
// Missing, malformed, badly signed and expired tokens all end in 401.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := jwt.Authenticate(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error(), nil)
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
// Any other scheme yields "".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
