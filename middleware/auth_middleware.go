package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"sitecms/api/logging"
	"sitecms/api/utils"
)

const (
	ContextAdminID    = "admin_id"
	ContextAdminEmail = "admin_email"

	tokenCookie = "jwt_token"
)

// AuthRequired admits requests carrying a valid admin JWT (cookie or
// Authorization header) or, when apiKey is set, a matching X-API-KEY.
func AuthRequired(jwtManager *utils.JWTManager, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader("X-API-KEY")), []byte(apiKey)) == 1 {
			c.Next()
			return
		}

		tokenString := requestToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
			return
		}
		claims, err := jwtManager.Validate(tokenString)
		if err != nil {
			logging.Ctx(c.Request.Context()).Info().Err(err).Msg("rejected admin token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextAdminEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth records the admin identity when a valid token is present and
// never rejects the request.
func OptionalAuth(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := requestToken(c); tokenString != "" {
			if claims, err := jwtManager.Validate(tokenString); err == nil {
				c.Set(ContextAdminID, claims.AdminID)
				c.Set(ContextAdminEmail, claims.Email)
			}
		}
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if tokenString, err := c.Cookie(tokenCookie); err == nil && tokenString != "" {
		return tokenString
	}
	return utils.BearerToken(c.GetHeader("Authorization"))
}
