package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sharath018/farm-irrigation-backend/config"
	"github.com/sharath018/farm-irrigation-backend/internal/auth"
	"github.com/sharath018/farm-irrigation-backend/utils"
)

// AccessContext is the resolved caller identity handed to the domain services.
// Role scoping in the farm queries keys off Role and Area.
type AccessContext struct {
	UserID uint
	Role   string
	Area   string
}

func (a AccessContext) IsAdmin() bool {
	return a.Role == auth.RoleAdmin
}

// GetAccessContext pulls the caller identity set by AuthMiddleware.
func GetAccessContext(c *gin.Context) (AccessContext, bool) {
	v, ok := c.Get("access_context")
	if !ok {
		return AccessContext{}, false
	}
	ctx, ok := v.(AccessContext)
	return ctx, ok
}

// AuthMiddleware handles JWT authentication and sets up the access context
func AuthMiddleware(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid Authorization header"})
			return
		}

		tokenStr := parts[1]

		if utils.IsTokenBlacklisted(c.Request.Context(), tokenStr) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token has been logged out"})
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTAccessSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid claims"})
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "user_id missing in token"})
			return
		}

		// Load the user fresh so a changed area assignment takes effect
		// without waiting for the token to rotate.
		user, err := authSvc.GetUserByID(uint(userIDFloat))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "user not found"})
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("access_context", AccessContext{
			UserID: user.ID,
			Role:   user.Role,
			Area:   user.Area,
		})

		c.Next()
	}
}
