package middleware

import (
	"net/http"
	"strings"

	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - проверка Bearer-токена; кладет user_id и роль в контекст
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authorization header missing or invalid",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseAccessToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired token",
			})
			return
		}

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.UserRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware - как AuthMiddleware, но без токена пропускает дальше.
// Нужен публичным маршрутам, которые обогащают ответ для залогиненных.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			if claims, err := auth.ParseAccessToken(strings.TrimPrefix(authHeader, "Bearer ")); err == nil {
				ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
				c.Request = c.Request.WithContext(ctx)
				c.Set(contextkeys.UserIDKey, claims.UserID)
				c.Set(contextkeys.UserRoleKey, claims.Role)
			}
		}
		c.Next()
	}
}

// RoleFromContext достает роль, положенную AuthMiddleware
func RoleFromContext(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get(contextkeys.UserRoleKey)
	if !exists {
		return "", false
	}
	role, ok := roleVal.(models.UserRole)
	if !ok {
		roleStr, isString := roleVal.(string)
		if !isString {
			return "", false
		}
		role = models.UserRole(roleStr)
	}
	return role, true
}

// RequireRoles пропускает только перечисленные роли
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)
		if !ok || !roleSet[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: insufficient role",
			})
			return
		}
		c.Next()
	}
}

// RequirePermission сверяется с таблицей возможностей ролей
func RequirePermission(permission auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)
		if !ok || !auth.HasPermission(role, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return ""
	}
	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}
