package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tillsync/internal/domain"
	"tillsync/internal/service"
)

const (
	ContextKeyDeviceID   = "device_id"
	ContextKeyDeviceName = "device_name"
	ContextKeyClaims     = "claims"
)

// AuthMiddleware returns Gin middleware that validates device tokens and
// injects device context. A revoked device is rejected even while its token
// is still unexpired.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrDeviceRevoked) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"error":   gin.H{"code": "DEVICE_REVOKED", "message": "this device has been revoked"},
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeyDeviceID, claims.DeviceID)
		c.Set(ContextKeyDeviceName, claims.DeviceName)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetDeviceID extracts the device ID from the Gin context.
func GetDeviceID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(ContextKeyDeviceID)
	if !exists {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return val.(uuid.UUID), nil
}

// GetDeviceName extracts the device name from the Gin context.
func GetDeviceName(c *gin.Context) string {
	val, exists := c.Get(ContextKeyDeviceName)
	if !exists {
		return ""
	}
	return val.(string)
}
