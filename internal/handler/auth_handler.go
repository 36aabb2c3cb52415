package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tillsync/internal/middleware"
	"tillsync/internal/service"
)

// AuthHandler handles device pairing endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Pair handles POST /api/v1/auth/pair
func (h *AuthHandler) Pair(c *gin.Context) {
	var input service.PairInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "device_name and pairing_code are required")
		return
	}

	result, err := h.authService.Pair(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// ListDevices handles GET /api/v1/devices
func (h *AuthHandler) ListDevices(c *gin.Context) {
	devices, err := h.authService.ListDevices(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, devices)
}

// Me handles GET /api/v1/devices/me. It reports the identity of the device
// behind the current token.
func (h *AuthHandler) Me(c *gin.Context) {
	deviceID, err := middleware.GetDeviceID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"device_id":   deviceID,
		"device_name": middleware.GetDeviceName(c),
	})
}

// Revoke handles POST /api/v1/devices/:id/revoke
func (h *AuthHandler) Revoke(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid device ID")
		return
	}

	if err := h.authService.RevokeDevice(c.Request.Context(), deviceID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"revoked": true})
}
