package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tillsync/internal/domain"
	"tillsync/internal/port"
	"tillsync/internal/service"
)

// OrderHandler handles canonical order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	filter, ok := parseOrderFilter(c)
	if !ok {
		return
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, orders, PagMeta{Total: total, Offset: filter.Offset, Limit: filter.Limit})
}

// GetByID handles GET /api/v1/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, order)
}

// MarkPrinted handles PATCH /api/v1/orders/:id/printed
func (h *OrderHandler) MarkPrinted(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req struct {
		Printed *bool `json:"printed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "printed is required")
		return
	}

	if err := h.orderService.MarkPrinted(c.Request.Context(), orderID, *req.Printed); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"printed": *req.Printed})
}

// MarkRead handles PATCH /api/v1/orders/:id/read
func (h *OrderHandler) MarkRead(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req struct {
		Read *bool `json:"read" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "read is required")
		return
	}

	if err := h.orderService.MarkRead(c.Request.Context(), orderID, *req.Read); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"read": *req.Read})
}

// Renormalize handles POST /api/v1/orders/:id/renormalize
func (h *OrderHandler) Renormalize(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Renormalize(c.Request.Context(), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, order)
}

// Sync handles POST /api/v1/sync
func (h *OrderHandler) Sync(c *gin.Context) {
	fetched, newCount, err := h.orderService.SyncNow(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"fetched": fetched, "new": newCount})
}

// Refresh handles POST /api/v1/orders/:id/refresh
func (h *OrderHandler) Refresh(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.RefreshOrder(c.Request.Context(), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, order)
}

func parseOrderID(c *gin.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return 0, false
	}
	return orderID, true
}

// parseOrderFilter reads the list query parameters. An unparseable value is
// rejected rather than silently ignored.
func parseOrderFilter(c *gin.Context) (port.OrderFilter, bool) {
	filter := port.OrderFilter{
		Status:     c.Query("status"),
		Method:     domain.OrderMethod(c.Query("method")),
		UnreadOnly: c.Query("unread") == "true",
		Offset:     0,
		Limit:      50,
	}

	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "offset must be a non-negative integer")
			return filter, false
		}
		filter.Offset = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 500")
			return filter, false
		}
		filter.Limit = n
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "from must be an RFC 3339 timestamp")
			return filter, false
		}
		filter.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "to must be an RFC 3339 timestamp")
			return filter, false
		}
		filter.To = t
	}

	return filter, true
}
