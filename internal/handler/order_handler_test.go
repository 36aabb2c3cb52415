package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tillsync/internal/domain"
	"tillsync/internal/handler"
	"tillsync/internal/port"
	"tillsync/mocks"
)

func testOrder(orderID int64) *domain.CanonicalOrder {
	return &domain.CanonicalOrder{
		OrderID:  orderID,
		Number:   "1001",
		Status:   "processing",
		Method:   domain.MethodPickup,
		Subtotal: decimal.RequireFromString("20.00"),
		Total:    decimal.RequireFromString("21.60"),
		PlacedAt: time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC),
	}
}

func TestOrderHandler_List_Defaults(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	mockOrders.On("ListOrders", mock.Anything, mock.MatchedBy(func(f port.OrderFilter) bool {
		return f.Offset == 0 && f.Limit == 50 && !f.UnreadOnly
	})).Return([]domain.CanonicalOrder{*testOrder(1)}, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Meta.Total)
	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_List_ParsesFilter(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mockOrders.On("ListOrders", mock.Anything, mock.MatchedBy(func(f port.OrderFilter) bool {
		return f.Status == "processing" &&
			f.Method == domain.MethodDelivery &&
			f.UnreadOnly &&
			f.Offset == 10 &&
			f.Limit == 25 &&
			f.From.Equal(from)
	})).Return([]domain.CanonicalOrder{}, 0, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet,
		"/api/v1/orders?status=processing&method=delivery&unread=true&offset=10&limit=25&from=2026-08-01T00:00:00Z", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_List_RejectsBadLimit(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders?limit=5000", nil)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockOrders.AssertNotCalled(t, "ListOrders")
}

func TestOrderHandler_List_RejectsBadTimestamp(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders?from=yesterday", nil)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockOrders.AssertNotCalled(t, "ListOrders")
}

func TestOrderHandler_GetByID_Success(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	mockOrders.On("GetOrder", mock.Anything, int64(42)).Return(testOrder(42), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders/42", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_GetByID_NotFound(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	mockOrders.On("GetOrder", mock.Anything, int64(404)).Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders/404", nil)
	c.Params = gin.Params{{Key: "id", Value: "404"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp handler.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestOrderHandler_GetByID_InvalidID(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockOrders.AssertNotCalled(t, "GetOrder")
}

func TestOrderHandler_MarkPrinted_Success(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	mockOrders.On("MarkPrinted", mock.Anything, int64(42), true).Return(nil)

	body, _ := json.Marshal(map[string]bool{"printed": true})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPatch, "/api/v1/orders/42/printed", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.MarkPrinted(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_MarkPrinted_AcceptsFalse(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	mockOrders.On("MarkPrinted", mock.Anything, int64(42), false).Return(nil)

	body, _ := json.Marshal(map[string]bool{"printed": false})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPatch, "/api/v1/orders/42/printed", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.MarkPrinted(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_MarkPrinted_MissingBody(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPatch, "/api/v1/orders/42/printed", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.MarkPrinted(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockOrders.AssertNotCalled(t, "MarkPrinted")
}

func TestOrderHandler_MarkRead_Success(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	mockOrders.On("MarkRead", mock.Anything, int64(42), true).Return(nil)

	body, _ := json.Marshal(map[string]bool{"read": true})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPatch, "/api/v1/orders/42/read", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.MarkRead(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_Renormalize_Success(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	mockOrders.On("Renormalize", mock.Anything, int64(42)).Return(testOrder(42), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/orders/42/renormalize", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.Renormalize(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_Sync_Success(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	mockOrders.On("SyncNow", mock.Anything).Return(5, 2, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/sync", nil)

	h.Sync(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fetched":5`)
	assert.Contains(t, w.Body.String(), `"new":2`)
	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_Refresh_Success(t *testing.T) {
	mockOrders := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockOrders)

	mockOrders.On("RefreshOrder", mock.Anything, int64(42)).Return(testOrder(42), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/orders/42/refresh", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.Refresh(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOrders.AssertExpectations(t)
}
