package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tillsync/internal/domain"
	"tillsync/internal/handler"
	"tillsync/internal/port"
	"tillsync/internal/service"
	"tillsync/mocks"
)

func TestExportHandler_Export_CSV(t *testing.T) {
	mockExport := new(mocks.MockExportService)
	h := handler.NewExportHandler(mockExport)

	result := &service.ExportResult{
		Filename:    "orders_2026-08-30.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("Order ID\n101\n"),
	}
	mockExport.On("Export", mock.Anything, mock.MatchedBy(func(f port.OrderFilter) bool {
		// Exports ignore pagination regardless of what the client sent.
		return f.Offset == 0 && f.Limit == 0 && f.Status == "processing"
	}), service.FormatCSV).Return(result, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders/export?status=processing&limit=10", nil)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="orders_2026-08-30.csv"`, w.Header().Get("Content-Disposition"))
	assert.Empty(t, w.Header().Get("X-Archive-URL"))
	assert.Equal(t, "Order ID\n101\n", w.Body.String())
	mockExport.AssertExpectations(t)
}

func TestExportHandler_Export_XLSXWithArchive(t *testing.T) {
	mockExport := new(mocks.MockExportService)
	h := handler.NewExportHandler(mockExport)

	result := &service.ExportResult{
		Filename:    "orders_2026-08-30.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        []byte{0x50, 0x4B},
		ArchiveURL:  "https://example.com/exports/orders_2026-08-30.xlsx",
	}
	mockExport.On("Export", mock.Anything, mock.Anything, service.FormatXLSX).Return(result, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders/export?format=xlsx", nil)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, result.ArchiveURL, w.Header().Get("X-Archive-URL"))
	mockExport.AssertExpectations(t)
}

func TestExportHandler_Export_Empty(t *testing.T) {
	mockExport := new(mocks.MockExportService)
	h := handler.NewExportHandler(mockExport)

	mockExport.On("Export", mock.Anything, mock.Anything, service.FormatCSV).
		Return(nil, domain.ErrExportEmpty)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders/export", nil)

	h.Export(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandler_Export_BadFilter(t *testing.T) {
	mockExport := new(mocks.MockExportService)
	h := handler.NewExportHandler(mockExport)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/orders/export?from=lastweek", nil)

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockExport.AssertNotCalled(t, "Export")
}
