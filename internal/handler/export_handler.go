package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"tillsync/internal/service"
)

// ExportHandler handles order export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export handles GET /api/v1/orders/export
func (h *ExportHandler) Export(c *gin.Context) {
	filter, ok := parseOrderFilter(c)
	if !ok {
		return
	}
	// Exports are not paginated.
	filter.Offset = 0
	filter.Limit = 0

	format := service.FormatCSV
	if c.Query("format") == "xlsx" {
		format = service.FormatXLSX
	}

	result, err := h.exportService.Export(c.Request.Context(), filter, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	if result.ArchiveURL != "" {
		c.Header("X-Archive-URL", result.ArchiveURL)
	}
	c.Data(200, result.ContentType, result.Data)
}
