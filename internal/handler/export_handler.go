package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/courseboard/courseboard-api/internal/service"
	"github.com/courseboard/courseboard-api/pkg/response"
)

// ExportHandler serves roster export downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Roster godoc
// @Summary Export a course roster
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Param format query string false "csv or pdf"
// @Success 200
// @Router /courses/{id}/roster/export [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	result, err := h.exports.RenderRoster(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Content)
}
