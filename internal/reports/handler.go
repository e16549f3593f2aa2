package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// DownloadReport handles GET /admin/reports/:type?format=csv|excel|pdf.
func (h *Handler) DownloadReport(c *gin.Context) {
	reportType := c.Param("type")
	format := c.DefaultQuery("format", FormatCSV)

	filter := ReportFilter{
		Area:     c.Query("area"),
		FromDate: parseDate(c.Query("from")),
		ToDate:   parseDate(c.Query("to")),
	}

	data, filename, contentType, err := h.Service.Generate(reportType, format, filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
