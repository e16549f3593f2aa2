package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// GetAuditLogs returns paginated audit logs, admin only.
// Query params: ?page=&limit=&action=&status=&user_id=&farm_id=&from=&to=
func (h *Handler) GetAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := AuditLogFilter{
		Action: c.Query("action"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}
	if v := c.Query("farm_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			fid := uint(id)
			filter.FarmID = &fid
		}
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.FromDate = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.ToDate = &t
		}
	}

	result, err := h.Service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid audit log ID"})
		return
	}

	entry, err := h.Service.GetAuditLogByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Audit log not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}
