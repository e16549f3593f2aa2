package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/farm-irrigation-backend/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// GetNotifications handles GET /notifications.
func (h *Handler) GetNotifications(c *gin.Context) {
	actor, _ := middleware.GetAccessContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	unreadOnly := c.Query("unread") == "true"

	items, total, err := h.Service.List(actor.UserID, unreadOnly, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": items,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUnreadCount handles GET /notifications/unread-count.
func (h *Handler) GetUnreadCount(c *gin.Context) {
	actor, _ := middleware.GetAccessContext(c)

	count, err := h.Service.UnreadCount(actor.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead handles PATCH /notifications/:id/read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	actor, _ := middleware.GetAccessContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification id"})
		return
	}

	if err := h.Service.MarkRead(actor.UserID, uint(id)); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead handles PATCH /notifications/read-all.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	actor, _ := middleware.GetAccessContext(c)

	updated, err := h.Service.MarkAllRead(actor.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}
