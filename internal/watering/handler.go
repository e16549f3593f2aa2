package watering

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sharath018/farm-irrigation-backend/config"
	"github.com/sharath018/farm-irrigation-backend/internal/farm"
	"github.com/sharath018/farm-irrigation-backend/middleware"
)

const maxPhotoBytes = 5 << 20 // 5 MB

type Handler struct {
	Service *Service
	Cfg     *config.Config
}

func NewHandler(s *Service, cfg *config.Config) *Handler {
	return &Handler{Service: s, Cfg: cfg}
}

func callerFrom(c *gin.Context) farm.Caller {
	actor, _ := middleware.GetAccessContext(c)
	return farm.Caller{ID: actor.UserID, Role: actor.Role, Area: actor.Area}
}

// savePhoto stores the uploaded visit photo and returns its public URL.
func (h *Handler) savePhoto(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A photo of the visit is required"})
		return "", false
	}
	if fileHeader.Size > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Photo must be 5MB or smaller"})
		return "", false
	}
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Only image uploads are allowed"})
		return "", false
	}

	filename := "photo-" + uuid.New().String() + filepath.Ext(fileHeader.Filename)
	if err := os.MkdirAll(h.Cfg.UploadPath, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not store photo"})
		return "", false
	}
	if err := c.SaveUploadedFile(fileHeader, filepath.Join(h.Cfg.UploadPath, filename)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not store photo"})
		return "", false
	}

	return "/uploads/" + filename, true
}

// MarkWatering handles POST /farms/:id/watering (multipart).
func (h *Handler) MarkWatering(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid farm id"})
		return
	}

	photoURL, ok := h.savePhoto(c)
	if !ok {
		return
	}

	in := MarkInput{
		Remarks:       c.PostForm("remarks"),
		CropCondition: c.PostForm("crop_condition"),
		PhotoURL:      photoURL,
		Latitude:      c.PostForm("latitude"),
		Longitude:     c.PostForm("longitude"),
	}

	f, entry, err := h.Service.Mark(c.Request.Context(), uint(id), in, callerFrom(c), middleware.GetIPFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrFarmNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Farm not found"})
		case errors.Is(err, ErrNotVisible):
			c.JSON(http.StatusForbidden, gin.H{"message": "Farm is outside your assigned area"})
		case errors.Is(err, ErrInvalidCropCondition), errors.Is(err, ErrPhotoRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Watering marked successfully",
		"farm":    farm.NewFarmView(*f),
		"log":     entry,
	})
}

// GetWateringHistory handles GET /farms/:id/watering.
func (h *Handler) GetWateringHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid farm id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	logs, total, err := h.Service.History(uint(id), page, limit, callerFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrFarmNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Farm not found"})
		case errors.Is(err, ErrNotVisible):
			c.JSON(http.StatusForbidden, gin.H{"message": "Farm is outside your assigned area"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
