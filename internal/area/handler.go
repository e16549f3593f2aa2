package area

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

type createAreaRequest struct {
	Name        string      `json:"name"`
	Code        string      `json:"code"`
	District    string      `json:"district"`
	State       string      `json:"state"`
	Boundary    [][]float64 `json:"boundary"`
	Description string      `json:"description"`
}

func (h *Handler) CreateArea(c *gin.Context) {
	var req createAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	actor, _ := middleware.GetAccessContext(c)
	ip := middleware.GetIPFromContext(c)

	a, err := h.Service.CreateArea(CreateAreaInput(req), actor.UserID, ip)
	if err != nil {
		switch {
		case errors.Is(err, ErrAreaExists):
			c.JSON(http.StatusConflict, gin.H{"message": "Area name or code already exists"})
		case errors.Is(err, ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Area created successfully",
		"area":    a,
	})
}

func (h *Handler) GetAreas(c *gin.Context) {
	areas, err := h.Service.ListAreas()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

type assignEmployeeRequest struct {
	EmployeeID uint `json:"employeeId"`
}

func (h *Handler) AssignEmployeeToArea(c *gin.Context) {
	areaID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid area ID"})
		return
	}

	var req assignEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	actor, _ := middleware.GetAccessContext(c)
	ip := middleware.GetIPFromContext(c)

	if err := h.Service.AssignEmployee(uint(areaID), req.EmployeeID, actor.UserID, ip); err != nil {
		switch {
		case errors.Is(err, ErrAreaNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Area not found"})
		case errors.Is(err, ErrEmployeeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee assigned to area successfully"})
}

func (h *Handler) GetAreaStats(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid area ID"})
		return
	}

	stats, err := h.Service.GetAreaStats(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, ErrAreaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Area not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
