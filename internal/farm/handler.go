package farm

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

func callerFrom(c *gin.Context) Caller {
	actor, _ := middleware.GetAccessContext(c)
	return Caller{ID: actor.UserID, Role: actor.Role, Area: actor.Area}
}

func farmIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid farm id"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, ErrAreaNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Area not found"})
	case errors.Is(err, ErrEmployeeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
	case errors.Is(err, ErrDuplicateSurvey):
		c.JSON(http.StatusConflict, gin.H{"message": "Survey number already registered"})
	case errors.Is(err, ErrDuplicateFarmerCode):
		c.JSON(http.StatusConflict, gin.H{"message": "Farmer code already registered"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

// CreateFarm handles POST /admin/farms.
func (h *Handler) CreateFarm(c *gin.Context) {
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	f, err := h.Service.CreateFarm(c.Request.Context(), req, callerFrom(c), middleware.GetIPFromContext(c))
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Farm created successfully",
		"farm":    NewFarmView(*f),
	})
}

// SubmitFarmRequest handles POST /farms/request from field employees.
func (h *Handler) SubmitFarmRequest(c *gin.Context) {
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	f, err := h.Service.SubmitFarm(c.Request.Context(), req, callerFrom(c), middleware.GetIPFromContext(c))
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Farm request submitted for approval",
		"farm":    NewFarmView(*f),
	})
}

// GetFarms handles GET /farms with the optional filters. Admins see
// everything; employees see their zone plus direct assignments.
func (h *Handler) GetFarms(c *gin.Context) {
	filters := ListFilters{
		Area:           c.Query("area"),
		ApprovalStatus: c.Query("approval_status"),
		WateringStatus: c.Query("status"),
		Survey:         c.Query("survey"),
	}
	if raw := c.Query("assigned_to"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			v := uint(id)
			filters.AssignedTo = &v
		}
	}

	farms, err := h.Service.List(filters, callerFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"farms": farms,
		"count": len(farms),
	})
}

// GetFarm handles GET /farms/:id.
func (h *Handler) GetFarm(c *gin.Context) {
	id, ok := farmIDParam(c)
	if !ok {
		return
	}

	f, err := h.Service.GetByID(id, callerFrom(c))
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

	c.JSON(http.StatusOK, gin.H{"farm": f})
}

// GetFarmsBySurveyRange handles GET /farms/survey-range?start=..&end=..
func (h *Handler) GetFarmsBySurveyRange(c *gin.Context) {
	result, err := h.Service.SurveyRange(c.Query("start"), c.Query("end"), c.Query("area"), callerFrom(c))
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "start and end survey numbers are required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPendingFarms handles GET /admin/farms/pending.
func (h *Handler) GetPendingFarms(c *gin.Context) {
	farms, err := h.Service.Pending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"farms": farms,
		"count": len(farms),
	})
}

// ApproveFarm handles PATCH /admin/farms/:id/approve.
func (h *Handler) ApproveFarm(c *gin.Context) {
	id, ok := farmIDParam(c)
	if !ok {
		return
	}

	var req ApproveInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
			return
		}
	}

	f, err := h.Service.Approve(c.Request.Context(), id, req, callerFrom(c), middleware.GetIPFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrFarmNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Farm not found"})
		case errors.Is(err, ErrAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"message": "Farm already processed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Farm approved successfully",
		"farm":    NewFarmView(*f),
	})
}

// RejectFarm handles PATCH /admin/farms/:id/reject.
func (h *Handler) RejectFarm(c *gin.Context) {
	id, ok := farmIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	f, err := h.Service.Reject(c.Request.Context(), id, req.Reason, callerFrom(c), middleware.GetIPFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrReasonRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Rejection reason is required"})
		case errors.Is(err, ErrFarmNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Farm not found"})
		case errors.Is(err, ErrAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"message": "Farm already processed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Farm rejected",
		"farm":    NewFarmView(*f),
	})
}

// UpdateFarmLocation handles PATCH /admin/farms/:id/location.
func (h *Handler) UpdateFarmLocation(c *gin.Context) {
	id, ok := farmIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Latitude  interface{} `json:"latitude"`
		Longitude interface{} `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	f, err := h.Service.UpdateLocation(c.Request.Context(), id, req.Latitude, req.Longitude, callerFrom(c), middleware.GetIPFromContext(c))
	if err != nil {
		if errors.Is(err, ErrFarmNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Farm not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Farm location updated",
		"farm":    NewFarmView(*f),
	})
}

// AssignEmployeeToFarms handles POST /admin/farms/assign.
func (h *Handler) AssignEmployeeToFarms(c *gin.Context) {
	var req struct {
		EmployeeID uint   `json:"employee_id" binding:"required"`
		FarmIDs    []uint `json:"farm_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	updated, err := h.Service.AssignFarms(c.Request.Context(), req.EmployeeID, req.FarmIDs, callerFrom(c), middleware.GetIPFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrEmployeeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
		case errors.Is(err, ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"message": "farm_ids must not be empty"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Farms assigned successfully",
		"updated_farms": updated,
	})
}
