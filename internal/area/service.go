package area

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sharath018/farm-irrigation-backend/internal/auditlog"
	"github.com/sharath018/farm-irrigation-backend/internal/auth"
	"github.com/sharath018/farm-irrigation-backend/utils"
)

var (
	ErrAreaExists       = errors.New("area name or code already exists")
	ErrAreaNotFound     = errors.New("area not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrMissingFields    = errors.New("area name, code, district and state are required")
)

type Service struct {
	Repo         *Repository
	AuthRepo     auth.Repository
	AuditService auditlog.Service
}

func NewService(r *Repository, authRepo auth.Repository, as auditlog.Service) *Service {
	return &Service{
		Repo:         r,
		AuthRepo:     authRepo,
		AuditService: as,
	}
}

type CreateAreaInput struct {
	Name        string
	Code        string
	District    string
	State       string
	Boundary    [][]float64
	Description string
}

// CreateArea registers a new geographic zone with unique name and code.
func (s *Service) CreateArea(in CreateAreaInput, actorID uint, ip string) (*Area, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	in.District = strings.TrimSpace(in.District)
	in.State = strings.TrimSpace(in.State)

	if in.Name == "" || in.Code == "" || in.District == "" || in.State == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.Repo.FindByNameOrCode(in.Name, in.Code); err == nil {
		return nil, ErrAreaExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	a := &Area{
		Name:        in.Name,
		Code:        in.Code,
		District:    in.District,
		State:       in.State,
		Description: strings.TrimSpace(in.Description),
		Status:      "active",
	}

	if len(in.Boundary) > 0 {
		raw, err := json.Marshal(in.Boundary)
		if err != nil {
			return nil, err
		}
		a.Boundary = datatypes.JSON(raw)
	}

	if err := s.Repo.Create(a); err != nil {
		if isDuplicate(err, "name") || isDuplicate(err, "code") {
			return nil, ErrAreaExists
		}
		s.AuditService.LogAction(context.Background(), &actorID, nil, auditlog.ActionAreaCreated,
			map[string]interface{}{"area_name": in.Name, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.AuditService.LogAction(context.Background(), &actorID, nil, auditlog.ActionAreaCreated,
		map[string]interface{}{
			"area_id":   a.ID,
			"area_name": a.Name,
			"area_code": a.Code,
			"district":  a.District,
			"state":     a.State,
		}, ip, "success")

	return a, nil
}

func (s *Service) ListAreas() ([]Area, error) {
	return s.Repo.FindActive()
}

// AssignEmployee attaches an employee to an area. Both sides of the
// assignment (the area's set and the user's area label) are written in one
// transaction so the farm visibility rules cannot observe a half-done state.
func (s *Service) AssignEmployee(areaID, employeeID, actorID uint, ip string) error {
	a, err := s.Repo.FindByID(areaID)
	if err != nil {
		return ErrAreaNotFound
	}

	employee, err := s.AuthRepo.FindByID(employeeID)
	if err != nil || employee.Role != auth.RoleEmployee {
		return ErrEmployeeNotFound
	}

	if err := s.Repo.AssignEmployee(a, &employee); err != nil {
		s.AuditService.LogAction(context.Background(), &actorID, nil, auditlog.ActionAreaAssigned,
			map[string]interface{}{
				"area_id":     areaID,
				"employee_id": employeeID,
				"error":       err.Error(),
			}, ip, "failure")
		return err
	}

	s.AuditService.LogAction(context.Background(), &actorID, nil, auditlog.ActionAreaAssigned,
		map[string]interface{}{
			"area_id":       areaID,
			"area_name":     a.Name,
			"employee_id":   employeeID,
			"employee_name": employee.Name,
		}, ip, "success")

	return nil
}

const statsCacheTTL = 60 * time.Second

// GetAreaStats returns the stored counters plus live recomputed values.
// Cached briefly in Redis since the live recompute scans the farms table.
func (s *Service) GetAreaStats(ctx context.Context, areaID uint) (*AreaStats, error) {
	cacheKey := "area_stats:" + strconv.FormatUint(uint64(areaID), 10)
	if cached, err := utils.CacheGet(ctx, cacheKey); err == nil {
		var stats AreaStats
		if json.Unmarshal(cached, &stats) == nil {
			return &stats, nil
		}
	}

	a, err := s.Repo.FindByID(areaID)
	if err != nil {
		return nil, ErrAreaNotFound
	}

	liveCount, liveAcreage, err := s.Repo.LiveStats(a.Name)
	if err != nil {
		return nil, err
	}

	stats := &AreaStats{
		AreaID:          a.ID,
		Name:            a.Name,
		TotalFarms:      a.TotalFarms,
		TotalArea:       a.TotalArea,
		LiveFarmCount:   liveCount,
		LiveAcreageSum:  liveAcreage,
		AssignedMembers: len(a.AssignedEmployees),
	}

	if payload, err := json.Marshal(stats); err == nil {
		utils.CacheSet(ctx, cacheKey, payload, statsCacheTTL)
	}

	return stats, nil
}
