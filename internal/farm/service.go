package farm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sharath018/farm-irrigation-backend/internal/auditlog"
	"github.com/sharath018/farm-irrigation-backend/internal/auth"
	"github.com/sharath018/farm-irrigation-backend/internal/geo"
	"github.com/sharath018/farm-irrigation-backend/utils"
)

var (
	ErrFarmNotFound        = errors.New("farm not found")
	ErrAreaNotFound        = errors.New("area not found")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrAlreadyProcessed    = errors.New("farm already processed")
	ErrReasonRequired      = errors.New("rejection reason is required")
	ErrDuplicateSurvey     = errors.New("survey number already registered")
	ErrDuplicateFarmerCode = errors.New("farmer code already registered")
	ErrMissingFields       = errors.New("missing required fields")
	ErrNotVisible          = errors.New("farm is outside your assigned area")
)

// Caller identifies who is performing an operation, extracted from the
// access token by the handler layer.
type Caller struct {
	ID   uint
	Role string
	Area string
}

func (c Caller) IsAdmin() bool { return c.Role == auth.RoleAdmin }

type CreateInput struct {
	OwnerName          string      `json:"owner_name" binding:"required"`
	FarmerPhone        string      `json:"farmer_phone" binding:"required"`
	FarmerCode         string      `json:"farmer_code" binding:"required"`
	SurveyNumber       string      `json:"survey_number" binding:"required"`
	SubSurveyNumber    string      `json:"sub_survey_number"`
	VillageName        string      `json:"village_name"`
	Taluka             string      `json:"taluka"`
	District           string      `json:"district"`
	Area               string      `json:"area"`
	FarmSize           float64     `json:"farm_size"`
	SoilType           string      `json:"soil_type"`
	CropType           string      `json:"crop_type"`
	Latitude           interface{} `json:"latitude"`
	Longitude          interface{} `json:"longitude"`
	WateringCycle      int         `json:"watering_cycle"`
	IrrigationMethod   string      `json:"irrigation_method"`
	Notes              string      `json:"notes"`
	AssignedEmployeeID *uint       `json:"assigned_employee_id"`
}

// ApproveInput carries the optional location override sent with an
// approval. A full coordinates pair wins over loose latitude/longitude.
type ApproveInput struct {
	Location  *LocationInput `json:"location"`
	Latitude  interface{}    `json:"latitude"`
	Longitude interface{}    `json:"longitude"`
}

type LocationInput struct {
	Coordinates []float64 `json:"coordinates"`
}

type ListFilters struct {
	Area           string
	ApprovalStatus string
	WateringStatus string
	Survey         string
	AssignedTo     *uint
}

// SurveyRangeResult is the distribution-list payload: the farms in a
// survey-number range plus their totals.
type SurveyRangeResult struct {
	Farms      []FarmView `json:"farms"`
	TotalFarms int        `json:"total_farms"`
	TotalArea  float64    `json:"total_area"`
}

type Service struct {
	Repo         *Repository
	AuthRepo     auth.Repository
	AuditService auditlog.Service
}

func NewService(repo *Repository, authRepo auth.Repository, auditSvc auditlog.Service) *Service {
	return &Service{Repo: repo, AuthRepo: authRepo, AuditService: auditSvc}
}

func (s *Service) buildFarm(in CreateInput, caller Caller) (*Farm, error) {
	if in.OwnerName == "" || in.FarmerPhone == "" || in.FarmerCode == "" || in.SurveyNumber == "" {
		return nil, ErrMissingFields
	}

	f := &Farm{
		OwnerName:          in.OwnerName,
		FarmerPhone:        in.FarmerPhone,
		FarmerCode:         in.FarmerCode,
		SurveyNumber:       in.SurveyNumber,
		SubSurveyNumber:    in.SubSurveyNumber,
		VillageName:        in.VillageName,
		Taluka:             in.Taluka,
		District:           in.District,
		Area:               in.Area,
		FarmSize:           in.FarmSize,
		SoilType:           in.SoilType,
		CropType:           in.CropType,
		WateringCycle:      in.WateringCycle,
		IrrigationMethod:   in.IrrigationMethod,
		Notes:              in.Notes,
		AssignedEmployeeID: in.AssignedEmployeeID,
		CreatedByID:        caller.ID,
	}
	if f.WateringCycle <= 0 {
		f.WateringCycle = 7
	}
	if f.IrrigationMethod == "" {
		f.IrrigationMethod = "drip"
	}
	f.SetCoordinates(geo.Resolve(in.Latitude, in.Longitude, nil))
	return f, nil
}

func (s *Service) classifyCreateErr(err error) error {
	switch {
	case isDuplicate(err, "survey_number"):
		return ErrDuplicateSurvey
	case isDuplicate(err, "farmer_code"):
		return ErrDuplicateFarmerCode
	default:
		return err
	}
}

// CreateFarm registers a farm directly as an admin. The farm comes up
// approved and active, and the zone label must match a known area.
func (s *Service) CreateFarm(ctx context.Context, in CreateInput, caller Caller, ip string) (*Farm, error) {
	f, err := s.buildFarm(in, caller)
	if err != nil {
		return nil, err
	}

	exists, err := s.Repo.AreaExists(f.Area)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAreaNotFound
	}

	if f.AssignedEmployeeID != nil {
		emp, err := s.AuthRepo.FindByID(*f.AssignedEmployeeID)
		if err != nil || emp.Role != auth.RoleEmployee {
			return nil, ErrEmployeeNotFound
		}
	}

	f.ApprovalStatus = ApprovalApproved
	f.Status = "active"

	if err := s.Repo.Create(f); err != nil {
		s.AuditService.LogAction(ctx, &caller.ID, nil, auditlog.ActionFarmCreated,
			map[string]interface{}{"survey_number": in.SurveyNumber, "error": err.Error()}, ip, "failure")
		return nil, s.classifyCreateErr(err)
	}

	log.Printf("✅ Farm %s created in area %s by admin %d", f.SurveyNumber, f.Area, caller.ID)
	s.AuditService.LogAction(ctx, &caller.ID, &f.ID, auditlog.ActionFarmCreated,
		map[string]interface{}{"survey_number": f.SurveyNumber, "area": f.Area}, ip, "success")

	return f, nil
}

// SubmitFarm files a farm request as a field employee. The farm lands in
// the caller's own zone, assigned to the caller, and waits for approval.
func (s *Service) SubmitFarm(ctx context.Context, in CreateInput, caller Caller, ip string) (*Farm, error) {
	in.Area = caller.Area
	f, err := s.buildFarm(in, caller)
	if err != nil {
		return nil, err
	}

	f.ApprovalStatus = ApprovalPending
	f.Status = "pending"
	f.AssignedEmployeeID = &caller.ID

	if err := s.Repo.Create(f); err != nil {
		s.AuditService.LogAction(ctx, &caller.ID, nil, auditlog.ActionFarmSubmitted,
			map[string]interface{}{"survey_number": in.SurveyNumber, "error": err.Error()}, ip, "failure")
		return nil, s.classifyCreateErr(err)
	}

	log.Printf("📨 Farm request %s submitted by employee %d", f.SurveyNumber, caller.ID)
	s.AuditService.LogAction(ctx, &caller.ID, &f.ID, auditlog.ActionFarmSubmitted,
		map[string]interface{}{"survey_number": f.SurveyNumber, "area": f.Area}, ip, "success")

	if admins, err := s.AuthRepo.FindAdminIDs(); err == nil {
		utils.PublishFarmEvent(utils.FarmEvent{
			Type:         utils.EventFarmSubmitted,
			FarmID:       f.ID,
			SurveyNumber: f.SurveyNumber,
			Message:      fmt.Sprintf("New farm request for survey %s awaits approval", f.SurveyNumber),
			Recipients:   admins,
		})
	}

	return f, nil
}

// resolveApprovalLocation picks the coordinates stored at approval time:
// an explicit coordinates pair first, then loose latitude/longitude, then
// whatever the farm already has, then the origin point.
func resolveApprovalLocation(in ApproveInput, existing []float64) []float64 {
	if in.Location != nil && len(in.Location.Coordinates) == 2 {
		return in.Location.Coordinates
	}
	if in.Latitude != nil || in.Longitude != nil {
		return geo.Resolve(in.Latitude, in.Longitude, existing)
	}
	if len(existing) == 2 {
		return existing
	}
	return geo.DefaultPoint()
}

// Approve finalizes a pending farm request. The pending check and the
// update run as one guarded statement, so two admins racing on the same
// request cannot both win.
func (s *Service) Approve(ctx context.Context, farmID uint, in ApproveInput, caller Caller, ip string) (*Farm, error) {
	f, err := s.Repo.FindByID(farmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, err
	}
	if f.ApprovalStatus != ApprovalPending {
		return nil, ErrAlreadyProcessed
	}

	coords := resolveApprovalLocation(in, f.Coordinates())
	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, err
	}

	rows, err := s.Repo.ApprovePending(farmID, caller.ID, datatypes.JSON(raw))
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlreadyProcessed
	}

	log.Printf("✅ Farm %s approved by admin %d", f.SurveyNumber, caller.ID)
	s.AuditService.LogAction(ctx, &caller.ID, &f.ID, auditlog.ActionFarmApproved,
		map[string]interface{}{"survey_number": f.SurveyNumber, "location": coords}, ip, "success")

	utils.PublishFarmEvent(utils.FarmEvent{
		Type:         utils.EventFarmApproved,
		FarmID:       f.ID,
		SurveyNumber: f.SurveyNumber,
		Message:      fmt.Sprintf("Your farm request for survey %s was approved", f.SurveyNumber),
		Recipients:   []uint{f.CreatedByID},
	})
	if creator, err := s.AuthRepo.FindByID(f.CreatedByID); err == nil {
		utils.SendFarmApprovalEmail(creator.Email, creator.Name, f.SurveyNumber)
	}

	return s.Repo.FindByID(farmID)
}

// Reject declines a pending farm request. A reason is mandatory.
func (s *Service) Reject(ctx context.Context, farmID uint, reason string, caller Caller, ip string) (*Farm, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	f, err := s.Repo.FindByID(farmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, err
	}
	if f.ApprovalStatus != ApprovalPending {
		return nil, ErrAlreadyProcessed
	}

	rows, err := s.Repo.RejectPending(farmID, caller.ID, reason)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlreadyProcessed
	}

	log.Printf("🚫 Farm %s rejected by admin %d: %s", f.SurveyNumber, caller.ID, reason)
	s.AuditService.LogAction(ctx, &caller.ID, &f.ID, auditlog.ActionFarmRejected,
		map[string]interface{}{"survey_number": f.SurveyNumber, "reason": reason}, ip, "success")

	utils.PublishFarmEvent(utils.FarmEvent{
		Type:         utils.EventFarmRejected,
		FarmID:       f.ID,
		SurveyNumber: f.SurveyNumber,
		Message:      fmt.Sprintf("Your farm request for survey %s was rejected: %s", f.SurveyNumber, reason),
		Recipients:   []uint{f.CreatedByID},
	})
	if creator, err := s.AuthRepo.FindByID(f.CreatedByID); err == nil {
		utils.SendFarmRejectionEmail(creator.Email, creator.Name, f.SurveyNumber, reason)
	}

	return s.Repo.FindByID(farmID)
}

func scopeFor(caller Caller) *EmployeeScope {
	if caller.IsAdmin() {
		return nil
	}
	return &EmployeeScope{UserID: caller.ID, Area: caller.Area}
}

// List returns the farms visible to the caller with derived watering
// fields. The watering-status filter is applied after the query since it
// depends on the current clock, not stored data.
func (s *Service) List(filters ListFilters, caller Caller) ([]FarmView, error) {
	opts := ListOptions{
		Scope:          scopeFor(caller),
		ApprovalStatus: filters.ApprovalStatus,
		SurveyContains: filters.Survey,
	}
	if caller.IsAdmin() {
		opts.Area = filters.Area
		opts.AssignedTo = filters.AssignedTo
	}

	farms, err := s.Repo.List(opts)
	if err != nil {
		return nil, err
	}

	views := make([]FarmView, 0, len(farms))
	for _, f := range farms {
		v := NewFarmView(f)
		if filters.WateringStatus != "" && v.WateringStatus != filters.WateringStatus {
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

// GetByID returns one farm if the caller may see it.
func (s *Service) GetByID(farmID uint, caller Caller) (*FarmView, error) {
	f, err := s.Repo.FindByID(farmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, err
	}

	if !caller.IsAdmin() {
		assigned := f.AssignedEmployeeID != nil && *f.AssignedEmployeeID == caller.ID
		if f.Area != caller.Area && !assigned {
			return nil, ErrNotVisible
		}
	}

	v := NewFarmView(*f)
	return &v, nil
}

// SurveyRange returns the farms whose survey number falls between start
// and end, with farm count and acreage totals for the distribution list.
func (s *Service) SurveyRange(start, end, areaFilter string, caller Caller) (*SurveyRangeResult, error) {
	if start == "" || end == "" {
		return nil, ErrMissingFields
	}

	opts := ListOptions{
		Scope:       scopeFor(caller),
		SurveyStart: start,
		SurveyEnd:   end,
	}
	if caller.IsAdmin() {
		opts.Area = areaFilter
	}

	farms, err := s.Repo.List(opts)
	if err != nil {
		return nil, err
	}

	result := &SurveyRangeResult{Farms: make([]FarmView, 0, len(farms))}
	for _, f := range farms {
		result.Farms = append(result.Farms, NewFarmView(f))
		result.TotalArea += f.FarmSize
	}
	result.TotalFarms = len(result.Farms)
	return result, nil
}

// Pending lists farm requests waiting for a decision.
func (s *Service) Pending() ([]FarmView, error) {
	farms, err := s.Repo.FindPending()
	if err != nil {
		return nil, err
	}
	views := make([]FarmView, 0, len(farms))
	for _, f := range farms {
		views = append(views, NewFarmView(f))
	}
	return views, nil
}

// UpdateLocation replaces a farm's coordinates. Invalid input falls back
// to the stored pair.
func (s *Service) UpdateLocation(ctx context.Context, farmID uint, latRaw, lngRaw interface{}, caller Caller, ip string) (*Farm, error) {
	f, err := s.Repo.FindByID(farmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, err
	}

	coords := geo.Resolve(latRaw, lngRaw, f.Coordinates())
	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateLocation(farmID, datatypes.JSON(raw)); err != nil {
		return nil, err
	}

	s.AuditService.LogAction(ctx, &caller.ID, &f.ID, auditlog.ActionFarmLocationSet,
		map[string]interface{}{"survey_number": f.SurveyNumber, "location": coords}, ip, "success")

	return s.Repo.FindByID(farmID)
}

// AssignFarms points a batch of farms at one employee.
func (s *Service) AssignFarms(ctx context.Context, employeeID uint, farmIDs []uint, caller Caller, ip string) (int64, error) {
	if len(farmIDs) == 0 {
		return 0, ErrMissingFields
	}

	emp, err := s.AuthRepo.FindByID(employeeID)
	if err != nil || emp.Role != auth.RoleEmployee {
		return 0, ErrEmployeeNotFound
	}

	updated, err := s.Repo.AssignEmployee(employeeID, farmIDs)
	if err != nil {
		return 0, err
	}

	log.Printf("👷 %d farm(s) assigned to employee %d", updated, employeeID)
	s.AuditService.LogAction(ctx, &caller.ID, nil, auditlog.ActionFarmAssigned,
		map[string]interface{}{"employee_id": employeeID, "farm_ids": farmIDs, "updated": updated}, ip, "success")

	return updated, nil
}
