package watering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sharath018/farm-irrigation-backend/internal/auditlog"
	"github.com/sharath018/farm-irrigation-backend/internal/auth"
	"github.com/sharath018/farm-irrigation-backend/internal/farm"
	"github.com/sharath018/farm-irrigation-backend/internal/geo"
	"github.com/sharath018/farm-irrigation-backend/utils"
)

var (
	ErrFarmNotFound         = errors.New("farm not found")
	ErrNotVisible           = errors.New("farm is outside your assigned area")
	ErrPhotoRequired        = errors.New("a photo of the visit is required")
	ErrInvalidCropCondition = errors.New("crop condition must be Good, Medium or Poor")
)

// MarkInput carries one watering visit. PhotoURL is set by the handler
// after the upload is stored.
type MarkInput struct {
	Remarks       string
	CropCondition string
	PhotoURL      string
	Latitude      interface{}
	Longitude     interface{}
}

type Service struct {
	Repo         *Repository
	FarmRepo     *farm.Repository
	AuthRepo     auth.Repository
	AuditService auditlog.Service
}

func NewService(repo *Repository, farmRepo *farm.Repository, authRepo auth.Repository, auditSvc auditlog.Service) *Service {
	return &Service{Repo: repo, FarmRepo: farmRepo, AuthRepo: authRepo, AuditService: auditSvc}
}

// Mark records a watering visit: the farm's watering state advances and
// an immutable log row is appended, atomically.
func (s *Service) Mark(ctx context.Context, farmID uint, in MarkInput, caller farm.Caller, ip string) (*farm.Farm, *WateringLog, error) {
	if in.PhotoURL == "" {
		return nil, nil, ErrPhotoRequired
	}
	if !ValidCropCondition(in.CropCondition) {
		return nil, nil, ErrInvalidCropCondition
	}

	f, err := s.FarmRepo.FindByID(farmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFarmNotFound
		}
		return nil, nil, err
	}

	if !caller.IsAdmin() {
		assigned := f.AssignedEmployeeID != nil && *f.AssignedEmployeeID == caller.ID
		if f.Area != caller.Area && !assigned {
			return nil, nil, ErrNotVisible
		}
	}

	now := time.Now()
	f.LastWatered = &now
	f.LastPhotoURL = in.PhotoURL
	f.AppendPhoto(in.PhotoURL)

	entry := &WateringLog{
		FarmID:        f.ID,
		EmployeeID:    caller.ID,
		Remarks:       in.Remarks,
		CropCondition: in.CropCondition,
		PhotoURL:      in.PhotoURL,
	}

	// A valid field-captured pair moves the farm pin; a bad pair is
	// dropped silently and the stored coordinates stand.
	if pair, ok := geo.ParsePair(in.Latitude, in.Longitude); ok {
		f.SetCoordinates(pair)
		if raw, err := json.Marshal(pair); err == nil {
			entry.Location = datatypes.JSON(raw)
		}
	}

	if err := s.Repo.MarkWatered(f, entry); err != nil {
		return nil, nil, err
	}

	log.Printf("💧 Watering marked for farm %s by employee %d (%s)", f.SurveyNumber, caller.ID, in.CropCondition)
	s.AuditService.LogAction(ctx, &caller.ID, &f.ID, auditlog.ActionWateringMarked,
		map[string]interface{}{"survey_number": f.SurveyNumber, "crop_condition": in.CropCondition}, ip, "success")

	if admins, err := s.AuthRepo.FindAdminIDs(); err == nil {
		utils.PublishFarmEvent(utils.FarmEvent{
			Type:         utils.EventWateringMarked,
			FarmID:       f.ID,
			SurveyNumber: f.SurveyNumber,
			Message:      fmt.Sprintf("Farm %s was watered, crop condition %s", f.SurveyNumber, in.CropCondition),
			Recipients:   admins,
		})
	}

	updated, err := s.FarmRepo.FindByID(farmID)
	if err != nil {
		return f, entry, nil
	}
	return updated, entry, nil
}

// History returns the visit log for a farm the caller may see.
func (s *Service) History(farmID uint, page, limit int, caller farm.Caller) ([]WateringLog, int64, error) {
	f, err := s.FarmRepo.FindByID(farmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrFarmNotFound
		}
		return nil, 0, err
	}

	if !caller.IsAdmin() {
		assigned := f.AssignedEmployeeID != nil && *f.AssignedEmployeeID == caller.ID
		if f.Area != caller.Area && !assigned {
			return nil, 0, ErrNotVisible
		}
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.Repo.History(farmID, page, limit)
}
