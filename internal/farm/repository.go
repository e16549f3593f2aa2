package farm

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sharath018/farm-irrigation-backend/internal/area"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// EmployeeScope restricts listings to an employee's zone plus farms
// assigned to them directly.
type EmployeeScope struct {
	UserID uint
	Area   string
}

// ListOptions are the supported listing filters. Zero values are ignored.
type ListOptions struct {
	Scope          *EmployeeScope // nil means unrestricted (admin)
	Area           string
	ApprovalStatus string
	AssignedTo     *uint
	SurveyContains string
	SurveyStart    string
	SurveyEnd      string
}

func (r *Repository) scoped(q *gorm.DB, opts ListOptions) *gorm.DB {
	if opts.Scope != nil {
		q = q.Where(
			r.DB.Where("area = ?", opts.Scope.Area).
				Or("assigned_employee_id = ?", opts.Scope.UserID),
		)
	}
	if opts.Area != "" {
		q = q.Where("area = ?", opts.Area)
	}
	if opts.ApprovalStatus != "" {
		q = q.Where("approval_status = ?", opts.ApprovalStatus)
	}
	if opts.AssignedTo != nil {
		q = q.Where("assigned_employee_id = ?", *opts.AssignedTo)
	}
	if opts.SurveyContains != "" {
		pattern := "%" + strings.ToLower(opts.SurveyContains) + "%"
		q = q.Where("LOWER(survey_number) LIKE ?", pattern)
	}
	if opts.SurveyStart != "" {
		q = q.Where("survey_number >= ?", opts.SurveyStart)
	}
	if opts.SurveyEnd != "" {
		q = q.Where("survey_number <= ?", opts.SurveyEnd)
	}
	return q
}

// List returns farms matching the filters, ordered by survey number then
// newest first within a survey number.
func (r *Repository) List(opts ListOptions) ([]Farm, error) {
	var farms []Farm
	q := r.scoped(r.DB.Model(&Farm{}), opts)
	err := q.Preload("AssignedEmployee").
		Order("survey_number ASC").
		Order("created_at DESC").
		Find(&farms).Error
	return farms, err
}

func (r *Repository) FindByID(id uint) (*Farm, error) {
	var f Farm
	if err := r.DB.Preload("AssignedEmployee").First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repository) FindPending() ([]Farm, error) {
	var farms []Farm
	err := r.DB.Where("approval_status = ?", ApprovalPending).
		Preload("AssignedEmployee").
		Order("created_at DESC").
		Find(&farms).Error
	return farms, err
}

// Create inserts the farm and bumps the owning area's aggregates in the
// same transaction. A missing area row is not an error here; the caller
// decides whether the zone label must exist.
func (r *Repository) Create(f *Farm) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(f).Error; err != nil {
			return err
		}
		if f.Area == "" {
			return nil
		}
		return tx.Model(&area.Area{}).
			Where("name = ?", f.Area).
			UpdateColumns(map[string]interface{}{
				"total_farms": gorm.Expr("total_farms + 1"),
				"total_area":  gorm.Expr("total_area + ?", f.FarmSize),
			}).Error
	})
}

// ApprovePending applies the approval fields only while the farm is still
// pending. Returns the number of rows updated; zero means the request was
// already processed by someone else.
func (r *Repository) ApprovePending(id uint, approverID uint, location datatypes.JSON) (int64, error) {
	now := time.Now()
	res := r.DB.Model(&Farm{}).
		Where("id = ? AND approval_status = ?", id, ApprovalPending).
		Updates(map[string]interface{}{
			"approval_status": ApprovalApproved,
			"status":          "active",
			"approved_by_id":  approverID,
			"approved_at":     now,
			"location":        location,
		})
	return res.RowsAffected, res.Error
}

// RejectPending mirrors ApprovePending for the rejection branch.
func (r *Repository) RejectPending(id uint, approverID uint, reason string) (int64, error) {
	now := time.Now()
	res := r.DB.Model(&Farm{}).
		Where("id = ? AND approval_status = ?", id, ApprovalPending).
		Updates(map[string]interface{}{
			"approval_status":  ApprovalRejected,
			"approved_by_id":   approverID,
			"approved_at":      now,
			"rejection_reason": reason,
		})
	return res.RowsAffected, res.Error
}

func (r *Repository) UpdateLocation(id uint, location datatypes.JSON) error {
	return r.DB.Model(&Farm{}).Where("id = ?", id).
		Update("location", location).Error
}

// AssignEmployee points the given farms at one employee. Returns how many
// farms were actually updated.
func (r *Repository) AssignEmployee(employeeID uint, farmIDs []uint) (int64, error) {
	res := r.DB.Model(&Farm{}).
		Where("id IN ?", farmIDs).
		Update("assigned_employee_id", employeeID)
	return res.RowsAffected, res.Error
}

func (r *Repository) AreaExists(name string) (bool, error) {
	var count int64
	err := r.DB.Model(&area.Area{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *Repository) Save(f *Farm) error {
	return r.DB.Save(f).Error
}

func isDuplicate(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "UNIQUE constraint") {
		return false
	}
	return strings.Contains(msg, column)
}
