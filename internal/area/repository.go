package area

import (
	"strings"

	"gorm.io/gorm"

	"github.com/sharath018/farm-irrigation-backend/internal/auth"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(a *Area) error {
	return r.DB.Create(a).Error
}

// FindActive returns active areas with their assigned employees, newest first.
func (r *Repository) FindActive() ([]Area, error) {
	var areas []Area
	err := r.DB.Where("status = ?", "active").
		Preload("AssignedEmployees").
		Order("created_at DESC").
		Find(&areas).Error
	return areas, err
}

func (r *Repository) FindByID(id uint) (*Area, error) {
	var a Area
	err := r.DB.Preload("AssignedEmployees").First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) FindByName(name string) (*Area, error) {
	var a Area
	err := r.DB.Where("name = ?", name).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) FindByNameOrCode(name, code string) (*Area, error) {
	var a Area
	err := r.DB.Where("name = ? OR code = ?", name, code).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AssignEmployee performs the dual write in one transaction: the employee joins
// the area's assignment set and the employee's area label is updated to match.
// Re-assigning an already-assigned employee is a no-op on the set.
func (r *Repository) AssignEmployee(a *Area, employee *auth.User) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&auth.User{}).
			Where("id = ?", employee.ID).
			Update("area", a.Name).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Table("area_employees").
			Where("area_id = ? AND user_id = ?", a.ID, employee.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		return tx.Exec(
			"INSERT INTO area_employees (area_id, user_id) VALUES (?, ?)",
			a.ID, employee.ID,
		).Error
	})
}

// LiveStats recomputes farm count and acreage for an area from current farm rows.
func (r *Repository) LiveStats(areaName string) (int64, float64, error) {
	var count int64
	if err := r.DB.Table("farms").Where("area = ?", areaName).Count(&count).Error; err != nil {
		return 0, 0, err
	}

	var acreage float64
	err := r.DB.Table("farms").
		Select("COALESCE(SUM(farm_size), 0)").
		Where("area = ?", areaName).
		Scan(&acreage).Error

	return count, acreage, err
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
