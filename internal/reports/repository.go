package reports

import (
	"gorm.io/gorm"

	"github.com/sharath018/farm-irrigation-backend/internal/area"
	"github.com/sharath018/farm-irrigation-backend/internal/farm"
	"github.com/sharath018/farm-irrigation-backend/internal/watering"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// FarmsForDistribution loads report farms in distribution-list order.
func (r *Repository) FarmsForDistribution(filter ReportFilter) ([]farm.Farm, error) {
	var farms []farm.Farm
	q := r.DB.Model(&farm.Farm{})
	if filter.Area != "" {
		q = q.Where("area = ?", filter.Area)
	}
	err := q.Order("survey_number ASC").Order("created_at DESC").Find(&farms).Error
	return farms, err
}

type wateringJoinRow struct {
	watering.WateringLog
	SurveyNumber string
	Area         string
	EmployeeName string
}

// WateringVisits loads the visit log joined with farm and employee names.
func (r *Repository) WateringVisits(filter ReportFilter) ([]wateringJoinRow, error) {
	var rows []wateringJoinRow
	q := r.DB.Model(&watering.WateringLog{}).
		Select("watering_logs.*, farms.survey_number AS survey_number, farms.area AS area, users.name AS employee_name").
		Joins("JOIN farms ON farms.id = watering_logs.farm_id").
		Joins("JOIN users ON users.id = watering_logs.employee_id")

	if filter.Area != "" {
		q = q.Where("farms.area = ?", filter.Area)
	}
	if filter.FromDate != nil {
		q = q.Where("watering_logs.timestamp >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("watering_logs.timestamp <= ?", *filter.ToDate)
	}

	err := q.Order("watering_logs.timestamp DESC").Scan(&rows).Error
	return rows, err
}

// Areas loads the zones for the summary report.
func (r *Repository) Areas() ([]area.Area, error) {
	var areas []area.Area
	err := r.DB.Order("name ASC").Find(&areas).Error
	return areas, err
}

// FarmsByArea loads every farm in one zone. Used to aggregate live
// counts instead of trusting the stored counters.
func (r *Repository) FarmsByArea(areaName string) ([]farm.Farm, error) {
	var farms []farm.Farm
	err := r.DB.Where("area = ?", areaName).Find(&farms).Error
	return farms, err
}
