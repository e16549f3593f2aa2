package watering

import (
	"time"

	"gorm.io/datatypes"

	"github.com/sharath018/farm-irrigation-backend/internal/auth"
)

// Crop condition values accepted on a watering visit.
const (
	ConditionGood   = "Good"
	ConditionMedium = "Medium"
	ConditionPoor   = "Poor"
)

func ValidCropCondition(v string) bool {
	return v == ConditionGood || v == ConditionMedium || v == ConditionPoor
}

// WateringLog is one recorded watering visit. Rows are append-only; the
// visit history is never edited after the fact.
type WateringLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FarmID     uint           `gorm:"index;not null" json:"farm_id"`
	EmployeeID uint           `gorm:"index;not null" json:"employee_id"`
	Employee   *auth.User     `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Timestamp  time.Time      `gorm:"autoCreateTime;index" json:"timestamp"`
	Remarks    string         `json:"remarks,omitempty"`
	// CropCondition is Good, Medium or Poor, recorded at the visit.
	CropCondition string `gorm:"not null" json:"crop_condition"`
	PhotoURL      string `gorm:"not null" json:"photo_url"`
	// Location is an optional [lng, lat] pair captured in the field.
	Location datatypes.JSON `json:"location,omitempty"`
}

func (WateringLog) TableName() string {
	return "watering_logs"
}
