package area

import (
	"time"

	"gorm.io/datatypes"

	"github.com/sharath018/farm-irrigation-backend/internal/auth"
)

// Area is an admin-defined geographic zone used for employee and farm assignment.
type Area struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Code     string `gorm:"uniqueIndex;not null" json:"code"`
	District string `gorm:"not null" json:"district"`
	State    string `gorm:"not null" json:"state"`

	// Boundary is an ordered ring of [lng, lat] pairs. Stored, not queried.
	Boundary    datatypes.JSON `json:"boundary,omitempty"`
	Description string         `json:"description"`

	// Aggregates incremented on farm creation. There is no decrement on farm
	// removal; the stats endpoint exposes live recomputed values alongside.
	TotalFarms int     `gorm:"default:0" json:"total_farms"`
	TotalArea  float64 `gorm:"default:0" json:"total_area"` // acres

	AssignedEmployees []auth.User `gorm:"many2many:area_employees" json:"assigned_employees,omitempty"`

	Status string `gorm:"default:'active'" json:"status"` // active | inactive

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Area) TableName() string {
	return "areas"
}

// AreaStats pairs the stored counters with values recomputed from the farms table.
type AreaStats struct {
	AreaID          uint    `json:"area_id"`
	Name            string  `json:"name"`
	TotalFarms      int     `json:"total_farms"`
	TotalArea       float64 `json:"total_area"`
	LiveFarmCount   int64   `json:"live_farm_count"`
	LiveAcreageSum  float64 `json:"live_acreage_sum"`
	AssignedMembers int     `json:"assigned_members"`
}
