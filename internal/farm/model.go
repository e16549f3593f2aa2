package farm

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/sharath018/farm-irrigation-backend/internal/auth"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Farm is a registered parcel with its owner, location and watering state.
type Farm struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Owner details
	OwnerName   string `gorm:"not null" json:"owner_name"`
	FarmerPhone string `gorm:"not null" json:"farmer_phone"`
	FarmerCode  string `gorm:"uniqueIndex;not null" json:"farmer_code"`

	// Location details. SurveyNumber drives distribution-list ordering.
	SurveyNumber    string `gorm:"uniqueIndex;not null" json:"survey_number"`
	SubSurveyNumber string `json:"sub_survey_number,omitempty"`
	VillageName     string `json:"village_name"`
	Taluka          string `json:"taluka"`
	District        string `json:"district"`
	Area            string `gorm:"index" json:"area"` // admin-controlled zone label

	// Farm details
	FarmSize float64 `json:"farm_size"` // acres
	SoilType string  `json:"soil_type"`
	CropType string  `json:"crop_type"`

	// Location is a [lng, lat] pair, GeoJSON coordinate order.
	Location datatypes.JSON `json:"location"`

	// Watering details
	WateringCycle    int        `gorm:"default:7" json:"watering_cycle"` // days between waterings
	LastWatered      *time.Time `json:"last_watered"`
	IrrigationMethod string     `gorm:"default:'drip'" json:"irrigation_method"` // drip | sprinkler | flood | furrow

	Status string `gorm:"default:'active';index" json:"status"` // active | inactive | maintenance | pending

	// Photos and notes
	Photos       datatypes.JSON `json:"photos,omitempty"`
	LastPhotoURL string         `json:"last_photo_url,omitempty"`
	Notes        string         `json:"notes,omitempty"`

	// Assignment
	AssignedEmployeeID *uint      `gorm:"index" json:"assigned_employee_id,omitempty"`
	AssignedEmployee   *auth.User `gorm:"foreignKey:AssignedEmployeeID" json:"assigned_employee,omitempty"`
	CreatedByID        uint       `gorm:"not null" json:"created_by_id"`

	// Approval workflow: pending → approved | rejected, exactly once.
	ApprovalStatus  string     `gorm:"default:'pending';index" json:"approval_status"`
	ApprovedByID    *uint      `json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Farm) TableName() string {
	return "farms"
}

// Coordinates decodes the stored [lng, lat] pair. Returns nil when unset.
func (f *Farm) Coordinates() []float64 {
	if len(f.Location) == 0 {
		return nil
	}
	var coords []float64
	if err := json.Unmarshal(f.Location, &coords); err != nil || len(coords) != 2 {
		return nil
	}
	return coords
}

// SetCoordinates stores a [lng, lat] pair.
func (f *Farm) SetCoordinates(coords []float64) {
	raw, err := json.Marshal(coords)
	if err != nil {
		return
	}
	f.Location = datatypes.JSON(raw)
}

// PhotoURLs decodes the stored photo URL list.
func (f *Farm) PhotoURLs() []string {
	if len(f.Photos) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(f.Photos, &urls); err != nil {
		return nil
	}
	return urls
}

// AppendPhoto adds a URL to the stored photo list.
func (f *Farm) AppendPhoto(url string) {
	urls := append(f.PhotoURLs(), url)
	raw, err := json.Marshal(urls)
	if err != nil {
		return
	}
	f.Photos = datatypes.JSON(raw)
}

// FarmView is a farm plus the derived watering fields computed at read time.
type FarmView struct {
	Farm
	DaysSinceWatered int    `json:"days_since_watered"`
	WateringStatus   string `json:"watering_status"`
}

// NewFarmView derives the watering fields for one farm.
func NewFarmView(f Farm) FarmView {
	days := DaysSinceWatered(f.LastWatered)
	return FarmView{
		Farm:             f,
		DaysSinceWatered: days,
		WateringStatus:   WateringStatus(days),
	}
}
