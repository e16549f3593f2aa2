package reports

import "time"

const (
	ReportTypeFarmDistribution = "farm-distribution"
	ReportTypeWateringHistory  = "watering-history"
	ReportTypeAreaSummary      = "area-summary"

	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// FarmDistributionRow is one farm in the distribution report, ordered by
// survey number the way the printed distribution lists are.
type FarmDistributionRow struct {
	ID               uint       `json:"id"`
	SurveyNumber     string     `json:"survey_number"`
	OwnerName        string     `json:"owner_name"`
	FarmerCode       string     `json:"farmer_code"`
	Area             string     `json:"area"`
	VillageName      string     `json:"village_name"`
	FarmSize         float64    `json:"farm_size"`
	CropType         string     `json:"crop_type"`
	LastWatered      *time.Time `json:"last_watered"`
	DaysSinceWatered int        `json:"days_since_watered"`
	WateringStatus   string     `json:"watering_status"`
	ApprovalStatus   string     `json:"approval_status"`
}

// WateringHistoryRow is one recorded visit in the watering report.
type WateringHistoryRow struct {
	LogID         uint      `json:"log_id"`
	SurveyNumber  string    `json:"survey_number"`
	Area          string    `json:"area"`
	EmployeeName  string    `json:"employee_name"`
	Timestamp     time.Time `json:"timestamp"`
	CropCondition string    `json:"crop_condition"`
	Remarks       string    `json:"remarks"`
	PhotoURL      string    `json:"photo_url"`
}

// AreaSummaryRow aggregates one zone for the overview report.
type AreaSummaryRow struct {
	AreaName     string  `json:"area_name"`
	Code         string  `json:"code"`
	District     string  `json:"district"`
	TotalFarms   int64   `json:"total_farms"`
	TotalAcreage float64 `json:"total_acreage"`
	OverdueFarms int64   `json:"overdue_farms"`
}

// ReportFilter narrows report rows by zone and time window.
type ReportFilter struct {
	Area     string
	FromDate *time.Time
	ToDate   *time.Time
}

// ReportData bundles the row sets an export can draw from.
type ReportData struct {
	FarmDistribution []FarmDistributionRow
	WateringHistory  []WateringHistoryRow
	AreaSummary      []AreaSummaryRow
}
