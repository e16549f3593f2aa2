package auditlog

import (
	"time"
)

// Action constants recorded by the domain services.
const (
	ActionAreaCreated     = "AREA_CREATED"
	ActionAreaAssigned    = "AREA_EMPLOYEE_ASSIGNED"
	ActionFarmCreated     = "FARM_CREATED"
	ActionFarmSubmitted   = "FARM_REQUEST_SUBMITTED"
	ActionFarmApproved    = "FARM_APPROVED"
	ActionFarmRejected    = "FARM_REJECTED"
	ActionFarmAssigned    = "FARM_EMPLOYEE_ASSIGNED"
	ActionFarmLocationSet = "FARM_LOCATION_UPDATED"
	ActionWateringMarked  = "WATERING_MARKED"
	ActionEmployeeCreated = "EMPLOYEE_CREATED"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"` // nullable (e.g. failed login)
	FarmID    *uint     `gorm:"index" json:"farm_id"` // nullable (area/employee actions)
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:jsonb" json:"details"` // freeform JSON details
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Status    string    `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID   *uint
	FarmID   *uint
	Action   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

// PaginatedAuditLogs represents the paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
