package notification

import "time"

// Notification is an in-app message delivered to one user, produced from
// farm lifecycle events.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	FarmID    *uint     `gorm:"index" json:"farm_id,omitempty"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Message   string    `gorm:"not null" json:"message"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
