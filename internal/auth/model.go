package auth

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"not null" json:"name"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Role         string  `gorm:"not null;default:'employee';index" json:"role"`
	// Area is the zone label assigned by an admin; empty for admins and
	// for employees not yet assigned anywhere.
	Area       string  `gorm:"index" json:"area"`
	EmployeeID *string `gorm:"uniqueIndex" json:"employee_id,omitempty"`
	Status     string  `gorm:"default:'active'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse is the safe view of a user returned by the API.
type UserResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Area       string  `json:"area"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Area:       u.Area,
		EmployeeID: u.EmployeeID,
	}
}
