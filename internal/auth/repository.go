package auth

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(user *User) error
	FindByEmail(email string) (*User, error)
	FindByID(userID uint) (User, error)
	FindEmployees(area string, page, limit int) ([]User, int64, error)
	FindAdminIDs() ([]uint, error)
	UpdateArea(userID uint, area string) error
	CountAdmins() (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(user *User) error {
	return r.db.Create(user).Error
}

func (r *repository) FindByEmail(email string) (*User, error) {
	var u User
	err := r.db.Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *repository) FindByID(userID uint) (User, error) {
	var user User
	err := r.db.First(&user, userID).Error
	return user, err
}

// FindEmployees returns a page of employee accounts, optionally filtered by area label.
func (r *repository) FindEmployees(area string, page, limit int) ([]User, int64, error) {
	var users []User
	var total int64

	q := r.db.Model(&User{}).Where("role = ?", RoleEmployee)
	if area != "" {
		q = q.Where("area = ?", area)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error

	return users, total, err
}

func (r *repository) FindAdminIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&User{}).Where("role = ?", RoleAdmin).Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) UpdateArea(userID uint, area string) error {
	return r.db.Model(&User{}).Where("id = ?", userID).Update("area", area).Error
}

func (r *repository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error
	return count, err
}

// isDuplicate reports whether err is a unique-constraint violation on the given
// column. Works for both the Postgres driver and the sqlite driver used in tests.
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
