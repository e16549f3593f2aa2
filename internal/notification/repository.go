package notification

import "gorm.io/gorm"

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(n *Notification) error {
	return r.DB.Create(n).Error
}

func (r *Repository) CreateBatch(items []Notification) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.Create(&items).Error
}

// ListForUser returns a page of the user's notifications, newest first.
func (r *Repository) ListForUser(userID uint, unreadOnly bool, page, limit int) ([]Notification, int64, error) {
	var items []Notification
	var total int64

	q := r.DB.Model(&Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error

	return items, total, err
}

// MarkRead flips one notification owned by the user. Returns rows updated.
func (r *Repository) MarkRead(userID, id uint) (int64, error) {
	res := r.DB.Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *Repository) MarkAllRead(userID uint) (int64, error) {
	res := r.DB.Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *Repository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
