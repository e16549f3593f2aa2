package watering

import (
	"gorm.io/gorm"

	"github.com/sharath018/farm-irrigation-backend/internal/farm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// MarkWatered saves the updated farm and appends the visit log in one
// transaction, so the farm state and the history can never disagree.
func (r *Repository) MarkWatered(f *farm.Farm, entry *WateringLog) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&farm.Farm{}).Where("id = ?", f.ID).
			Updates(map[string]interface{}{
				"last_watered":   f.LastWatered,
				"last_photo_url": f.LastPhotoURL,
				"location":       f.Location,
				"photos":         f.Photos,
			}).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// History returns a page of visits for one farm, newest first.
func (r *Repository) History(farmID uint, page, limit int) ([]WateringLog, int64, error) {
	var logs []WateringLog
	var total int64

	q := r.DB.Model(&WateringLog{}).Where("farm_id = ?", farmID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Employee").
		Order("timestamp DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error

	return logs, total, err
}
