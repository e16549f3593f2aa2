package notification

import (
	"errors"

	"github.com/sharath018/farm-irrigation-backend/utils"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Service struct {
	Repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{Repo: repo}
}

// Deliver fans one farm event out into per-recipient rows.
func (s *Service) Deliver(evt utils.FarmEvent) error {
	if len(evt.Recipients) == 0 {
		return nil
	}

	items := make([]Notification, 0, len(evt.Recipients))
	for _, userID := range evt.Recipients {
		farmID := evt.FarmID
		items = append(items, Notification{
			UserID:  userID,
			FarmID:  &farmID,
			Type:    evt.Type,
			Message: evt.Message,
		})
	}
	return s.Repo.CreateBatch(items)
}

func (s *Service) List(userID uint, unreadOnly bool, page, limit int) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.Repo.ListForUser(userID, unreadOnly, page, limit)
}

func (s *Service) MarkRead(userID, id uint) error {
	rows, err := s.Repo.MarkRead(userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(userID uint) (int64, error) {
	return s.Repo.MarkAllRead(userID)
}

func (s *Service) UnreadCount(userID uint) (int64, error) {
	return s.Repo.CountUnread(userID)
}
