package db

import (
	"github.com/pkg/errors"
	"github.com/techagentng/opsconsole/models"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetNotificationsByUserID(userID string, unreadOnly bool) ([]models.Notification, error)
	MarkNotificationRead(userID, notificationID string) (bool, error)
	CountUnreadByType(userID, notificationType string) (int64, error)
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (n *notificationRepo) CreateNotification(notification *models.Notification) error {
	if err := n.DB.Create(notification).Error; err != nil {
		return errors.Wrap(err, "gorm.create error")
	}
	return nil
}

// GetNotificationsByUserID returns the user's notifications in creation
// order; an empty slice when there are none.
func (n *notificationRepo) GetNotificationsByUserID(userID string, unreadOnly bool) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0)
	query := n.DB.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if err := query.Order("timestamp asc").Find(&notifications).Error; err != nil {
		return nil, errors.Wrap(err, "gorm.find error")
	}
	return notifications, nil
}

// MarkNotificationRead flips the notification to read. It reports false when
// the user owns no notification with that id; marking an already-read
// notification again reports true without touching the row.
func (n *notificationRepo) MarkNotificationRead(userID, notificationID string) (bool, error) {
	var notification models.Notification
	err := n.DB.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "gorm.first error")
	}

	if notification.Read {
		return true, nil
	}

	err = n.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
	if err != nil {
		return false, errors.Wrap(err, "gorm.update error")
	}
	return true, nil
}

func (n *notificationRepo) CountUnreadByType(userID, notificationType string) (int64, error) {
	var count int64
	err := n.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND read = ?", userID, notificationType, false).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "gorm.count error")
	}
	return count, nil
}
