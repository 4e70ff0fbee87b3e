package notification

import "gorm.io/gorm"

// NotificationRepository defines database operations for notifications.
type NotificationRepository interface {
	Create(n *Notification) error
	ExistsByRelated(relatedID, notificationType string) (bool, error)
	GetByReceiver(receiverID uint, page, limit int) ([]Notification, int64, error)
	MarkRead(id, receiverID uint) (bool, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *Notification) error {
	return r.db.Create(n).Error
}

// ExistsByRelated reports whether a notification of the given type already
// references relatedID. The reaper queries this before inserting a reminder.
func (r *notificationRepository) ExistsByRelated(relatedID, notificationType string) (bool, error) {
	var count int64
	err := r.db.Model(&Notification{}).
		Where("related_id = ? AND type = ?", relatedID, notificationType).
		Count(&count).Error
	return count > 0, err
}

func (r *notificationRepository) GetByReceiver(receiverID uint, page, limit int) ([]Notification, int64, error) {
	var notifications []Notification
	var totalCount int64

	offset := (page - 1) * limit

	query := r.db.Model(&Notification{}).Where("receiver_id = ?", receiverID)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, totalCount, nil
}

func (r *notificationRepository) MarkRead(id, receiverID uint) (bool, error) {
	res := r.db.Model(&Notification{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}
