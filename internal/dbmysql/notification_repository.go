package dbmysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seedling/internal/common"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ByID(ctx context.Context, id uint64) (*Notification, error)
	ByUserID(ctx context.Context, userID string, limit, offset int) ([]*Notification, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	MarkAsRead(ctx context.Context, id uint64, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	if notification.Status == "" {
		notification.Status = string(common.StatusPending)
	}
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ByID(ctx context.Context, id uint64) (*Notification, error) {
	var notification Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

func (r *notificationRepository) ByUserID(ctx context.Context, userID string, limit, offset int) ([]*Notification, error) {
	var notifications []*Notification

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get user notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update notification status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotificationNotFound
	}
	return nil
}

// MarkAsRead is scoped to the owner, so a foreign id looks like a missing one.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id uint64, userID string) error {
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"status":  string(common.StatusRead),
			"read_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return count, nil
}
