package notif

import (
	"context"

	"seedling/internal/common"
	"seedling/internal/dbmysql"
)

// NotificationService reads and updates the in-app notification history.
type NotificationService struct {
	repo dbmysql.NotificationRepository
}

func NewNotificationService(repo dbmysql.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) GetUserNotifications(ctx context.Context, userID string, limit, offset int) ([]*common.NotificationResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := s.repo.ByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, common.Internal("load notifications", err)
	}

	responses := make([]*common.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = &common.NotificationResponse{
			ID:            n.ID,
			Type:          n.Type,
			Header:        n.Header,
			Content:       n.Content,
			TriggerUserID: n.TriggerUserID,
			Status:        n.Status,
			Metadata:      common.NotificationMetadata(n.Metadata),
			CreatedAt:     n.CreatedAt,
			ReadAt:        n.ReadAt,
		}
	}
	return responses, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uint64, userID string) error {
	err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if err != nil && common.KindOf(err) == common.KindInternal {
		return common.Internal("mark notification read", err)
	}
	return err
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, common.Internal("count unread notifications", err)
	}
	return count, nil
}
