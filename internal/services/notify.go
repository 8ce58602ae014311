package services

import (
	"context"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/internal/realtime"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/dnachavez/ecowaste-sub001/pkg/logger"
	"github.com/dnachavez/ecowaste-sub001/pkg/utils"
)

const notificationPageSize = 50

// Emit appends a notification and pushes the user's refreshed notification
// snapshot. Returns the new notification id.
func Emit(ctx context.Context, userID string, typ models.NotificationType, title, message string, relatedID *string) (string, error) {
	n := models.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}

	err := realtime.WithRetry(writeRetries(), func() error {
		return database.DB.WithContext(ctx).Create(&n).Error
	})
	if err != nil {
		logger.Error().Err(err).Str("userId", userID).Msg("failed to emit notification")
		return "", err
	}

	utils.NotificationCount.WithLabelValues(string(typ)).Inc()
	publishNotifications(userID)
	realtime.PushToUser(userID, "notification", n)
	return n.ID, nil
}

// MarkRead flips one notification to read. Replayed clicks and unknown ids
// are silent no-ops: the read flag only ever moves false -> true, and only
// for the owning user.
func MarkRead(ctx context.Context, userID, notificationID string) error {
	err := realtime.WithRetry(writeRetries(), func() error {
		return database.DB.WithContext(ctx).Model(&models.Notification{}).
			Where("id = ? AND user_id = ? AND is_read = ?", notificationID, userID, false).
			Update("is_read", true).Error
	})
	if err != nil {
		return err
	}
	publishNotifications(userID)
	return nil
}

// MarkAllRead flips every unread notification for the user in one multi-row
// UPDATE. The statement is atomic at the store: it either lands in full or
// leaves the unread count untouched, never partially applied.
func MarkAllRead(ctx context.Context, userID string) error {
	err := realtime.WithRetry(writeRetries(), func() error {
		return database.DB.WithContext(ctx).Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Update("is_read", true).Error
	})
	if err != nil {
		return err
	}
	publishNotifications(userID)
	return nil
}

// UnreadCount is derived from the notification set on every call, never
// stored alongside it.
func UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, errors.Transport("Failed to count notifications")
	}
	return count, nil
}

// ListNotifications returns the newest notifications for the header
// dropdown, bounded.
func ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(notificationPageSize).
		Find(&notifications).Error; err != nil {
		return nil, errors.Transport("Failed to load notifications")
	}
	return notifications, nil
}

func publishNotifications(userID string) {
	if list, err := ListNotifications(context.Background(), userID); err == nil {
		realtime.Bus.Publish("notifications/"+userID, list)
	}
}
