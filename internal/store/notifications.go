package store

import (
	"context"

	"github.com/issacasimov/labstore/internal/domain"
)

// AddNotification appends a notification to the document.
func (s *Store) AddNotification(ctx context.Context, notification domain.Notification) error {
	return s.mutate(ctx, "add_notification", func(doc *domain.SystemData) error {
		doc.Notifications = append(doc.Notifications, notification)
		return nil
	})
}

// Notify creates and stores a fresh unread notification for the user.
func (s *Store) Notify(ctx context.Context, userID, title, message string) (domain.Notification, error) {
	notification := domain.NewNotification(s.ids.NewID("notif"), userID, title, message, s.clock.Now())
	if err := s.AddNotification(ctx, notification); err != nil {
		return domain.Notification{}, err
	}
	return notification, nil
}

// MarkNotificationRead marks a notification as read. An unknown id is a
// silent no-op.
func (s *Store) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return s.mutate(ctx, "mark_notification_read", func(doc *domain.SystemData) error {
		for i := range doc.Notifications {
			if doc.Notifications[i].ID == notificationID {
				doc.Notifications[i].Read = true
				return nil
			}
		}
		return errSkipSave
	})
}

// Notifications returns all notifications in the current document.
func (s *Store) Notifications(ctx context.Context) []domain.Notification {
	return s.Load(ctx).Notifications
}

// UserNotifications returns the notifications addressed to the given user.
func (s *Store) UserNotifications(ctx context.Context, userID string) []domain.Notification {
	var out []domain.Notification
	for _, n := range s.Load(ctx).Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
