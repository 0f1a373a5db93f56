package database

import (
	"fmt"
)

type NotificationRepo struct {
	db *DB
}

var _ NotificationRepository = (*NotificationRepo)(nil)

func NewNotificationRepository(db *DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Insert creates a durable notification record. The (user_id, video_id)
// unique constraint backs the at-most-once guarantee; a conflicting insert
// is a no-op rather than an error.
func (r *NotificationRepo) Insert(userID, channelID, videoID, message string) (string, error) {
	var id string
	err := r.db.QueryRow(`
		INSERT INTO notifications (user_id, channel_id, video_id, message)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, video_id) DO UPDATE SET message = notifications.message
		RETURNING id
	`, userID, channelID, videoID, message).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to insert notification: %w", err)
	}

	return id, nil
}

func (r *NotificationRepo) ListByUser(userID string, limit int) ([]Notification, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, channel_id, video_id, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.ChannelID, &n.VideoID, &n.Message, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepo) MarkRead(notificationID string) error {
	_, err := r.db.Exec(`
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1
	`, notificationID)

	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}
