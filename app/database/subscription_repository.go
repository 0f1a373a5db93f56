package database

import (
	"fmt"
)

type SubscriptionRepo struct {
	db *DB
}

var _ SubscriptionRepository = (*SubscriptionRepo)(nil)

func NewSubscriptionRepository(db *DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

func (r *SubscriptionRepo) ListByChannel(channelID string) ([]Subscription, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, channel_id, email, notifications_enabled, created_at
		FROM subscriptions
		WHERE channel_id = $1
		ORDER BY created_at ASC
	`, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var s Subscription
		err := rows.Scan(&s.ID, &s.UserID, &s.ChannelID, &s.Email, &s.NotificationsEnabled, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}

	return subs, nil
}
