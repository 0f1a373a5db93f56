package database

import (
	"database/sql"
	"fmt"
)

type ChannelRepo struct {
	db *DB
}

var _ ChannelRepository = (*ChannelRepo)(nil)

func NewChannelRepository(db *DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

func (r *ChannelRepo) GetByExternalID(platform, externalID string) (*Channel, error) {
	var ch Channel
	err := r.db.QueryRow(`
		SELECT id, platform, external_id, title, thumbnail_url,
		       subscriber_count, video_count, priority, created_at, updated_at
		FROM channels
		WHERE platform = $1 AND external_id = $2
	`, platform, externalID).Scan(
		&ch.ID, &ch.Platform, &ch.ExternalID, &ch.Title, &ch.ThumbnailURL,
		&ch.SubscriberCount, &ch.VideoCount, &ch.Priority, &ch.CreatedAt, &ch.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel by external id: %w", err)
	}

	return &ch, nil
}

func (r *ChannelRepo) Upsert(channel *Channel) (string, error) {
	var id string
	err := r.db.QueryRow(`
		INSERT INTO channels (platform, external_id, title, thumbnail_url, subscriber_count, video_count, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (platform, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			thumbnail_url = CASE WHEN EXCLUDED.thumbnail_url <> '' THEN EXCLUDED.thumbnail_url ELSE channels.thumbnail_url END,
			subscriber_count = CASE WHEN EXCLUDED.subscriber_count > 0 THEN EXCLUDED.subscriber_count ELSE channels.subscriber_count END,
			video_count = CASE WHEN EXCLUDED.video_count > 0 THEN EXCLUDED.video_count ELSE channels.video_count END,
			updated_at = NOW()
		RETURNING id
	`, channel.Platform, channel.ExternalID, channel.Title, channel.ThumbnailURL,
		channel.SubscriberCount, channel.VideoCount, channel.Priority).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to upsert channel: %w", err)
	}

	return id, nil
}

// ListPriority returns channels tagged 'premium' or 'recommended'; these are
// the channels the orchestrator polls preferentially.
func (r *ChannelRepo) ListPriority() ([]Channel, error) {
	rows, err := r.db.Query(`
		SELECT id, platform, external_id, title, thumbnail_url,
		       subscriber_count, video_count, priority, created_at, updated_at
		FROM channels
		WHERE priority <> ''
		ORDER BY priority DESC, subscriber_count DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list priority channels: %w", err)
	}
	defer rows.Close()

	return r.collectChannels(rows)
}

func (r *ChannelRepo) ListAll() ([]Channel, error) {
	rows, err := r.db.Query(`
		SELECT id, platform, external_id, title, thumbnail_url,
		       subscriber_count, video_count, priority, created_at, updated_at
		FROM channels
		ORDER BY subscriber_count DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	return r.collectChannels(rows)
}

func (r *ChannelRepo) collectChannels(rows *sql.Rows) ([]Channel, error) {
	var channels []Channel
	for rows.Next() {
		var ch Channel
		err := rows.Scan(
			&ch.ID, &ch.Platform, &ch.ExternalID, &ch.Title, &ch.ThumbnailURL,
			&ch.SubscriberCount, &ch.VideoCount, &ch.Priority, &ch.CreatedAt, &ch.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		channels = append(channels, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel rows: %w", err)
	}

	return channels, nil
}
