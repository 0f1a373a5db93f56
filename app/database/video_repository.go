package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type VideoRepo struct {
	db *DB
}

var _ VideoRepository = (*VideoRepo)(nil)

func NewVideoRepository(db *DB) *VideoRepo {
	return &VideoRepo{db: db}
}

func (r *VideoRepo) scanVideo(row interface{ Scan(...any) error }) (*Video, error) {
	var v Video
	err := row.Scan(
		&v.ID, &v.Platform, &v.ExternalID, &v.ChannelID, &v.Title,
		&v.Description, &v.ThumbnailURL, &v.VideoURL, &v.ViewCount, &v.DurationSeconds,
		&v.PublishedAt, pq.Array(&v.CategoryIDs), &v.Relevance, &v.Confidence, &v.Summary, &v.Language,
		&v.Featured, &v.FeaturedRank, &v.Notified, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByExternalID looks up a video by its dedup key. Returns nil without
// error when no record exists.
func (r *VideoRepo) GetByExternalID(platform, externalID string) (*Video, error) {
	query := `
		SELECT id, platform, external_id, COALESCE(channel_id::text, ''), title,
		       description, thumbnail_url, video_url, view_count, duration_seconds,
		       published_at, category_ids, relevance, confidence, summary, language,
		       featured, featured_rank, notified, created_at, updated_at
		FROM videos
		WHERE platform = $1 AND external_id = $2
	`
	video, err := r.scanVideo(r.db.QueryRow(query, platform, externalID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video by external id: %w", err)
	}

	return video, nil
}

func (r *VideoRepo) Insert(video *Video) (string, error) {
	var id string
	err := r.db.QueryRow(`
		INSERT INTO videos (
			platform, external_id, channel_id, title, description,
			thumbnail_url, video_url, view_count, duration_seconds, published_at,
			category_ids, relevance, confidence, summary, language
		) VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`, video.Platform, video.ExternalID, video.ChannelID, video.Title, video.Description,
		video.ThumbnailURL, video.VideoURL, video.ViewCount, video.DurationSeconds, video.PublishedAt,
		pq.Array(video.CategoryIDs), video.Relevance, video.Confidence, video.Summary, video.Language).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to insert video: %w", err)
	}

	return id, nil
}

func (r *VideoRepo) UpdateEnrichment(videoID string, categoryIDs []string, relevance int, confidence float64, summary, language string) error {
	_, err := r.db.Exec(`
		UPDATE videos
		SET category_ids = $2, relevance = $3, confidence = $4, summary = $5, language = $6, updated_at = NOW()
		WHERE id = $1
	`, videoID, pq.Array(categoryIDs), relevance, confidence, summary, language)

	if err != nil {
		return fmt.Errorf("failed to update video enrichment: %w", err)
	}

	return nil
}

// MarkNotified is the check-and-set guarding notification fan-out. The
// conditional update only succeeds when the flag was previously false, so
// concurrent fan-out attempts for the same video see exactly one true result.
func (r *VideoRepo) MarkNotified(videoID string) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE videos
		SET notified = TRUE, updated_at = NOW()
		WHERE id = $1 AND notified = FALSE
	`, videoID)
	if err != nil {
		return false, fmt.Errorf("failed to mark video notified: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

func (r *VideoRepo) ListRecent(limit int) ([]Video, error) {
	rows, err := r.db.Query(`
		SELECT id, platform, external_id, COALESCE(channel_id::text, ''), title,
		       description, thumbnail_url, video_url, view_count, duration_seconds,
		       published_at, category_ids, relevance, confidence, summary, language,
		       featured, featured_rank, notified, created_at, updated_at
		FROM videos
		ORDER BY COALESCE(published_at, created_at) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent videos: %w", err)
	}
	defer rows.Close()

	return r.collectVideos(rows)
}

// ListDegradedSummaries returns videos whose summary still carries the
// fallback sentinel prefix, so a re-run can retry enrichment.
func (r *VideoRepo) ListDegradedSummaries(prefix string, limit int) ([]Video, error) {
	rows, err := r.db.Query(`
		SELECT id, platform, external_id, COALESCE(channel_id::text, ''), title,
		       description, thumbnail_url, video_url, view_count, duration_seconds,
		       published_at, category_ids, relevance, confidence, summary, language,
		       featured, featured_rank, notified, created_at, updated_at
		FROM videos
		WHERE summary LIKE $1 || '%'
		ORDER BY created_at ASC
		LIMIT $2
	`, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list degraded summaries: %w", err)
	}
	defer rows.Close()

	return r.collectVideos(rows)
}

func (r *VideoRepo) SetFeatured(videoID string, featured bool, rank int) error {
	_, err := r.db.Exec(`
		UPDATE videos
		SET featured = $2, featured_rank = $3, updated_at = NOW()
		WHERE id = $1
	`, videoID, featured, rank)

	if err != nil {
		return fmt.Errorf("failed to set featured flag: %w", err)
	}

	return nil
}

func (r *VideoRepo) GetCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM videos").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get video count: %w", err)
	}
	return count, nil
}

func (r *VideoRepo) collectVideos(rows *sql.Rows) ([]Video, error) {
	var videos []Video
	for rows.Next() {
		video, err := r.scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		videos = append(videos, *video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video rows: %w", err)
	}

	return videos, nil
}
