package database

import (
	"time"
)

type Video struct {
	ID              string // Database UUID
	Platform        string
	ExternalID      string // Platform-scoped identifier, unique with Platform
	ChannelID       string
	Title           string
	Description     string
	ThumbnailURL    string
	VideoURL        string
	ViewCount       int64
	DurationSeconds int
	PublishedAt     *time.Time
	CategoryIDs     []string
	Relevance       int     // 0-100, classification relevance
	Confidence      float64 // 0-1, classification confidence
	Summary         string
	Language        string
	Featured        bool
	FeaturedRank    int
	Notified        bool // Idempotence flag for notification fan-out
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Channel struct {
	ID              string // Database UUID
	Platform        string
	ExternalID      string
	Title           string
	ThumbnailURL    string
	SubscriberCount int64
	VideoCount      int
	Priority        string // '', 'recommended' or 'premium'; priority channels are polled preferentially
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Subscription struct {
	ID                   string
	UserID               string
	ChannelID            string
	Email                string // Contact address resolved at subscription time
	NotificationsEnabled bool
	CreatedAt            time.Time
}

type Notification struct {
	ID        string
	UserID    string
	ChannelID string
	VideoID   string
	Message   string
	Read      bool
	CreatedAt time.Time
}

type ScheduledJob struct {
	ID          string
	Name        string
	CronExpr    string
	Enabled     bool
	Description string
	MaxItems    int // Cap on items processed per run
	LastRun     *time.Time
	NextRun     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
