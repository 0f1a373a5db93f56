package database

import (
	"time"
)

// VideoRepository is the catalog store for ingested videos. GetByExternalID
// backs the deduplicator; MarkNotified is the atomic idempotence gate for
// notification fan-out.
type VideoRepository interface {
	GetByExternalID(platform, externalID string) (*Video, error)
	Insert(video *Video) (string, error)
	UpdateEnrichment(videoID string, categoryIDs []string, relevance int, confidence float64, summary, language string) error
	MarkNotified(videoID string) (bool, error)
	ListRecent(limit int) ([]Video, error)
	ListDegradedSummaries(prefix string, limit int) ([]Video, error)
	SetFeatured(videoID string, featured bool, rank int) error
	GetCount() (int, error)
}

type ChannelRepository interface {
	GetByExternalID(platform, externalID string) (*Channel, error)
	Upsert(channel *Channel) (string, error)
	ListPriority() ([]Channel, error)
	ListAll() ([]Channel, error)
}

// SubscriptionRepository is read-only from the pipeline's perspective;
// rows are created and deleted by user action elsewhere.
type SubscriptionRepository interface {
	ListByChannel(channelID string) ([]Subscription, error)
}

type NotificationRepository interface {
	Insert(userID, channelID, videoID, message string) (string, error)
	ListByUser(userID string, limit int) ([]Notification, error)
	MarkRead(notificationID string) error
}

type JobRepository interface {
	List() ([]ScheduledJob, error)
	GetByName(name string) (*ScheduledJob, error)
	Upsert(job *ScheduledJob) error
	UpdateRunTimes(name string, lastRun *time.Time, nextRun *time.Time) error
}
