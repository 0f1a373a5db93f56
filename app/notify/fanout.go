package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/golazo-tv/golazo/app/database"
)

// Deliverer performs the external, best-effort part of a notification.
// The durable notification row exists whether or not delivery succeeds.
type Deliverer interface {
	SendNewVideoEmail(ctx context.Context, address, videoTitle, videoID, channelTitle, thumbnailURL string) error
}

type DeliveryError struct {
	UserID string
	Err    error
}

func (e DeliveryError) Error() string {
	return fmt.Sprintf("delivery to user %s failed: %v", e.UserID, e.Err)
}

type Result struct {
	SubscriberCount int
	Delivered       int
	AlreadyNotified bool
	DeliveryErrors  []DeliveryError
}

type Fanout struct {
	videos        database.VideoRepository
	subscriptions database.SubscriptionRepository
	notifications database.NotificationRepository
	deliverer     Deliverer
}

func NewFanout(videos database.VideoRepository, subscriptions database.SubscriptionRepository,
	notifications database.NotificationRepository, deliverer Deliverer) *Fanout {
	return &Fanout{
		videos:        videos,
		subscriptions: subscriptions,
		notifications: notifications,
		deliverer:     deliverer,
	}
}

// NotifyNewVideo fans a newly created video out to the channel's
// subscribers. The atomic check-and-set of the video's notified flag is the
// idempotence boundary: a second call for the same video does no work.
func (f *Fanout) NotifyNewVideo(ctx context.Context, video *database.Video, channel *database.Channel) (Result, error) {
	won, err := f.videos.MarkNotified(video.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to acquire notified flag: %w", err)
	}
	if !won {
		return Result{AlreadyNotified: true}, nil
	}

	subscriptions, err := f.subscriptions.ListByChannel(channel.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve subscribers: %w", err)
	}

	result := Result{SubscriberCount: len(subscriptions)}
	message := fmt.Sprintf("New video from %s: %s", channel.Title, video.Title)

	for _, subscription := range subscriptions {
		// Durable record first; delivery is best-effort on top of it.
		if _, err := f.notifications.Insert(subscription.UserID, channel.ID, video.ID, message); err != nil {
			result.DeliveryErrors = append(result.DeliveryErrors, DeliveryError{UserID: subscription.UserID, Err: err})
			continue
		}

		if !subscription.NotificationsEnabled || subscription.Email == "" || f.deliverer == nil {
			continue
		}

		err := f.deliverer.SendNewVideoEmail(ctx, subscription.Email, video.Title, video.ID, channel.Title, video.ThumbnailURL)
		if err != nil {
			result.DeliveryErrors = append(result.DeliveryErrors, DeliveryError{UserID: subscription.UserID, Err: err})
			continue
		}
		result.Delivered++
	}

	slog.Info("Notification fan-out completed",
		"video_id", video.ID,
		"channel", channel.Title,
		"subscribers", result.SubscriberCount,
		"delivered", result.Delivered,
		"delivery_errors", len(result.DeliveryErrors))

	return result, nil
}
