package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golazo-tv/golazo/app/database"
)

type mockVideoRepo struct {
	notified map[string]bool
	err      error
}

func (m *mockVideoRepo) GetByExternalID(platform, externalID string) (*database.Video, error) {
	return nil, nil
}

func (m *mockVideoRepo) Insert(video *database.Video) (string, error) { return "", nil }

func (m *mockVideoRepo) UpdateEnrichment(videoID string, categoryIDs []string, relevance int, confidence float64, summary, language string) error {
	return nil
}

func (m *mockVideoRepo) MarkNotified(videoID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.notified[videoID] {
		return false, nil
	}
	m.notified[videoID] = true
	return true, nil
}

func (m *mockVideoRepo) ListRecent(limit int) ([]database.Video, error) { return nil, nil }

func (m *mockVideoRepo) ListDegradedSummaries(prefix string, limit int) ([]database.Video, error) {
	return nil, nil
}

func (m *mockVideoRepo) SetFeatured(videoID string, featured bool, rank int) error { return nil }

func (m *mockVideoRepo) GetCount() (int, error) { return 0, nil }

type mockSubscriptionRepo struct {
	subscriptions []database.Subscription
}

func (m *mockSubscriptionRepo) ListByChannel(channelID string) ([]database.Subscription, error) {
	return m.subscriptions, nil
}

type mockNotificationRepo struct {
	inserted []string // user ids, in order
	failFor  map[string]bool
}

func (m *mockNotificationRepo) Insert(userID, channelID, videoID, message string) (string, error) {
	if m.failFor[userID] {
		return "", errors.New("insert failed")
	}
	m.inserted = append(m.inserted, userID)
	return fmt.Sprintf("notification-%d", len(m.inserted)), nil
}

func (m *mockNotificationRepo) ListByUser(userID string, limit int) ([]database.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) MarkRead(notificationID string) error { return nil }

type mockDeliverer struct {
	sent    []string // addresses, in order
	failFor map[string]bool
}

func (m *mockDeliverer) SendNewVideoEmail(_ context.Context, address, videoTitle, videoID, channelTitle, thumbnailURL string) error {
	if m.failFor[address] {
		return errors.New("smtp rejected")
	}
	m.sent = append(m.sent, address)
	return nil
}

func testVideo() *database.Video {
	now := time.Now()
	return &database.Video{
		ID:          "video-1",
		Platform:    "youtube",
		ExternalID:  "yt-abc",
		ChannelID:   "channel-1",
		Title:       "Atletico de Madrid vs Sevilla highlights",
		PublishedAt: &now,
	}
}

func testChannel() *database.Channel {
	return &database.Channel{ID: "channel-1", Title: "Atleti Clips"}
}

func subscriber(userID, email string, enabled bool) database.Subscription {
	return database.Subscription{
		UserID:               userID,
		ChannelID:            "channel-1",
		Email:                email,
		NotificationsEnabled: enabled,
	}
}

func TestNotifyNewVideoFanOut(t *testing.T) {
	videos := &mockVideoRepo{notified: make(map[string]bool)}
	subscriptions := &mockSubscriptionRepo{subscriptions: []database.Subscription{
		subscriber("user-1", "one@example.com", true),
		subscriber("user-2", "two@example.com", true),
		subscriber("user-3", "", true), // no address, row only
	}}
	notifications := &mockNotificationRepo{}
	deliverer := &mockDeliverer{}

	fanout := NewFanout(videos, subscriptions, notifications, deliverer)
	result, err := fanout.NotifyNewVideo(context.Background(), testVideo(), testChannel())
	if err != nil {
		t.Fatalf("NotifyNewVideo failed: %v", err)
	}

	if result.SubscriberCount != 3 {
		t.Errorf("Expected 3 subscribers, got %d", result.SubscriberCount)
	}
	if len(notifications.inserted) != 3 {
		t.Errorf("Expected one notification row per subscriber, got %d", len(notifications.inserted))
	}
	if result.Delivered != 2 {
		t.Errorf("Expected 2 deliveries, got %d", result.Delivered)
	}
	if len(result.DeliveryErrors) != 0 {
		t.Errorf("Expected no delivery errors, got %v", result.DeliveryErrors)
	}
}

func TestNotifyNewVideoIdempotent(t *testing.T) {
	videos := &mockVideoRepo{notified: make(map[string]bool)}
	subscriptions := &mockSubscriptionRepo{subscriptions: []database.Subscription{
		subscriber("user-1", "one@example.com", true),
	}}
	notifications := &mockNotificationRepo{}

	fanout := NewFanout(videos, subscriptions, notifications, &mockDeliverer{})
	video := testVideo()

	if _, err := fanout.NotifyNewVideo(context.Background(), video, testChannel()); err != nil {
		t.Fatalf("First NotifyNewVideo failed: %v", err)
	}

	result, err := fanout.NotifyNewVideo(context.Background(), video, testChannel())
	if err != nil {
		t.Fatalf("Second NotifyNewVideo failed: %v", err)
	}
	if !result.AlreadyNotified {
		t.Error("Expected second call to report AlreadyNotified")
	}
	if result.SubscriberCount != 0 || len(notifications.inserted) != 1 {
		t.Errorf("Expected no additional work on second call, rows=%d", len(notifications.inserted))
	}
}

func TestNotifyNewVideoPartialDeliveryFailure(t *testing.T) {
	videos := &mockVideoRepo{notified: make(map[string]bool)}
	subscriptions := &mockSubscriptionRepo{subscriptions: []database.Subscription{
		subscriber("user-1", "one@example.com", true),
		subscriber("user-2", "broken@example.com", true),
		subscriber("user-3", "three@example.com", true),
	}}
	notifications := &mockNotificationRepo{}
	deliverer := &mockDeliverer{failFor: map[string]bool{"broken@example.com": true}}

	fanout := NewFanout(videos, subscriptions, notifications, deliverer)
	result, err := fanout.NotifyNewVideo(context.Background(), testVideo(), testChannel())
	if err != nil {
		t.Fatalf("NotifyNewVideo failed: %v", err)
	}

	if result.Delivered != 2 {
		t.Errorf("Expected delivery to continue past the failure, delivered=%d", result.Delivered)
	}
	if len(result.DeliveryErrors) != 1 || result.DeliveryErrors[0].UserID != "user-2" {
		t.Errorf("Expected one delivery error for user-2, got %v", result.DeliveryErrors)
	}
	if len(notifications.inserted) != 3 {
		t.Errorf("Expected durable rows for all subscribers, got %d", len(notifications.inserted))
	}
}

func TestNotifyNewVideoDisabledSubscriber(t *testing.T) {
	videos := &mockVideoRepo{notified: make(map[string]bool)}
	subscriptions := &mockSubscriptionRepo{subscriptions: []database.Subscription{
		subscriber("user-1", "muted@example.com", false),
	}}
	notifications := &mockNotificationRepo{}
	deliverer := &mockDeliverer{}

	fanout := NewFanout(videos, subscriptions, notifications, deliverer)
	result, err := fanout.NotifyNewVideo(context.Background(), testVideo(), testChannel())
	if err != nil {
		t.Fatalf("NotifyNewVideo failed: %v", err)
	}

	if len(notifications.inserted) != 1 {
		t.Error("Expected a notification row even for muted subscribers")
	}
	if result.Delivered != 0 || len(deliverer.sent) != 0 {
		t.Error("Expected no delivery for muted subscribers")
	}
}

func TestNotifyNewVideoNoDeliverer(t *testing.T) {
	videos := &mockVideoRepo{notified: make(map[string]bool)}
	subscriptions := &mockSubscriptionRepo{subscriptions: []database.Subscription{
		subscriber("user-1", "one@example.com", true),
	}}
	notifications := &mockNotificationRepo{}

	fanout := NewFanout(videos, subscriptions, notifications, nil)
	result, err := fanout.NotifyNewVideo(context.Background(), testVideo(), testChannel())
	if err != nil {
		t.Fatalf("NotifyNewVideo failed: %v", err)
	}

	if len(notifications.inserted) != 1 || result.Delivered != 0 {
		t.Errorf("Expected durable row without delivery, rows=%d delivered=%d",
			len(notifications.inserted), result.Delivered)
	}
}
