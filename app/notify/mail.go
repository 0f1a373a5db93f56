package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MailClient delivers notification emails through an HTTP mail API.
type MailClient struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
}

var _ Deliverer = (*MailClient)(nil)

func NewMailClient(endpoint, apiKey, from string) *MailClient {
	return &MailClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *MailClient) SendNewVideoEmail(ctx context.Context, address, videoTitle, videoID, channelTitle, thumbnailURL string) error {
	if m.endpoint == "" {
		return fmt.Errorf("mail client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"from":    m.from,
		"to":      address,
		"subject": fmt.Sprintf("New video from %s", channelTitle),
		"template": map[string]string{
			"name":          "new-video",
			"video_id":      videoID,
			"video_title":   videoTitle,
			"channel_title": channelTitle,
			"thumbnail_url": thumbnailURL,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("mail API error: %s", resp.Status)
	}

	return nil
}
