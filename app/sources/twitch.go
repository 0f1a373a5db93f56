package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	twitchAPIBase  = "https://api.twitch.tv/helix"
	twitchAuthBase = "https://id.twitch.tv/oauth2/token"
)

// Twitch adapts the Helix API. Search candidates are resolved in two hops:
// channel search for the query, then recent clips per matched broadcaster.
type Twitch struct {
	clientID     string
	clientSecret string
	userAgent    string
	apiBase      string
	authBase     string
	httpClient   *http.Client
	keywords     []string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ Source = (*Twitch)(nil)

func NewTwitch(clientID, clientSecret, userAgent string, keywords []string) *Twitch {
	return &Twitch{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		apiBase:      twitchAPIBase,
		authBase:     twitchAuthBase,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		keywords:     keywords,
	}
}

func (t *Twitch) Platform() Platform {
	return PlatformTwitch
}

func (t *Twitch) Keywords() []string {
	return t.keywords
}

type twitchChannelSearchResponse struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"data"`
}

type twitchClipsResponse struct {
	Data []twitchClip `json:"data"`
}

type twitchClip struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	BroadcasterID   string  `json:"broadcaster_id"`
	BroadcasterName string  `json:"broadcaster_name"`
	Title           string  `json:"title"`
	ViewCount       int64   `json:"view_count"`
	CreatedAt       string  `json:"created_at"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	Duration        float64 `json:"duration"`
}

func (t *Twitch) FetchCandidates(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("first", "5")

	var search twitchChannelSearchResponse
	if err := t.getJSON(ctx, t.apiBase+"/search/channels?"+params.Encode(), &search); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, maxResults)
	for _, channel := range search.Data {
		if len(candidates) >= maxResults {
			break
		}

		clips, err := t.fetchClips(ctx, channel.ID, maxResults-len(candidates))
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, clips...)
	}

	return candidates, nil
}

func (t *Twitch) FetchChannelItems(ctx context.Context, channelExternalID string, maxResults int) ([]Candidate, error) {
	return t.fetchClips(ctx, channelExternalID, maxResults)
}

func (t *Twitch) fetchClips(ctx context.Context, broadcasterID string, maxResults int) ([]Candidate, error) {
	params := url.Values{}
	params.Set("broadcaster_id", broadcasterID)
	params.Set("first", strconv.Itoa(maxResults))

	var clips twitchClipsResponse
	if err := t.getJSON(ctx, t.apiBase+"/clips?"+params.Encode(), &clips); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(clips.Data))
	for _, clip := range clips.Data {
		candidates = append(candidates, candidateFromClip(clip))
	}

	return candidates, nil
}

func candidateFromClip(clip twitchClip) Candidate {
	c := Candidate{
		Platform:          PlatformTwitch,
		ExternalID:        clip.ID,
		Title:             clip.Title,
		ChannelExternalID: clip.BroadcasterID,
		ChannelTitle:      clip.BroadcasterName,
		ViewCount:         clip.ViewCount,
		DurationSeconds:   int(clip.Duration),
		ThumbnailURL:      clip.ThumbnailURL,
		VideoURL:          clip.URL,
	}
	if parsed, err := time.Parse(time.RFC3339, clip.CreatedAt); err == nil {
		c.PublishedAt = parsed
	}
	return c
}

func (t *Twitch) getJSON(ctx context.Context, rawURL string, v any) error {
	token, err := t.appToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Client-Id", t.clientID)
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twitch request failed: %w", ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token may have been revoked before its reported expiry.
		t.mu.Lock()
		t.accessToken = ""
		t.mu.Unlock()
		return fmt.Errorf("twitch auth rejected: %w", ErrProviderUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("twitch HTTP %d: %w", resp.StatusCode, ErrProviderUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("twitch response decode failed: %w", ErrProviderUnavailable)
	}

	return nil
}

func (t *Twitch) appToken(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.accessToken != "" && time.Now().Before(t.tokenExpiry) {
		return t.accessToken, nil
	}

	form := url.Values{}
	form.Set("client_id", t.clientID)
	form.Set("client_secret", t.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.authBase, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("twitch token request failed: %w", ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitch token HTTP %d: %w", resp.StatusCode, ErrProviderUnavailable)
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("twitch token decode failed: %w", ErrProviderUnavailable)
	}

	t.accessToken = token.AccessToken
	t.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn-60) * time.Second)

	return t.accessToken, nil
}
