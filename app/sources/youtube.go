package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const (
	youtubeAPIBase  = "https://www.googleapis.com/youtube/v3"
	youtubeFeedBase = "https://www.youtube.com/feeds/videos.xml"
)

// YouTube adapts the YouTube Data API v3. Channel listings go through the
// public uploads Atom feed instead, which costs no API quota.
type YouTube struct {
	apiKey     string
	userAgent  string
	apiBase    string
	feedBase   string
	httpClient *http.Client
	feedParser *gofeed.Parser
	keywords   []string
}

var _ Source = (*YouTube)(nil)

func NewYouTube(apiKey, userAgent string, keywords []string) *YouTube {
	client := &http.Client{Timeout: 15 * time.Second}

	feedParser := gofeed.NewParser()
	feedParser.Client = client
	feedParser.UserAgent = userAgent

	return &YouTube{
		apiKey:     apiKey,
		userAgent:  userAgent,
		apiBase:    youtubeAPIBase,
		feedBase:   youtubeFeedBase,
		httpClient: client,
		feedParser: feedParser,
		keywords:   keywords,
	}
}

func (y *YouTube) Platform() Platform {
	return PlatformYouTube
}

func (y *YouTube) Keywords() []string {
	return y.keywords
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet youtubeSnippet `json:"snippet"`
	} `json:"items"`
}

type youtubeSnippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnails   struct {
		High struct {
			URL string `json:"url"`
		} `json:"high"`
	} `json:"thumbnails"`
}

type youtubeVideosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (y *YouTube) FetchCandidates(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", y.apiKey)

	var search youtubeSearchResponse
	if err := y.getJSON(ctx, y.apiBase+"/search?"+params.Encode(), &search); err != nil {
		return nil, err
	}

	if len(search.Items) == 0 {
		return []Candidate{}, nil
	}

	candidates := make([]Candidate, 0, len(search.Items))
	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID == "" {
			continue
		}
		ids = append(ids, item.ID.VideoID)
		candidates = append(candidates, y.candidateFromSnippet(item.ID.VideoID, item.Snippet))
	}

	stats, err := y.fetchStatistics(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if s, ok := stats[candidates[i].ExternalID]; ok {
			candidates[i].ViewCount = s.views
			candidates[i].DurationSeconds = s.duration
		}
	}

	return candidates, nil
}

// FetchChannelItems reads the channel's public uploads feed.
func (y *YouTube) FetchChannelItems(ctx context.Context, channelExternalID string, maxResults int) ([]Candidate, error) {
	feedURL := y.feedBase + "?channel_id=" + url.QueryEscape(channelExternalID)

	feed, err := y.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel feed %s: %w", channelExternalID, ErrProviderUnavailable)
	}

	candidates := make([]Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(candidates) >= maxResults {
			break
		}

		videoID := extensionValue(item.Extensions, "yt", "videoId")
		if videoID == "" {
			continue
		}

		c := Candidate{
			Platform:          PlatformYouTube,
			ExternalID:        videoID,
			Title:             item.Title,
			Description:       item.Description,
			ChannelExternalID: channelExternalID,
			ChannelTitle:      feed.Title,
			ThumbnailURL:      mediaGroupAttr(item.Extensions, "thumbnail", "url"),
			VideoURL:          item.Link,
		}

		if views := mediaGroupStatViews(item.Extensions); views != "" {
			c.ViewCount, _ = strconv.ParseInt(views, 10, 64)
		}
		if item.PublishedParsed != nil {
			c.PublishedAt = *item.PublishedParsed
		}
		if c.Description == "" {
			c.Description = mediaGroupChildValue(item.Extensions, "description")
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}

func (y *YouTube) candidateFromSnippet(videoID string, snippet youtubeSnippet) Candidate {
	c := Candidate{
		Platform:          PlatformYouTube,
		ExternalID:        videoID,
		Title:             snippet.Title,
		Description:       snippet.Description,
		ChannelExternalID: snippet.ChannelID,
		ChannelTitle:      snippet.ChannelTitle,
		ThumbnailURL:      snippet.Thumbnails.High.URL,
		VideoURL:          "https://www.youtube.com/watch?v=" + videoID,
	}
	if t, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
		c.PublishedAt = t
	}
	return c
}

type youtubeStats struct {
	views    int64
	duration int
}

func (y *YouTube) fetchStatistics(ctx context.Context, videoIDs []string) (map[string]youtubeStats, error) {
	params := url.Values{}
	params.Set("part", "statistics,contentDetails")
	params.Set("id", strings.Join(videoIDs, ","))
	params.Set("key", y.apiKey)

	var videos youtubeVideosResponse
	if err := y.getJSON(ctx, y.apiBase+"/videos?"+params.Encode(), &videos); err != nil {
		return nil, err
	}

	stats := make(map[string]youtubeStats, len(videos.Items))
	for _, item := range videos.Items {
		views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		stats[item.ID] = youtubeStats{
			views:    views,
			duration: ParseISODuration(item.ContentDetails.Duration),
		}
	}

	return stats, nil
}

func (y *YouTube) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", y.userAgent)

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube request failed: %w", ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube HTTP %d: %w", resp.StatusCode, ErrProviderUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("youtube response decode failed: %w", ErrProviderUnavailable)
	}

	return nil
}

// ParseISODuration converts an ISO 8601 duration like "PT1H2M3S" to seconds.
// Malformed input yields 0.
func ParseISODuration(s string) int {
	s = strings.TrimPrefix(s, "P")
	s = strings.TrimPrefix(s, "T")

	total := 0
	num := strings.Builder{}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num.WriteRune(r)
		case r == 'T':
			num.Reset()
		default:
			n, err := strconv.Atoi(num.String())
			num.Reset()
			if err != nil {
				continue
			}
			switch r {
			case 'H':
				total += n * 3600
			case 'M':
				total += n * 60
			case 'S':
				total += n
			}
		}
	}

	return total
}

func extensionValue(extensions ext.Extensions, prefix, name string) string {
	if exts, ok := extensions[prefix]; ok {
		if vals, ok := exts[name]; ok && len(vals) > 0 {
			return vals[0].Value
		}
	}
	return ""
}

func mediaGroup(extensions ext.Extensions) *ext.Extension {
	if exts, ok := extensions["media"]; ok {
		if groups, ok := exts["group"]; ok && len(groups) > 0 {
			return &groups[0]
		}
	}
	return nil
}

func mediaGroupAttr(extensions ext.Extensions, child, attr string) string {
	group := mediaGroup(extensions)
	if group == nil {
		return ""
	}
	if children, ok := group.Children[child]; ok && len(children) > 0 {
		return children[0].Attrs[attr]
	}
	return ""
}

func mediaGroupChildValue(extensions ext.Extensions, child string) string {
	group := mediaGroup(extensions)
	if group == nil {
		return ""
	}
	if children, ok := group.Children[child]; ok && len(children) > 0 {
		return children[0].Value
	}
	return ""
}

func mediaGroupStatViews(extensions ext.Extensions) string {
	group := mediaGroup(extensions)
	if group == nil {
		return ""
	}
	if community, ok := group.Children["community"]; ok && len(community) > 0 {
		if stats, ok := community[0].Children["statistics"]; ok && len(stats) > 0 {
			return stats[0].Attrs["views"]
		}
	}
	return ""
}
