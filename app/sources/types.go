package sources

import (
	"context"
	"errors"
	"time"
)

type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformTwitch  Platform = "twitch"
)

// ErrProviderUnavailable marks network, auth or quota failures on a source
// platform. The orchestrator skips that platform for the current pass
// instead of aborting.
var ErrProviderUnavailable = errors.New("source provider unavailable")

// Candidate is an unvalidated, unpersisted content record returned by a
// source adapter.
type Candidate struct {
	Platform          Platform
	ExternalID        string
	Title             string
	Description       string
	ChannelExternalID string
	ChannelTitle      string
	ViewCount         int64
	DurationSeconds   int
	PublishedAt       time.Time
	ThumbnailURL      string
	VideoURL          string
}

// Source is one content platform. "No results" is an empty list, never an
// error. Relevance keywords are exposed as data so the quality filter can
// apply a uniform secondary pass.
type Source interface {
	Platform() Platform
	FetchCandidates(ctx context.Context, query string, maxResults int) ([]Candidate, error)
	FetchChannelItems(ctx context.Context, channelExternalID string, maxResults int) ([]Candidate, error)
	Keywords() []string
}
