package pipeline

import (
	"context"
	"fmt"

	"github.com/golazo-tv/golazo/app/database"
	"github.com/golazo-tv/golazo/app/enrich"
	"github.com/golazo-tv/golazo/app/notify"
	"github.com/golazo-tv/golazo/app/sources"
)

// SourceSelector names one source to pull from: a platform plus either a
// search query or an explicit channel list.
type SourceSelector struct {
	Platform   sources.Platform
	Query      string
	ChannelIDs []string
}

type Limits struct {
	MaxPerSource int
}

type PassError struct {
	Platform   string
	ExternalID string
	Stage      string
	Err        error
}

func (e PassError) Error() string {
	return fmt.Sprintf("%s/%s %s: %v", e.Platform, e.ExternalID, e.Stage, e.Err)
}

// Stats is the sole user-visible outcome of an ingestion pass. Partial
// failure shows up as a non-zero Errors count alongside a non-zero Added.
type Stats struct {
	PassID            string      `json:"pass_id"`
	TotalCandidates   int         `json:"total_candidates"`
	Added             int         `json:"added"`
	Updated           int         `json:"updated"`
	SkippedDuplicate  int         `json:"skipped_duplicate"`
	SkippedLowQuality int         `json:"skipped_low_quality"`
	Errors            []PassError `json:"-"`
	ErrorCount        int         `json:"errors"`
}

// Cascade seams; the enrich cascades satisfy them directly.
type ClassifierRunner interface {
	Classify(ctx context.Context, title, description string, categoryIDs []string) enrich.Classification
}

type SummarizerRunner interface {
	Summarize(ctx context.Context, title, description string) enrich.Summary
}

type Notifier interface {
	NotifyNewVideo(ctx context.Context, video *database.Video, channel *database.Channel) (notify.Result, error)
}
