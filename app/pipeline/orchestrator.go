package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/golazo-tv/golazo/app/database"
	"github.com/golazo-tv/golazo/app/enrich"
	"github.com/golazo-tv/golazo/app/quality"
	"github.com/golazo-tv/golazo/app/sources"
)

// Orchestrator composes sources, quality filter, dedup, enrichment cascades,
// catalog writes and notification fan-out into one ingestion pass. Candidates
// are processed sequentially per source so provider call ordering stays
// deterministic and outbound calls to rate-limited APIs stay bounded.
type Orchestrator struct {
	registry   *sources.Registry
	filter     *quality.Filter
	policy     *quality.Policy
	videos     database.VideoRepository
	channels   database.ChannelRepository
	classifier ClassifierRunner
	summarizer SummarizerRunner
	notifier   Notifier
}

func NewOrchestrator(registry *sources.Registry, filter *quality.Filter, policy *quality.Policy,
	videos database.VideoRepository, channels database.ChannelRepository,
	classifier ClassifierRunner, summarizer SummarizerRunner, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		filter:     filter,
		policy:     policy,
		videos:     videos,
		channels:   channels,
		classifier: classifier,
		summarizer: summarizer,
		notifier:   notifier,
	}
}

// RunPass executes one ingestion pass over the given selectors. The pass is
// safe to invoke repeatedly with overlapping candidate sets: the dedup check
// and the notified flag make repeat invocation a no-op for seen items. A
// per-candidate failure is recorded and never aborts the rest of the batch.
func (o *Orchestrator) RunPass(ctx context.Context, selectors []SourceSelector, limits Limits) Stats {
	stats := Stats{PassID: uuid.NewString()}

	if limits.MaxPerSource <= 0 {
		limits.MaxPerSource = 25
	}

	for _, selector := range selectors {
		candidates, keywords, err := o.collect(ctx, selector, limits.MaxPerSource)
		if err != nil {
			if errors.Is(err, sources.ErrProviderUnavailable) {
				slog.Warn("Source unavailable, skipping for this pass", "platform", selector.Platform, "error", err)
			} else {
				slog.Error("Source fetch failed", "platform", selector.Platform, "error", err)
			}
			stats.Errors = append(stats.Errors, PassError{
				Platform: string(selector.Platform),
				Stage:    "fetch",
				Err:      err,
			})
			continue
		}

		stats.TotalCandidates += len(candidates)
		for _, candidate := range candidates {
			o.processCandidate(ctx, candidate, keywords, &stats)
		}
	}

	stats.ErrorCount = len(stats.Errors)

	slog.Info("Ingestion pass completed",
		"pass_id", stats.PassID,
		"total", stats.TotalCandidates,
		"added", stats.Added,
		"duplicates", stats.SkippedDuplicate,
		"low_quality", stats.SkippedLowQuality,
		"errors", stats.ErrorCount)

	return stats
}

// RunPriorityChannelsPass ingests recent uploads from every channel tagged
// premium or recommended.
func (o *Orchestrator) RunPriorityChannelsPass(ctx context.Context, limits Limits) Stats {
	channels, err := o.channels.ListPriority()
	if err != nil {
		slog.Error("Failed to list priority channels", "error", err)
		return Stats{
			PassID:     uuid.NewString(),
			Errors:     []PassError{{Stage: "channels", Err: err}},
			ErrorCount: 1,
		}
	}

	byPlatform := make(map[sources.Platform][]string)
	for _, channel := range channels {
		platform := sources.Platform(channel.Platform)
		byPlatform[platform] = append(byPlatform[platform], channel.ExternalID)
	}

	selectors := make([]SourceSelector, 0, len(byPlatform))
	for platform, ids := range byPlatform {
		selectors = append(selectors, SourceSelector{Platform: platform, ChannelIDs: ids})
	}

	return o.RunPass(ctx, selectors, limits)
}

// RunJob dispatches a named scheduled job to the matching pass.
func (o *Orchestrator) RunJob(ctx context.Context, jobName string, maxItems int) Stats {
	limits := Limits{MaxPerSource: maxItems}

	switch jobName {
	case "ingest-channels":
		return o.RunPriorityChannelsPass(ctx, limits)
	case "refresh-summaries":
		return o.RunEnrichmentRetryPass(ctx, limits)
	default:
		return o.RunSearchPass(ctx, limits)
	}
}

// RunEnrichmentRetryPass re-runs the cascades for videos whose summary still
// carries the degraded sentinel. The stored summary is only replaced when a
// provider produced a real one; while providers stay down the pass is a
// no-op for each item.
func (o *Orchestrator) RunEnrichmentRetryPass(ctx context.Context, limits Limits) Stats {
	stats := Stats{PassID: uuid.NewString()}

	if limits.MaxPerSource <= 0 {
		limits.MaxPerSource = 25
	}

	videos, err := o.videos.ListDegradedSummaries(enrich.DegradedPrefix, limits.MaxPerSource)
	if err != nil {
		slog.Error("Failed to list degraded summaries", "error", err)
		stats.Errors = append(stats.Errors, PassError{Stage: "list", Err: err})
		stats.ErrorCount = 1
		return stats
	}

	stats.TotalCandidates = len(videos)
	for _, video := range videos {
		summary := o.summarizer.Summarize(ctx, video.Title, video.Description)
		if summary.Degraded() {
			continue
		}

		classification := o.classifier.Classify(ctx, video.Title, video.Description, o.policy.CategoryIDs())

		err := o.videos.UpdateEnrichment(video.ID, classification.CategoryIDs,
			classification.Relevance, classification.Confidence, summary.Text, summary.Language)
		if err != nil {
			stats.Errors = append(stats.Errors, PassError{
				Platform:   video.Platform,
				ExternalID: video.ExternalID,
				Stage:      "persist",
				Err:        err,
			})
			continue
		}
		stats.Updated++
	}

	stats.ErrorCount = len(stats.Errors)

	slog.Info("Enrichment retry pass completed",
		"pass_id", stats.PassID,
		"degraded", stats.TotalCandidates,
		"updated", stats.Updated,
		"errors", stats.ErrorCount)

	return stats
}

// RunSearchPass ingests from the policy's configured search queries.
func (o *Orchestrator) RunSearchPass(ctx context.Context, limits Limits) Stats {
	selectors := make([]SourceSelector, 0, len(o.policy.SearchQueries))
	for _, search := range o.policy.SearchQueries {
		selectors = append(selectors, SourceSelector{
			Platform: sources.Platform(search.Platform),
			Query:    search.Query,
		})
	}

	return o.RunPass(ctx, selectors, limits)
}

// collect pulls candidates for one selector, along with the adapter's own
// relevance keywords so the filter can re-apply them uniformly.
func (o *Orchestrator) collect(ctx context.Context, selector SourceSelector, maxResults int) ([]sources.Candidate, []string, error) {
	source, err := o.registry.Get(selector.Platform)
	if err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, sources.ErrProviderUnavailable)
	}

	if len(selector.ChannelIDs) > 0 {
		var candidates []sources.Candidate
		for _, channelID := range selector.ChannelIDs {
			items, err := source.FetchChannelItems(ctx, channelID, maxResults)
			if err != nil {
				return nil, nil, err
			}
			candidates = append(candidates, items...)
		}
		return candidates, source.Keywords(), nil
	}

	candidates, err := source.FetchCandidates(ctx, selector.Query, maxResults)
	if err != nil {
		return nil, nil, err
	}
	return candidates, source.Keywords(), nil
}

func (o *Orchestrator) processCandidate(ctx context.Context, candidate sources.Candidate, keywords []string, stats *Stats) {
	// Filter before the dedup lookup: rejected candidates never cost a query.
	if ok, reason := o.filter.IsAcceptable(candidate, keywords); !ok {
		slog.Debug("Candidate rejected by quality filter",
			"platform", candidate.Platform, "external_id", candidate.ExternalID, "reason", reason)
		stats.SkippedLowQuality++
		return
	}

	existing, err := o.videos.GetByExternalID(string(candidate.Platform), candidate.ExternalID)
	if err != nil {
		stats.Errors = append(stats.Errors, passError(candidate, "dedup", err))
		return
	}
	if existing != nil {
		// A duplicate is a normal, silent skip, not an error.
		stats.SkippedDuplicate++
		return
	}

	channel, err := o.ensureChannel(candidate)
	if err != nil {
		stats.Errors = append(stats.Errors, passError(candidate, "channel", err))
		return
	}

	// Cascades degrade internally; they never fail the candidate.
	classification := o.classifier.Classify(ctx, candidate.Title, candidate.Description, o.policy.CategoryIDs())
	summary := o.summarizer.Summarize(ctx, candidate.Title, candidate.Description)

	video := &database.Video{
		Platform:        string(candidate.Platform),
		ExternalID:      candidate.ExternalID,
		ChannelID:       channel.ID,
		Title:           candidate.Title,
		Description:     candidate.Description,
		ThumbnailURL:    candidate.ThumbnailURL,
		VideoURL:        candidate.VideoURL,
		ViewCount:       candidate.ViewCount,
		DurationSeconds: candidate.DurationSeconds,
		CategoryIDs:     classification.CategoryIDs,
		Relevance:       classification.Relevance,
		Confidence:      classification.Confidence,
		Summary:         summary.Text,
		Language:        summary.Language,
	}
	if !candidate.PublishedAt.IsZero() {
		published := candidate.PublishedAt
		video.PublishedAt = &published
	}

	videoID, err := o.videos.Insert(video)
	if err != nil {
		stats.Errors = append(stats.Errors, passError(candidate, "persist", err))
		return
	}
	video.ID = videoID
	stats.Added++

	result, err := o.notifier.NotifyNewVideo(ctx, video, channel)
	if err != nil {
		stats.Errors = append(stats.Errors, passError(candidate, "notify", err))
		return
	}
	for _, deliveryErr := range result.DeliveryErrors {
		stats.Errors = append(stats.Errors, passError(candidate, "delivery", deliveryErr))
	}
}

func (o *Orchestrator) ensureChannel(candidate sources.Candidate) (*database.Channel, error) {
	channel, err := o.channels.GetByExternalID(string(candidate.Platform), candidate.ChannelExternalID)
	if err != nil {
		return nil, err
	}
	if channel != nil {
		// Keep the stored channel card fresh when the source reports a new title.
		if candidate.ChannelTitle != "" && candidate.ChannelTitle != channel.Title {
			channel.Title = candidate.ChannelTitle
			if _, err := o.channels.Upsert(channel); err != nil {
				slog.Warn("Failed to refresh channel title",
					"platform", candidate.Platform, "channel", candidate.ChannelExternalID, "error", err)
			}
		}
		return channel, nil
	}

	channel = &database.Channel{
		Platform:   string(candidate.Platform),
		ExternalID: candidate.ChannelExternalID,
		Title:      candidate.ChannelTitle,
	}
	id, err := o.channels.Upsert(channel)
	if err != nil {
		return nil, err
	}
	channel.ID = id

	return channel, nil
}

func passError(candidate sources.Candidate, stage string, err error) PassError {
	return PassError{
		Platform:   string(candidate.Platform),
		ExternalID: candidate.ExternalID,
		Stage:      stage,
		Err:        err,
	}
}
