package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/golazo-tv/golazo/app/database"
	"github.com/golazo-tv/golazo/app/pipeline"
	"github.com/golazo-tv/golazo/app/scheduler"
	"github.com/golazo-tv/golazo/app/sources"
)

type Handler struct {
	videos        database.VideoRepository
	channels      database.ChannelRepository
	notifications database.NotificationRepository
	jobs          database.JobRepository
	orchestrator  *pipeline.Orchestrator
	scheduler     *scheduler.Scheduler
}

func NewHandler(videos database.VideoRepository, channels database.ChannelRepository,
	notifications database.NotificationRepository, jobs database.JobRepository,
	orchestrator *pipeline.Orchestrator, sched *scheduler.Scheduler) *Handler {
	return &Handler{
		videos:        videos,
		channels:      channels,
		notifications: notifications,
		jobs:          jobs,
		orchestrator:  orchestrator,
		scheduler:     sched,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if videoCount, err := h.videos.GetCount(); err == nil {
		health["videos"] = videoCount
	}
	health["active_jobs"] = len(h.scheduler.ActiveJobs())

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListVideos(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}

	videos, err := h.videos.ListRecent(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_videos", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(videos))
	for _, v := range videos {
		out = append(out, map[string]interface{}{
			"id":            v.ID,
			"platform":      v.Platform,
			"external_id":   v.ExternalID,
			"channel_id":    v.ChannelID,
			"title":         v.Title,
			"thumbnail_url": v.ThumbnailURL,
			"video_url":     v.VideoURL,
			"view_count":    v.ViewCount,
			"duration":      v.DurationSeconds,
			"published_at":  v.PublishedAt,
			"category_ids":  v.CategoryIDs,
			"summary":       v.Summary,
			"language":      v.Language,
			"featured":      v.Featured,
		})
	}

	c.JSON(http.StatusOK, gin.H{"videos": out})
}

func (h *Handler) ListChannels(c *gin.Context) {
	channels, err := h.channels.ListAll()
	if err != nil {
		slog.Error("Database error", "operation", "list_channels", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(channels))
	for _, ch := range channels {
		out = append(out, map[string]interface{}{
			"id":               ch.ID,
			"platform":         ch.Platform,
			"external_id":      ch.ExternalID,
			"title":            ch.Title,
			"thumbnail_url":    ch.ThumbnailURL,
			"subscriber_count": ch.SubscriberCount,
			"video_count":      ch.VideoCount,
			"priority":         ch.Priority,
		})
	}

	c.JSON(http.StatusOK, gin.H{"channels": out})
}

type ingestRequest struct {
	Platform   string   `json:"platform"`
	Query      string   `json:"query"`
	ChannelIDs []string `json:"channel_ids"`
	MaxResults int      `json:"max_results"`
}

// TriggerIngest runs a manual ingestion pass. It may overlap with a
// scheduler-fired run of the same pipeline; per-item idempotence makes that
// harmless.
func (h *Handler) TriggerIngest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var selectors []pipeline.SourceSelector
	if req.Platform != "" {
		selectors = []pipeline.SourceSelector{{
			Platform:   sources.Platform(req.Platform),
			Query:      req.Query,
			ChannelIDs: req.ChannelIDs,
		}}
		stats := h.orchestrator.RunPass(c.Request.Context(), selectors, pipeline.Limits{MaxPerSource: req.MaxResults})
		c.JSON(http.StatusOK, stats)
		return
	}

	stats := h.orchestrator.RunSearchPass(c.Request.Context(), pipeline.Limits{MaxPerSource: req.MaxResults})
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListJobs(c *gin.Context) {
	jobs, err := h.jobs.List()
	if err != nil {
		slog.Error("Database error", "operation", "list_jobs", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, map[string]interface{}{
			"name":        job.Name,
			"cron_expr":   job.CronExpr,
			"enabled":     job.Enabled,
			"description": job.Description,
			"max_items":   job.MaxItems,
			"last_run":    job.LastRun,
			"next_run":    job.NextRun,
		})
	}

	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

type featuredPatch struct {
	Featured bool `json:"featured"`
	Rank     int  `json:"rank"`
}

// SetVideoFeatured toggles a video's editorial placement.
func (h *Handler) SetVideoFeatured(c *gin.Context) {
	var patch featuredPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	videoID := c.Param("id")
	if err := h.videos.SetFeatured(videoID, patch.Featured, patch.Rank); err != nil {
		slog.Error("Database error", "operation", "set_featured", "video_id", videoID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": videoID, "featured": patch.Featured, "rank": patch.Rank})
}

func (h *Handler) ListNotifications(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}

	notifications, err := h.notifications.ListByUser(userID, limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_notifications", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, map[string]interface{}{
			"id":         n.ID,
			"channel_id": n.ChannelID,
			"video_id":   n.VideoID,
			"message":    n.Message,
			"read":       n.Read,
			"created_at": n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.notifications.MarkRead(id); err != nil {
		slog.Error("Database error", "operation", "mark_read", "notification_id", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "read": true})
}

type jobPatch struct {
	CronExpr    *string `json:"cron_expr"`
	Enabled     *bool   `json:"enabled"`
	Description *string `json:"description"`
	MaxItems    *int    `json:"max_items"`
}

// UpdateJob persists the patch, then reconfigures the live timer through
// the scheduler (stop-then-start, never in-place mutation).
func (h *Handler) UpdateJob(c *gin.Context) {
	name := c.Param("name")

	job, err := h.jobs.GetByName(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_job", "job", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	var patch jobPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if patch.CronExpr != nil {
		job.CronExpr = *patch.CronExpr
	}
	if patch.Enabled != nil {
		job.Enabled = *patch.Enabled
	}
	if patch.Description != nil {
		job.Description = *patch.Description
	}
	if patch.MaxItems != nil {
		job.MaxItems = *patch.MaxItems
	}

	if err := h.jobs.Upsert(job); err != nil {
		slog.Error("Database error", "operation", "upsert_job", "job", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if err := h.scheduler.Apply(job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":      job.Name,
		"cron_expr": job.CronExpr,
		"enabled":   job.Enabled,
		"max_items": job.MaxItems,
	})
}
