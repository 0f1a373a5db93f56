package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/golazo-tv/golazo/app/database"
)

// Runner executes the logical pipeline behind a named job. The pipeline's
// own idempotence guarantees make a scheduled run harmless next to a
// concurrent manual trigger, so the scheduler never serializes them.
type Runner interface {
	RunJob(ctx context.Context, jobName string, maxItems int)
}

type RunnerFunc func(ctx context.Context, jobName string, maxItems int)

func (f RunnerFunc) RunJob(ctx context.Context, jobName string, maxItems int) {
	f(ctx, jobName, maxItems)
}

// Scheduler owns the mapping from job name to active cron entry. All
// start/stop/replace operations go through Apply under one mutex, so at most
// one active timer exists per task name.
type Scheduler struct {
	jobs   database.JobRepository
	runner Runner
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func New(jobs database.JobRepository, runner Runner) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		jobs:    jobs,
		runner:  runner,
		cron:    cron.New(),
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]cron.EntryID),
	}
}

// Start reconstructs timers from persisted configuration: enabled jobs are
// scheduled and their next_run recomputed and persisted.
func (s *Scheduler) Start() error {
	jobs, err := s.jobs.List()
	if err != nil {
		return fmt.Errorf("failed to load scheduled jobs: %w", err)
	}

	for _, job := range jobs {
		if !job.Enabled {
			continue
		}
		if err := s.Apply(&job); err != nil {
			slog.Warn("Failed to schedule job", "job", job.Name, "error", err)
		}
	}

	s.cron.Start()
	slog.Info("Scheduler started", "jobs", len(s.entries))

	return nil
}

// Apply reconfigures one job: any existing timer for the name is stopped
// before a new one starts. Disabled jobs end up with no timer and a cleared
// next_run. An invalid cron expression leaves the job stopped.
func (s *Scheduler) Apply(job *database.ScheduledJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[job.Name]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, job.Name)
	}

	if !job.Enabled {
		if err := s.jobs.UpdateRunTimes(job.Name, nil, nil); err != nil {
			slog.Warn("Failed to clear next run", "job", job.Name, "error", err)
		}
		slog.Info("Job stopped", "job", job.Name)
		return nil
	}

	schedule, err := cron.ParseStandard(job.CronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression '%s': %w", job.CronExpr, err)
	}

	name := job.Name
	maxItems := job.MaxItems
	entryID := s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.fire(name, maxItems, schedule)
	}))
	s.entries[job.Name] = entryID

	next := schedule.Next(time.Now().UTC())
	if err := s.jobs.UpdateRunTimes(job.Name, nil, &next); err != nil {
		slog.Warn("Failed to persist next run", "job", job.Name, "error", err)
	}

	slog.Info("Job scheduled", "job", job.Name, "cron", job.CronExpr, "next_run", next)

	return nil
}

// Remove stops the timer for a name without touching persisted state. An
// in-flight execution is not interrupted.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[name]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, name)
	}
}

// ActiveJobs returns the names with a live timer.
func (s *Scheduler) ActiveJobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// Stop halts all timers and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.cancel()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) fire(name string, maxItems int, schedule cron.Schedule) {
	now := time.Now().UTC()
	next := schedule.Next(now)
	if err := s.jobs.UpdateRunTimes(name, &now, &next); err != nil {
		slog.Warn("Failed to persist run times", "job", name, "error", err)
	}

	slog.Info("Job fired", "job", name, "next_run", next)
	s.runner.RunJob(s.ctx, name, maxItems)
}
