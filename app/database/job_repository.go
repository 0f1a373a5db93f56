package database

import (
	"database/sql"
	"fmt"
	"time"
)

type JobRepo struct {
	db *DB
}

var _ JobRepository = (*JobRepo)(nil)

func NewJobRepository(db *DB) *JobRepo {
	return &JobRepo{db: db}
}

func (r *JobRepo) List() ([]ScheduledJob, error) {
	rows, err := r.db.Query(`
		SELECT id, name, cron_expr, enabled, description, max_items,
		       last_run, next_run, created_at, updated_at
		FROM scheduled_jobs
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled jobs: %w", err)
	}
	defer rows.Close()

	var jobs []ScheduledJob
	for rows.Next() {
		var j ScheduledJob
		err := rows.Scan(
			&j.ID, &j.Name, &j.CronExpr, &j.Enabled, &j.Description, &j.MaxItems,
			&j.LastRun, &j.NextRun, &j.CreatedAt, &j.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return jobs, nil
}

func (r *JobRepo) GetByName(name string) (*ScheduledJob, error) {
	var j ScheduledJob
	err := r.db.QueryRow(`
		SELECT id, name, cron_expr, enabled, description, max_items,
		       last_run, next_run, created_at, updated_at
		FROM scheduled_jobs
		WHERE name = $1
	`, name).Scan(
		&j.ID, &j.Name, &j.CronExpr, &j.Enabled, &j.Description, &j.MaxItems,
		&j.LastRun, &j.NextRun, &j.CreatedAt, &j.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job by name: %w", err)
	}

	return &j, nil
}

func (r *JobRepo) Upsert(job *ScheduledJob) error {
	_, err := r.db.Exec(`
		INSERT INTO scheduled_jobs (name, cron_expr, enabled, description, max_items)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			cron_expr = EXCLUDED.cron_expr,
			enabled = EXCLUDED.enabled,
			description = EXCLUDED.description,
			max_items = EXCLUDED.max_items,
			updated_at = NOW()
	`, job.Name, job.CronExpr, job.Enabled, job.Description, job.MaxItems)

	if err != nil {
		return fmt.Errorf("failed to upsert job: %w", err)
	}

	return nil
}

func (r *JobRepo) UpdateRunTimes(name string, lastRun *time.Time, nextRun *time.Time) error {
	_, err := r.db.Exec(`
		UPDATE scheduled_jobs
		SET last_run = COALESCE($2, last_run), next_run = $3, updated_at = NOW()
		WHERE name = $1
	`, name, lastRun, nextRun)

	if err != nil {
		return fmt.Errorf("failed to update job run times: %w", err)
	}

	return nil
}
