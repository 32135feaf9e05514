package repository

import (
	"context"
	"time"

	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/db"
	"hotel-booking/internal/pkg/pgconv"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// OutboxRepository persists collaborator side effects in the booking's own
// transaction. The dispatcher drains them after commit, so "the booking's
// durable state changed" and "a downstream notification succeeded" stay
// separate facts.
type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, job shared.OutboxJob) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO outbox_jobs (id, kind, payload, run_at, attempts, created_at)
		VALUES ($1, $2, $3, $4, 0, now())`,
		uuid.New(), job.Kind, job.Payload, pgconv.TimeToPgtype(job.RunAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox job", err)
	}
	return nil
}

type OutboxJobRecord struct {
	ID       uuid.UUID
	Kind     string
	Payload  []byte
	Attempts int32
}

// ClaimDue leases a batch of runnable jobs: run_at is pushed to leaseUntil in
// the same statement, so concurrent dispatchers skip them without anyone
// holding row locks across the collaborator calls. A crashed dispatcher's
// claims simply become due again when the lease lapses.
func (r *OutboxRepository) ClaimDue(ctx context.Context, now, leaseUntil time.Time, limit int32) ([]OutboxJobRecord, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE outbox_jobs SET run_at = $2
		WHERE id IN (
			SELECT id FROM outbox_jobs
			WHERE run_at <= $1 AND completed_at IS NULL
			ORDER BY run_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, payload, attempts`,
		pgconv.TimeToPgtype(now), pgconv.TimeToPgtype(leaseUntil), limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox jobs", err)
	}
	defer rows.Close()

	var jobs []OutboxJobRecord
	for rows.Next() {
		var j OutboxJobRecord
		if err := rows.Scan(&j.ID, &j.Kind, &j.Payload, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox jobs", err)
	}
	return jobs, nil
}

func (r *OutboxRepository) MarkCompleted(ctx context.Context, id uuid.UUID, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_jobs SET completed_at = $2, attempts = attempts + 1 WHERE id = $1`,
		id, pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to complete outbox job", err)
	}
	return nil
}

// MarkFailed reschedules the job with backoff, or parks it permanently once
// attempts reach maxAttempts (completed_at set, last_error kept for operators).
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempt int32, maxAttempts int32, nextRun time.Time, now time.Time, lastError string) error {
	if attempt >= maxAttempts {
		_, err := r.db.Exec(ctx, `
			UPDATE outbox_jobs
			SET attempts = $2, completed_at = $3, last_error = $4
			WHERE id = $1`,
			id, attempt, pgconv.TimeToPgtype(now), lastError,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to park outbox job", err)
		}
		return nil
	}
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_jobs
		SET attempts = $2, run_at = $3, last_error = $4
		WHERE id = $1`,
		id, attempt, pgconv.TimeToPgtype(nextRun), lastError,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to reschedule outbox job", err)
	}
	return nil
}
