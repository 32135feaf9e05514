package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/infra/repository"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Ports the dispatcher drives; the gateways implement them, tests fake them.

type RoomStatusNotifier interface {
	SetRoomStatus(ctx context.Context, roomID uuid.UUID, status booking.RoomStatus) error
}

type PaymentCreator interface {
	CreatePayment(ctx context.Context, payload shared.CreatePaymentJobPayload) (string, error)
}

type OutboxStore interface {
	ClaimDue(ctx context.Context, now, leaseUntil time.Time, limit int32) ([]repository.OutboxJobRecord, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempt, maxAttempts int32, nextRun, now time.Time, lastError string) error
}

const (
	leaseDuration   = time.Minute
	retryBase       = 30 * time.Second
	retryCap        = 10 * time.Minute
	dispatchTimeout = 10 * time.Second
)

// Dispatcher drains the outbox: the best-effort half of every booking
// transition. Failures here are logged, counted against the job and retried
// on a backoff; they can never reach back into booking state.
type Dispatcher struct {
	store    OutboxStore
	rooms    RoomStatusNotifier
	payments PaymentCreator
	cfg      config.WorkerConfig
	clock    clock.Clock
	logger   *slog.Logger
}

func NewDispatcher(
	store OutboxStore,
	rooms RoomStatusNotifier,
	payments PaymentCreator,
	cfg config.WorkerConfig,
	clk clock.Clock,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		rooms:    rooms,
		payments: payments,
		cfg:      cfg,
		clock:    clk,
		logger:   logger,
	}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := d.RunOnce(ctx); err != nil {
				d.logger.Error("outbox poll failed", "error", err.Error())
			}
		}
	}
}

// RunOnce claims and dispatches one batch, returning how many jobs completed.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	now := d.clock.Now()
	jobs, err := d.store.ClaimDue(ctx, now, now.Add(leaseDuration), d.cfg.BatchSize)
	if err != nil {
		return 0, errs.Wrap(err, "failed to claim outbox batch")
	}

	completed := 0
	for _, job := range jobs {
		if err := d.dispatch(ctx, job); err != nil {
			attempt := job.Attempts + 1
			d.logger.Warn("outbox job failed",
				"job_id", job.ID,
				"kind", job.Kind,
				"attempt", attempt,
				"error", err.Error())
			nextRun := d.clock.Now().Add(backoff(attempt))
			if markErr := d.store.MarkFailed(ctx, job.ID, attempt, d.cfg.MaxAttempts, nextRun, d.clock.Now(), err.Error()); markErr != nil {
				d.logger.Error("failed to record outbox failure", "job_id", job.ID, "error", markErr.Error())
			}
			continue
		}
		if err := d.store.MarkCompleted(ctx, job.ID, d.clock.Now()); err != nil {
			d.logger.Error("failed to complete outbox job", "job_id", job.ID, "error", err.Error())
			continue
		}
		completed++
	}
	return completed, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, job repository.OutboxJobRecord) error {
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	switch job.Kind {
	case shared.JobRoomStatus:
		var payload shared.RoomStatusJobPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return errs.Wrap(err, "bad room status payload")
		}
		return d.rooms.SetRoomStatus(ctx, payload.RoomID, payload.Status)

	case shared.JobCreatePayment:
		var payload shared.CreatePaymentJobPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return errs.Wrap(err, "bad payment payload")
		}
		txID, err := d.payments.CreatePayment(ctx, payload)
		if err != nil {
			return err
		}
		d.logger.Info("payment recorded",
			"booking_id", payload.BookingID,
			"transaction_id", txID)
		return nil

	default:
		// Unknown kinds are parked immediately rather than retried forever.
		return errs.New("unknown outbox job kind: " + job.Kind)
	}
}

func backoff(attempt int32) time.Duration {
	d := retryBase << uint(attempt-1)
	if d > retryCap || d <= 0 {
		return retryCap
	}
	return d
}
