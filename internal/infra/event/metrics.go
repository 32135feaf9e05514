package event

import (
	"context"
	"log/slog"
	"sync"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/usecase/shared"
)

// MetricsObserver keeps in-process transition counters and logs each
// transition at info level. Counters are exposed through Snapshot for the
// health endpoint.
type MetricsObserver struct {
	mu     sync.Mutex
	counts map[booking.Status]uint64
	logger *slog.Logger
}

func NewMetricsObserver(logger *slog.Logger) *MetricsObserver {
	return &MetricsObserver{
		counts: make(map[booking.Status]uint64),
		logger: logger,
	}
}

func (m *MetricsObserver) BookingTransitioned(_ context.Context, event shared.TransitionEvent) {
	m.mu.Lock()
	m.counts[event.To]++
	m.mu.Unlock()

	m.logger.Info("booking transitioned",
		"booking_id", event.BookingID,
		"confirmation_code", event.ConfirmationCode,
		"from", event.From.String(),
		"to", event.To.String())
}

// Snapshot returns a copy of the per-status transition counters.
func (m *MetricsObserver) Snapshot() map[booking.Status]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[booking.Status]uint64, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}
