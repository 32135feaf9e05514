package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher broadcasts committed booking transitions on a topic exchange.
// Publishing is fire-and-forget: a broker hiccup is logged and the transition
// stands, consumers that need completeness reconcile from the store.
type AMQPPublisher struct {
	ch       *amqp.Channel
	exchange string
	logger   *slog.Logger
}

type transitionMessage struct {
	BookingID        uuid.UUID `json:"booking_id"`
	RoomID           uuid.UUID `json:"room_id"`
	UserID           uuid.UUID `json:"user_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	FromStatus       string    `json:"from_status"`
	ToStatus         string    `json:"to_status"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func NewAMQPPublisher(conn *amqp.Connection, exchange string, logger *slog.Logger) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return &AMQPPublisher{ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *AMQPPublisher) BookingTransitioned(ctx context.Context, event shared.TransitionEvent) {
	body, err := json.Marshal(transitionMessage{
		BookingID:        event.BookingID,
		RoomID:           event.RoomID,
		UserID:           event.UserID,
		ConfirmationCode: event.ConfirmationCode,
		FromStatus:       event.From.String(),
		ToStatus:         event.To.String(),
		OccurredAt:       event.OccurredAt,
	})
	if err != nil {
		p.logger.Error("failed to marshal transition event", "booking_id", event.BookingID, "error", err.Error())
		return
	}

	// Routing key like "booking.confirmed" so consumers can bind per status.
	routingKey := "booking." + toRoutingSegment(event.To.String())

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Warn("failed to publish transition event",
			"booking_id", event.BookingID,
			"routing_key", routingKey,
			"error", err.Error())
	}
}

func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

func toRoutingSegment(status string) string {
	out := make([]byte, 0, len(status))
	for i := 0; i < len(status); i++ {
		c := status[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		case c == '_':
			out = append(out, '.')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
