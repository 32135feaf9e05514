package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hotel-booking/internal/infra"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// PaymentGateway records a payment with the payment service. At most one
// payment is expected per booking; the service dedupes on booking_id, so a
// redelivered outbox job is harmless.
type PaymentGateway struct {
	client *httpClient
}

func NewPaymentGateway(baseURL string, timeout time.Duration) *PaymentGateway {
	return &PaymentGateway{client: newHTTPClient(baseURL, timeout)}
}

type createPaymentRequest struct {
	BookingID     uuid.UUID `json:"booking_id"`
	AmountCents   int64     `json:"amount_cents"`
	PaymentMethod string    `json:"payment_method"`
	Description   string    `json:"description"`
}

type createPaymentResponse struct {
	TransactionID string `json:"transaction_id"`
}

func (g *PaymentGateway) CreatePayment(ctx context.Context, payload shared.CreatePaymentJobPayload) (string, error) {
	req := createPaymentRequest{
		BookingID:     payload.BookingID,
		AmountCents:   payload.AmountCents,
		PaymentMethod: payload.PaymentMethod,
		Description:   "Payment for booking " + payload.ConfirmationCode,
	}

	var resp createPaymentResponse
	status, err := g.client.doJSON(ctx, http.MethodPost, "/api/payments", req, &resp)
	if err != nil {
		return "", infra.WrapRepoErr("payment service call failed", err, infra.KindUnavailable)
	}
	if status >= 300 {
		return "", infra.WrapRepoErr(fmt.Sprintf("payment service returned status %d", status), nil, infra.KindUnavailable)
	}
	return resp.TransactionID, nil
}
