package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// RoomGateway talks to the room service. GetRoom feeds the creation-time rate
// and occupancy checks; SetRoomStatus is the best-effort flag the dispatcher
// re-asserts after transitions.
type RoomGateway struct {
	client *httpClient
}

func NewRoomGateway(baseURL string, timeout time.Duration) *RoomGateway {
	return &RoomGateway{client: newHTTPClient(baseURL, timeout)}
}

type roomDTO struct {
	ID               uuid.UUID `json:"id"`
	RoomNumber       string    `json:"room_number"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	MaxOccupancy     int       `json:"max_occupancy"`
	Status           string    `json:"status"`
}

func (g *RoomGateway) GetRoom(ctx context.Context, roomID uuid.UUID) (*shared.RoomSnapshot, error) {
	var dto roomDTO
	status, err := g.client.doJSON(ctx, http.MethodGet, "/api/rooms/"+roomID.String(), nil, &dto)
	if err != nil {
		return nil, infra.WrapRepoErr("room service call failed", err, infra.KindUnavailable)
	}
	switch {
	case status == http.StatusNotFound:
		return nil, infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	case status >= 300:
		return nil, infra.WrapRepoErr(fmt.Sprintf("room service returned status %d", status), nil, infra.KindUnavailable)
	}

	return &shared.RoomSnapshot{
		ID:           dto.ID,
		RoomNumber:   dto.RoomNumber,
		NightlyRate:  dto.NightlyRateCents,
		MaxOccupancy: dto.MaxOccupancy,
		Status:       booking.RoomStatus(dto.Status),
	}, nil
}

// SetRoomStatus is idempotent on the room service side; the dispatcher treats
// any failure as retryable and never reports it back to the booking.
func (g *RoomGateway) SetRoomStatus(ctx context.Context, roomID uuid.UUID, roomStatus booking.RoomStatus) error {
	payload := map[string]string{"status": roomStatus.String()}
	status, err := g.client.doJSON(ctx, http.MethodPatch, "/api/rooms/"+roomID.String()+"/status", payload, nil)
	if err != nil {
		return infra.WrapRepoErr("room status update failed", err, infra.KindUnavailable)
	}
	if status == http.StatusNotFound {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	if status >= 300 {
		return infra.WrapRepoErr(fmt.Sprintf("room service returned status %d", status), nil, infra.KindUnavailable)
	}
	return nil
}
