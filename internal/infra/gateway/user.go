package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hotel-booking/internal/infra"

	"github.com/google/uuid"
)

// UserGateway answers the single question the engine asks about users: does
// this userID reference someone real.
type UserGateway struct {
	client *httpClient
}

func NewUserGateway(baseURL string, timeout time.Duration) *UserGateway {
	return &UserGateway{client: newHTTPClient(baseURL, timeout)}
}

func (g *UserGateway) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	status, err := g.client.doJSON(ctx, http.MethodGet, "/api/users/"+userID.String(), nil, nil)
	if err != nil {
		return false, infra.WrapRepoErr("user service call failed", err, infra.KindUnavailable)
	}
	switch {
	case status == http.StatusNotFound:
		return false, nil
	case status >= 300:
		return false, infra.WrapRepoErr(fmt.Sprintf("user service returned status %d", status), nil, infra.KindUnavailable)
	}
	return true, nil
}
