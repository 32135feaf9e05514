package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CachedRoomGateway puts a short-TTL Redis cache in front of room lookups.
// The cache is best-effort in both directions: any Redis error falls through
// to the room service, and a stale rate only survives for the TTL window.
// Status checks stay safe regardless since the room flag is never
// authoritative for overlap safety.
type CachedRoomGateway struct {
	inner *RoomGateway
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedRoomGateway(inner *RoomGateway, rdb *redis.Client, ttl time.Duration) *CachedRoomGateway {
	return &CachedRoomGateway{inner: inner, rdb: rdb, ttl: ttl}
}

func (g *CachedRoomGateway) GetRoom(ctx context.Context, roomID uuid.UUID) (*shared.RoomSnapshot, error) {
	key := "room:" + roomID.String()

	if data, err := g.rdb.Get(ctx, key).Bytes(); err == nil {
		var snap shared.RoomSnapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return &snap, nil
		}
		// Unreadable entries are dropped, not trusted.
		_ = g.rdb.Del(ctx, key).Err()
	}

	snap, err := g.inner.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := g.rdb.Set(ctx, key, data, g.ttl).Err(); err != nil {
			slog.Debug("room cache write failed", "room_id", roomID, "error", err.Error())
		}
	}
	return snap, nil
}
