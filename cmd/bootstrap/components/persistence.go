package components

import (
	"hotel-booking/internal/infra/db"
	"hotel-booking/internal/infra/readstore"
	"hotel-booking/internal/infra/repository"
	"hotel-booking/internal/infra/uow"
	"hotel-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		repository.NewOutboxRepository,
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingQueries)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
