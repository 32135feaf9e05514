package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hotel-booking/internal/handler/api"
	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/infra/event"
	"hotel-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware, metrics *event.MetricsObserver) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, authMiddleware, metrics)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware, metrics *event.MetricsObserver) {
	engine.GET("/health", healthCheck(metrics))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodGet, Path: "/confirmation/:code", Handler: bookingHandler.GetBookingByConfirmationCode},
				{Method: http.MethodGet, Path: "/user/:userId", Handler: bookingHandler.GetUserBookings},
				{Method: http.MethodGet, Path: "/user/:userId/active", Handler: bookingHandler.GetActiveUserBookings},
				{Method: http.MethodGet, Path: "/room/:roomId", Handler: bookingHandler.GetRoomBookings},
				{Method: http.MethodGet, Path: "/upcoming", Handler: bookingHandler.GetUpcomingBookings},
				{Method: http.MethodGet, Path: "/check-ins/today", Handler: bookingHandler.GetTodayCheckIns},
				{Method: http.MethodGet, Path: "/check-outs/today", Handler: bookingHandler.GetTodayCheckOuts},
				{Method: http.MethodPut, Path: "/:id", Handler: bookingHandler.UpdateBooking},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: bookingHandler.ConfirmBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.CancelBooking},
				{Method: http.MethodPost, Path: "/:id/check-in", Handler: bookingHandler.CheckIn},
				{Method: http.MethodPost, Path: "/:id/check-out", Handler: bookingHandler.CheckOut},
				{Method: http.MethodDelete, Path: "/:id", Handler: bookingHandler.DeleteBooking},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func healthCheck(metrics *event.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		transitions := gin.H{}
		for status, count := range metrics.Snapshot() {
			transitions[status.String()] = count
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"transitions": transitions,
		})
	}
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
