package api

import (
	"errors"
	"net/http"

	reqdto "hotel-booking/internal/handler/dto/request"
	resdto "hotel-booking/internal/handler/dto/response"
	"hotel-booking/internal/handler/httperr"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Create a new booking for a room and date range
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params, err := req.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Dates must use the YYYY-MM-DD format", nil)
		return
	}

	view, err := h.bookingCommands.Create(c.Request.Context(), params)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Get booking by confirmation code
// @Description Look up a booking using its confirmation code
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param code path string true "Confirmation code"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} httperr.Response
// @Router /bookings/confirmation/{code} [get]
func (h *BookingHandler) GetBookingByConfirmationCode(c *gin.Context) {
	view, err := h.bookingQueries.GetByConfirmationCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List user bookings
// @Description List all bookings for a user, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {array} resdto.BookingResponse
// @Router /bookings/user/{userId} [get]
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user ID format", nil)
		return
	}

	views, err := h.bookingQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

// @Summary List active user bookings
// @Description List a user's bookings that still hold their dates
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {array} resdto.BookingResponse
// @Router /bookings/user/{userId}/active [get]
func (h *BookingHandler) GetActiveUserBookings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user ID format", nil)
		return
	}

	views, err := h.bookingQueries.ListActiveByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

// @Summary List room bookings
// @Description List all bookings for a room ordered by check-in date
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param roomId path string true "Room ID"
// @Success 200 {array} resdto.BookingResponse
// @Router /bookings/room/{roomId} [get]
func (h *BookingHandler) GetRoomBookings(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room ID format", nil)
		return
	}

	views, err := h.bookingQueries.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

// @Summary List upcoming bookings
// @Description List pending and confirmed bookings with a future check-in date
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Router /bookings/upcoming [get]
func (h *BookingHandler) GetUpcomingBookings(c *gin.Context) {
	views, err := h.bookingQueries.ListUpcoming(c.Request.Context())
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

// @Summary List today's check-ins
// @Description List confirmed bookings whose check-in date is today
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Router /bookings/check-ins/today [get]
func (h *BookingHandler) GetTodayCheckIns(c *gin.Context) {
	views, err := h.bookingQueries.ListTodayCheckIns(c.Request.Context())
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

// @Summary List today's check-outs
// @Description List checked-in bookings whose check-out date is today
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Router /bookings/check-outs/today [get]
func (h *BookingHandler) GetTodayCheckOuts(c *gin.Context) {
	views, err := h.bookingQueries.ListTodayCheckOuts(c.Request.Context())
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

// @Summary Update booking
// @Description Partially update a booking's dates, guests, requests or payment method
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingRequest true "Fields to change"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id} [put]
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params, err := req.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Dates must use the YYYY-MM-DD format", nil)
		return
	}

	view, err := h.bookingCommands.Update(c.Request.Context(), id, params)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Confirm booking
// @Description Confirm a pending booking and record its payment
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmBookingRequest true "Payment details"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req reqdto.ConfirmBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.bookingCommands.Confirm(c.Request.Context(), id, req.ToParams())
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Description Cancel a pending or confirmed booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req reqdto.CancelBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.bookingCommands.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Check in
// @Description Check a confirmed booking in on or after its check-in date
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	view, err := h.bookingCommands.CheckIn(c.Request.Context(), id)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Check out
// @Description Check a checked-in booking out and release its room
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/check-out [post]
func (h *BookingHandler) CheckOut(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	view, err := h.bookingCommands.CheckOut(c.Request.Context(), id)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Delete booking
// @Description Delete an inactive booking record
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204 {object} nil
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id} [delete]
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.bookingCommands.Delete(c.Request.Context(), id); err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *BookingHandler) respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, errs.ErrRoomNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Room not found", nil)
	case errors.Is(err, errs.ErrUserNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
	case errors.Is(err, errs.ErrInvalidStayPeriod):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay period", nil)
	case errors.Is(err, errs.ErrInvalidGuestCount):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid guest count", nil)
	case errors.Is(err, errs.ErrGuestsExceedRoom):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Guest count exceeds room capacity", nil)
	case errors.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Domain validation failed", nil)
	case errors.Is(err, errs.ErrBookingConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Room is already booked for the requested dates", nil)
	case errors.Is(err, errs.ErrRoomNotAvailable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Room is not available", nil)
	case errors.Is(err, errs.ErrBookingActive):
		httperr.AbortWithError(c, http.StatusConflict, err, "Active bookings cannot be deleted", nil)
	case errors.Is(err, errs.ErrConfirmationCodeExhausted):
		httperr.AbortWithError(c, http.StatusConflict, err, "Could not allocate a confirmation code", nil)
	case errors.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking state does not allow this operation", nil)
	case errors.Is(err, errs.ErrCheckInTooEarly):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Check-in date has not arrived yet", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *BookingHandler) respondQueryError(c *gin.Context, err error) {
	if errors.Is(err, errs.ErrBookingNotFound) {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
