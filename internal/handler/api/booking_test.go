//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"hotel-booking/internal/handler/api"
	resdto "hotel-booking/internal/handler/dto/response"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/tests/common/builder"
	"hotel-booking/tests/common/httptest"
	"hotel-booking/tests/common/testutil"
	commandsmock "hotel-booking/tests/mock/commands"
	queriesmock "hotel-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", uuid.New())
		c.Next()
	}

	// Setup routes
	bookings := s.router.Group("/bookings")
	bookings.Use(authMiddleware)
	bookings.POST("", s.handler.CreateBooking)
	bookings.GET("/:id", s.handler.GetBooking)
	bookings.GET("/confirmation/:code", s.handler.GetBookingByConfirmationCode)
	bookings.GET("/user/:userId", s.handler.GetUserBookings)
	bookings.GET("/user/:userId/active", s.handler.GetActiveUserBookings)
	bookings.GET("/room/:roomId", s.handler.GetRoomBookings)
	bookings.GET("/upcoming", s.handler.GetUpcomingBookings)
	bookings.GET("/check-ins/today", s.handler.GetTodayCheckIns)
	bookings.GET("/check-outs/today", s.handler.GetTodayCheckOuts)
	bookings.PUT("/:id", s.handler.UpdateBooking)
	bookings.POST("/:id/confirm", s.handler.ConfirmBooking)
	bookings.POST("/:id/cancel", s.handler.CancelBooking)
	bookings.POST("/:id/check-in", s.handler.CheckIn)
	bookings.POST("/:id/check-out", s.handler.CheckOut)
	bookings.DELETE("/:id", s.handler.DeleteBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

// ================================================================================
// TestCreateBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"

	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	returnView := builder.NewBookingBuilder().BuildView()

	s.Run("success: returns 201 Created for valid request", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal(returnView.ConfirmationCode, response.ConfirmationCode)
		s.Equal("2025-03-01", response.CheckInDate)
		s.Equal("2025-03-04", response.CheckOutDate)
		s.Equal(3, response.NumberOfNights)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: room_id", mutate: testutil.Field("room_id", nil)},
			{name: "missing field: user_id", mutate: testutil.Field("user_id", nil)},
			{name: "missing field: check_in_date", mutate: testutil.Field("check_in_date", nil)},
			{name: "missing field: check_out_date", mutate: testutil.Field("check_out_date", nil)},
			{name: "missing field: number_of_guests", mutate: testutil.Field("number_of_guests", nil)},
			{name: "malformed date", mutate: testutil.Field("check_in_date", "March 1st 2025")},
			{name: "timestamp instead of date", mutate: testutil.Field("check_in_date", "2025-03-01T10:00:00Z")},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "room not found",
				commandsError:  errs.ErrRoomNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Room not found",
			},
			{
				name:           "user not found",
				commandsError:  errs.ErrUserNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "User not found",
			},
			{
				name:           "invalid stay period",
				commandsError:  errs.ErrInvalidStayPeriod,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid stay period",
			},
			{
				name:           "invalid guest count",
				commandsError:  errs.ErrInvalidGuestCount,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid guest count",
			},
			{
				name:           "guests exceed room capacity",
				commandsError:  errs.ErrGuestsExceedRoom,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "capacity",
			},
			{
				name:           "overlapping booking",
				commandsError:  errs.ErrBookingConflict,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "already booked",
			},
			{
				name:           "room not available",
				commandsError:  errs.ErrRoomNotAvailable,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "not available",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGetBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("success: returns 200 OK with BookingResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
		s.Equal(returnView.Status, response.Status)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: 404 Not Found for missing booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), bookingID).
			Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})

	s.Run("error: 500 on query failure", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), bookingID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestGetBookingByConfirmationCode
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetBookingByConfirmationCode() {
	returnView := builder.NewBookingBuilder().BuildView()
	url := "/bookings/confirmation/" + returnView.ConfirmationCode

	s.Run("success: returns 200 OK", func() {
		s.mockQueries.EXPECT().GetByConfirmationCode(gomock.Any(), returnView.ConfirmationCode).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnView.ConfirmationCode, response.ConfirmationCode)
	})

	s.Run("error: 404 Not Found for unknown code", func() {
		s.mockQueries.EXPECT().GetByConfirmationCode(gomock.Any(), returnView.ConfirmationCode).
			Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

// ================================================================================
// TestListBookings
// ================================================================================

func (s *BookingHandlerTestSuite) TestListBookings() {
	userID := uuid.New()
	roomID := uuid.New()

	s.Run("success: returns user bookings", func() {
		item := builder.NewBookingBuilder().WithUserID(userID).BuildView()
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), userID).
			Return(listOf(item), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/user/"+userID.String(), nil, "bearer-token")

		var response []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
		s.Equal(userID, response[0].UserID)
	})

	s.Run("success: returns active user bookings", func() {
		item := builder.NewBookingBuilder().WithUserID(userID).BuildView()
		s.mockQueries.EXPECT().ListActiveByUser(gomock.Any(), userID).
			Return(listOf(item), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/user/"+userID.String()+"/active", nil, "bearer-token")

		var response []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
	})

	s.Run("success: returns room bookings", func() {
		item := builder.NewBookingBuilder().WithRoomID(roomID).BuildView()
		s.mockQueries.EXPECT().ListByRoom(gomock.Any(), roomID).
			Return(listOf(item), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/room/"+roomID.String(), nil, "bearer-token")

		var response []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
		s.Equal(roomID, response[0].RoomID)
	})

	s.Run("error: 400 Bad Request for invalid user UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/user/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid user ID")
	})
}

// ================================================================================
// TestScheduleViews
// ================================================================================

func (s *BookingHandlerTestSuite) TestScheduleViews() {
	s.Run("success: returns upcoming bookings", func() {
		item := builder.NewBookingBuilder().BuildView()
		s.mockQueries.EXPECT().ListUpcoming(gomock.Any()).
			Return(listOf(item), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/upcoming", nil, "bearer-token")

		var response []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
	})

	s.Run("success: returns today's check-ins", func() {
		item := builder.NewBookingBuilder().BuildView()
		s.mockQueries.EXPECT().ListTodayCheckIns(gomock.Any()).
			Return(listOf(item), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/check-ins/today", nil, "bearer-token")

		var response []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
	})

	s.Run("success: returns today's check-outs", func() {
		s.mockQueries.EXPECT().ListTodayCheckOuts(gomock.Any()).
			Return(listOf(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/check-outs/today", nil, "bearer-token")

		var response []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 500 on query failure", func() {
		s.mockQueries.EXPECT().ListUpcoming(gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/upcoming", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func listOf(views ...*queries.BookingView) []*queries.BookingView {
	return views
}

// ================================================================================
// TestLifecycleTransitions
// ================================================================================

func (s *BookingHandlerTestSuite) TestConfirmBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/confirm"

	reqBody := map[string]any{"amount_cents": 36000, "payment_method": "CREDIT_CARD"}
	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("success: returns 200 OK", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), bookingID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 when payment details missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 409 Conflict when not pending", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), bookingID, gomock.Any()).
			Return(nil, errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "state does not allow")
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/cancel"

	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("success: returns 200 OK with reason", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), bookingID, "change of plans").
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "change of plans"}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 409 Conflict for checked-in booking", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), bookingID, gomock.Any()).
			Return(nil, errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "too late"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}

func (s *BookingHandlerTestSuite) TestCheckInAndOut() {
	bookingID := uuid.New()
	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("success: check-in returns 200 OK", func() {
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+bookingID.String()+"/check-in", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 422 when check-in date has not arrived", func() {
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), bookingID).
			Return(nil, errs.ErrCheckInTooEarly).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+bookingID.String()+"/check-in", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "not arrived")
	})

	s.Run("success: check-out returns 200 OK", func() {
		s.mockCommands.EXPECT().CheckOut(gomock.Any(), bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+bookingID.String()+"/check-out", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 409 when checking out before check-in", func() {
		s.mockCommands.EXPECT().CheckOut(gomock.Any(), bookingID).
			Return(nil, errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+bookingID.String()+"/check-out", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}

// ================================================================================
// TestUpdateBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestUpdateBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("success: partial update returns 200 OK", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), bookingID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"number_of_guests": 3}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 for malformed date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"check_in_date": "not-a-date"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "YYYY-MM-DD")
	})

	s.Run("error: 409 Conflict when reschedule overlaps", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), bookingID, gomock.Any()).
			Return(nil, errs.ErrBookingConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"check_out_date": "2025-03-10"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already booked")
	})
}

// ================================================================================
// TestDeleteBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestDeleteBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), bookingID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 409 Conflict for active booking", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), bookingID).
			Return(errs.ErrBookingActive).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Active bookings")
	})

	s.Run("error: 404 Not Found for missing booking", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), bookingID).
			Return(errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}
