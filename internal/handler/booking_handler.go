package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"carrental/internal/auth"
	"carrental/internal/errors"
	"carrental/internal/model"
	"carrental/internal/response"
	"carrental/internal/service"
)

// BookingHandler handles booking endpoints. Every route requires an authenticated caller.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest represents a booking request.
type CreateBookingRequest struct {
	CarName    string `json:"carName" validate:"required,max=255"`
	Days       int    `json:"days" validate:"required,min=1,max=365"`
	RentPerDay int    `json:"rentPerDay" validate:"required,min=1,max=2000"`
}

// UpdateBookingRequest carries either the full field set or a status.
type UpdateBookingRequest struct {
	CarName    string `json:"carName"`
	Days       int    `json:"days"`
	RentPerDay int    `json:"rentPerDay"`
	Status     string `json:"status" enums:"booked,completed,cancelled"`
}

// Create godoc
// @Summary Create a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}

	var req CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.bookingService.Create(c.Request().Context(), caller, service.BookingInput{
		CarName:    req.CarName,
		Days:       req.Days,
		RentPerDay: req.RentPerDay,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, "Booking created successfully", echo.Map{
		"bookingId": booking.ID,
		"totalCost": booking.TotalCost(),
	})
}

// Get godoc
// @Summary Get a booking, or the caller's booking summary
// @Description With summary=true the path id is ignored and the caller's bookings are aggregated.
// @Description Cancelled bookings are excluded from totalBookings and totalAmountSpent.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param summary query bool false "Return the caller's summary instead"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}

	summary, err := summaryFlag(c)
	if err != nil {
		return err
	}

	if summary {
		s, err := h.bookingService.Summary(c.Request().Context(), caller)
		if err != nil {
			return err
		}
		return response.Success(c, http.StatusOK, "Bookings summary", echo.Map{
			"userId":           s.UserID,
			"username":         s.Username,
			"totalBookings":    s.TotalBookings,
			"totalAmountSpent": s.TotalAmountSpent,
		})
	}

	id, err := bookingID(c)
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, fmt.Sprintf("Booking %d found", id), bookingView(booking))
}

// Update godoc
// @Summary Update a booking's fields or status
// @Description Send either carName, days and rentPerDay together, or status alone.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param request body UpdateBookingRequest true "Fields or status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /bookings/{id} [put]
func (h *BookingHandler) Update(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}

	id, err := bookingID(c)
	if err != nil {
		return err
	}

	var req UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", errors.ErrInvalidInput)
	}

	// A partial field set counts as absent.
	update := service.BookingUpdate{Status: model.BookingStatus(req.Status)}
	if req.CarName != "" && req.Days != 0 && req.RentPerDay != 0 {
		update.Details = &service.BookingInput{
			CarName:    req.CarName,
			Days:       req.Days,
			RentPerDay: req.RentPerDay,
		}
	}

	booking, err := h.bookingService.Update(c.Request().Context(), caller, id, update)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "Booking updated successfully", echo.Map{
		"booking": bookingView(booking),
	})
}

// Delete godoc
// @Summary Delete a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}

	id, err := bookingID(c)
	if err != nil {
		return err
	}

	if err := h.bookingService.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "Booking deleted successfully", nil)
}

// bookingView is the public form of a booking: no owner, cost computed now.
func bookingView(b *model.Booking) echo.Map {
	return echo.Map{
		"id":           b.ID,
		"car_name":     b.CarName,
		"days":         b.Days,
		"rent_per_day": b.RentPerDay,
		"status":       b.Status,
		"totalCost":    b.TotalCost(),
	}
}

func identity(c echo.Context) (service.Identity, error) {
	claims, err := auth.CurrentUser(c)
	if err != nil {
		return service.Identity{}, err
	}
	return service.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

func bookingID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid booking id", errors.ErrInvalidInput)
	}
	return uint(id), nil
}

func summaryFlag(c echo.Context) (bool, error) {
	raw := c.QueryParam("summary")
	if raw == "" {
		return false, nil
	}
	summary, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: summary must be a boolean", errors.ErrInvalidInput)
	}
	return summary, nil
}
