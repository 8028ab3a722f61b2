package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /v1/bookings.
//
// @Summary      Create a new booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createBookingRequest  true   "Booking details"
// @Success      201              {object}  createBookingResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /v1/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateBookingInput{
		Caller:         ctxCaller(c),
		Kind:           domain.ResourceKind(req.Kind),
		ResourceID:     req.ResourceID,
		TourID:         req.TourID,
		RoomCount:      req.RoomCount,
		BaseAmount:     req.BaseAmount,
		TaxRatePercent: req.TaxRatePercent,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toCreateResponse(result))
}

// Get handles GET /v1/bookings/:id.
//
// @Summary      Get a booking by id
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  bookingResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"), ctxCaller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(detail))
}

// Amend handles PATCH /v1/bookings/:id.
//
// @Summary      Amend a pending booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Booking id"
// @Param        body  body      amendBookingRequest  true  "Fields to change"
// @Success      200   {object}  bookingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/bookings/{id} [patch]
func (h *BookingHandler) Amend(c echo.Context) error {
	var req amendBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.Amend(c.Request().Context(), ports.AmendBookingInput{
		BookingID:      c.Param("id"),
		Caller:         ctxCaller(c),
		BaseAmount:     req.BaseAmount,
		TaxRatePercent: req.TaxRatePercent,
		RoomCount:      req.RoomCount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(detail))
}

// SetStatus handles PUT /v1/bookings/:id/status.
//
// @Summary      Advance a booking's status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Booking id"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  bookingResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/bookings/{id}/status [put]
func (h *BookingHandler) SetStatus(c echo.Context) error {
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.SetStatus(c.Request().Context(), ports.SetStatusInput{
		BookingID: c.Param("id"),
		Caller:    ctxCaller(c),
		NewStatus: req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(detail))
}

// List handles GET /v1/bookings — the caller's own bookings, or another
// user's via ?user_id= for admins.
//
// @Summary      List bookings for a user
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "Purchaser id (admin only)"
// @Param        status   query     string  false  "Filter by status"
// @Param        kind     query     string  false  "Filter by kind"
// @Param        page     query     int     false  "Page (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Success      200      {object}  listBookingsResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	result, err := h.service.ListForUser(c.Request().Context(), listInput(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// ListAll handles GET /v1/admin/bookings.
//
// @Summary      List all bookings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "Filter by purchaser id"
// @Param        status   query     string  false  "Filter by status"
// @Param        kind     query     string  false  "Filter by kind"
// @Param        page     query     int     false  "Page (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Success      200      {object}  listBookingsResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/admin/bookings [get]
func (h *BookingHandler) ListAll(c echo.Context) error {
	result, err := h.service.ListAll(c.Request().Context(), listInput(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

func listInput(c echo.Context) ports.ListBookingsInput {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.ListBookingsInput{
		Caller: ctxCaller(c),
		UserID: c.QueryParam("user_id"),
		Status: c.QueryParam("status"),
		Kind:   c.QueryParam("kind"),
		Page:   page,
		Limit:  limit,
	}
}
