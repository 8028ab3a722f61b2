package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tripline/travel-booking/internal/core/ports"
)

// ResourceHandler exposes the browsable catalog and the owner-side capacity
// operation.
type ResourceHandler struct {
	service ports.CatalogService
}

func NewResourceHandler(service ports.CatalogService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

type setCapacityRequest struct {
	ConfiguredCapacity int64 `json:"configured_capacity" validate:"min=0"`
}

type resourceResponse struct {
	ID                 string    `json:"id"`
	Kind               string    `json:"kind"`
	Name               string    `json:"name"`
	City               string    `json:"city,omitempty"`
	ConfiguredCapacity int64     `json:"configured_capacity,omitempty"`
	RoomCapacity       int64     `json:"room_capacity,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type listResourcesResponse struct {
	Data       []resourceResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// List handles GET /v1/resources — catalog listing, anonymous allowed.
//
// @Summary      List catalog resources
// @Tags         catalog
// @Produce      json
// @Param        kind   query     string  false  "hotel or cab"
// @Param        city   query     string  false  "Filter by city"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  listResourcesResponse
// @Router       /v1/resources [get]
func (h *ResourceHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListResourcesInput{
		Kind:  c.QueryParam("kind"),
		City:  c.QueryParam("city"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return err
	}

	items := make([]resourceResponse, len(result.Items))
	for i, r := range result.Items {
		items[i] = toResourceResponse(r)
	}
	return c.JSON(http.StatusOK, listResourcesResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /v1/resources/:id — catalog lookup, anonymous allowed.
//
// @Summary      Get a catalog resource
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Resource id"
// @Success      200  {object}  resourceResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/resources/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResourceResponse(*detail))
}

// SetCapacity handles PUT /v1/resources/:id/capacity.
//
// @Summary      Change a hotel's configured room capacity
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Resource id"
// @Param        body  body      setCapacityRequest  true  "New configured capacity"
// @Success      200   {object}  resourceResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/resources/{id}/capacity [put]
func (h *ResourceHandler) SetCapacity(c echo.Context) error {
	var req setCapacityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.SetCapacity(c.Request().Context(), ctxCaller(c), c.Param("id"), req.ConfiguredCapacity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResourceResponse(*detail))
}

func toResourceResponse(r ports.ResourceDetail) resourceResponse {
	return resourceResponse{
		ID:                 r.ID,
		Kind:               r.Kind,
		Name:               r.Name,
		City:               r.City,
		ConfiguredCapacity: r.ConfiguredCapacity,
		RoomCapacity:       r.RoomCapacity,
		CreatedAt:          r.CreatedAt.UTC(),
	}
}
