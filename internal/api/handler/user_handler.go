package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

// UserHandler exposes the admin role-management endpoint.
type UserHandler struct {
	roleService ports.RoleService
}

func NewUserHandler(roleService ports.RoleService) *UserHandler {
	return &UserHandler{roleService: roleService}
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user cab hotel admin"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// SetRole handles PUT /v1/admin/users/:id/role. Changing a role provisions or
// revokes the user's sellable resource in the same call.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "User id"
// @Param        body  body      setRoleRequest  true  "New role"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/admin/users/{id}/role [put]
func (h *UserHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.roleService.SetRole(c.Request().Context(), ctxCaller(c), c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}
