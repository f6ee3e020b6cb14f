package v2controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/transfersafe/router/lib/responses"
	"github.com/transfersafe/router/lib/service"
	"github.com/transfersafe/router/lib/tokens"
)

// RoleController : Role administration controller struct
type RoleController struct {
	svc *service.RouterService
}

func NewRoleController(svc *service.RouterService) *RoleController {
	return &RoleController{svc: svc}
}

type HasRoleResponseBody struct {
	Role    string `json:"role"`
	Address string `json:"address"`
	HasRole bool   `json:"hasRole"`
}

type GrantRoleRequestBody struct {
	Address string `json:"address" validate:"required,eth_addr"`
}

// HasRole godoc
// @Summary      Check a role membership
// @Accept       json
// @Produce      json
// @Tags         Role
// @Param        role     path      string  true  "DEFAULT_ADMIN_ROLE or ADMIN"
// @Param        address  path      string  true  "Account address"
// @Success      200      {object}  HasRoleResponseBody
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v2/roles/{role}/{address} [get]
func (controller *RoleController) HasRole(c echo.Context) error {
	address, ok := parseAddress(c.Param("address"))
	if !ok {
		return badArguments(c, "address must be a hex encoded account address")
	}
	role := c.Param("role")
	hasRole, err := controller.svc.HasRole(c.Request().Context(), role, address)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, &HasRoleResponseBody{
		Role:    role,
		Address: address.Hex(),
		HasRole: hasRole,
	})
}

// GrantRole godoc
// @Summary      Grant a role
// @Description  Requires DEFAULT_ADMIN_ROLE
// @Accept       json
// @Produce      json
// @Tags         Role
// @Param        role                  path      string                true  "DEFAULT_ADMIN_ROLE or ADMIN"
// @Param        GrantRoleRequestBody  body      GrantRoleRequestBody  true  "Grantee"
// @Success      200                   {object}  HasRoleResponseBody
// @Failure      400                   {object}  responses.ErrorResponse
// @Failure      403                   {object}  responses.ErrorResponse
// @Router       /v2/roles/{role} [post]
// @Security     BearerAuth
func (controller *RoleController) GrantRole(c echo.Context) error {
	caller, ok := tokens.CallerAddress(c)
	if !ok {
		return badAuth(c)
	}

	var body GrantRoleRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load grant role request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid grant role request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	address, _ := parseAddress(body.Address)
	role := c.Param("role")
	if err := controller.svc.GrantRole(c.Request().Context(), caller, role, address); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, &HasRoleResponseBody{Role: role, Address: address.Hex(), HasRole: true})
}

// RevokeRole godoc
// @Summary      Revoke or renounce a role
// @Description  Revoking requires DEFAULT_ADMIN_ROLE. Anybody may renounce their own roles by passing their own address.
// @Accept       json
// @Produce      json
// @Tags         Role
// @Param        role     path      string  true  "DEFAULT_ADMIN_ROLE or ADMIN"
// @Param        address  path      string  true  "Account address"
// @Success      200      {object}  HasRoleResponseBody
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Router       /v2/roles/{role}/{address} [delete]
// @Security     BearerAuth
func (controller *RoleController) RevokeRole(c echo.Context) error {
	caller, ok := tokens.CallerAddress(c)
	if !ok {
		return badAuth(c)
	}
	address, ok := parseAddress(c.Param("address"))
	if !ok {
		return badArguments(c, "address must be a hex encoded account address")
	}

	role := c.Param("role")
	var err error
	if address == caller {
		err = controller.svc.RenounceRole(c.Request().Context(), caller, role)
	} else {
		err = controller.svc.RevokeRole(c.Request().Context(), caller, role, address)
	}
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, &HasRoleResponseBody{Role: role, Address: address.Hex(), HasRole: false})
}
