package v2controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/transfersafe/router/lib/responses"
	"github.com/transfersafe/router/lib/service"
	"github.com/transfersafe/router/lib/tokens"
)

// FeeController : Fee rate controller struct
type FeeController struct {
	svc *service.RouterService
}

func NewFeeController(svc *service.RouterService) *FeeController {
	return &FeeController{svc: svc}
}

type FeeResponseBody struct {
	FeeRate uint64 `json:"feeRate"`
}

type SetFeeRequestBody struct {
	FeeRate *uint64 `json:"feeRate" validate:"required"`
}

type CollectedFeesResponseBody struct {
	Collected uint64 `json:"collected"`
}

// GetFee godoc
// @Summary      Retrieve the fee rate
// @Description  Returns the current fee rate in per mille (10 = 1%)
// @Accept       json
// @Produce      json
// @Tags         Fee
// @Success      200  {object}  FeeResponseBody
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/fee [get]
func (controller *FeeController) GetFee(c echo.Context) error {
	rate, err := controller.svc.GetFee(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, &FeeResponseBody{FeeRate: rate})
}

// SetFee godoc
// @Summary      Change the fee rate
// @Description  Replaces the fee rate. Requires the ADMIN role.
// @Accept       json
// @Produce      json
// @Tags         Fee
// @Param        SetFeeRequestBody  body      SetFeeRequestBody  true  "New fee rate"
// @Success      200                {object}  FeeResponseBody
// @Failure      400                {object}  responses.ErrorResponse
// @Failure      403                {object}  responses.ErrorResponse
// @Failure      500                {object}  responses.ErrorResponse
// @Router       /v2/fee [put]
// @Security     BearerAuth
func (controller *FeeController) SetFee(c echo.Context) error {
	caller, ok := tokens.CallerAddress(c)
	if !ok {
		return badAuth(c)
	}

	var body SetFeeRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load set fee request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid set fee request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := controller.svc.SetFee(c.Request().Context(), caller, *body.FeeRate); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, &FeeResponseBody{FeeRate: *body.FeeRate})
}

// CollectedFees godoc
// @Summary      Retrieve collected fees
// @Description  Sums the fees of all released invoices. Requires the ADMIN role.
// @Accept       json
// @Produce      json
// @Tags         Fee
// @Success      200  {object}  CollectedFeesResponseBody
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/fees/collected [get]
// @Security     BearerAuth
func (controller *FeeController) CollectedFees(c echo.Context) error {
	caller, ok := tokens.CallerAddress(c)
	if !ok {
		return badAuth(c)
	}
	collected, err := controller.svc.CollectedFees(c.Request().Context(), caller)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, &CollectedFeesResponseBody{Collected: collected})
}
