package v2controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/transfersafe/router/lib/service"
)

type HealthController struct {
	svc *service.RouterService
}

func NewHealthController(svc *service.RouterService) *HealthController {
	return &HealthController{svc: svc}
}

type HealthResponse struct {
	Result  string `json:"result"`
	ChainID int64  `json:"chainId"`
}

// Health godoc
// @Summary      Check system health
// @Description  Checks that the database is reachable and the router initialized
// @Accept       json
// @Produce      json
// @Tags         Health
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/health [get]
func (controller *HealthController) Check(c echo.Context) error {
	chainID, err := controller.svc.ChainID(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, &HealthResponse{
		Result:  "OK",
		ChainID: chainID,
	})
}
