package transport

import (
	"github.com/labstack/echo/v4"
	v2controllers "github.com/transfersafe/router/controllers_v2"
	"github.com/transfersafe/router/lib/service"
)

func RegisterV2Endpoints(svc *service.RouterService, e *echo.Echo, secured *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	authCtrl := v2controllers.NewAuthController(svc)
	invoiceCtrl := v2controllers.NewInvoiceController(svc)
	feeCtrl := v2controllers.NewFeeController(svc)
	roleCtrl := v2controllers.NewRoleController(svc)

	e.GET("/v2/auth/message", authCtrl.LoginMessage, strictRateLimitMiddleware, logMw)
	e.POST("/v2/auth", authCtrl.Auth, strictRateLimitMiddleware, logMw)

	secured.POST("/v2/invoices", invoiceCtrl.CreateInvoice)
	secured.GET("/v2/invoices", invoiceCtrl.GetInvoices)
	e.GET("/v2/invoices/:id", invoiceCtrl.GetInvoice, logMw)
	secured.POST("/v2/invoices/:id/deposit", invoiceCtrl.Deposit)
	secured.POST("/v2/invoices/:id/confirm", invoiceCtrl.Confirm)
	secured.POST("/v2/invoices/:id/release", invoiceCtrl.Release)
	secured.POST("/v2/invoices/:id/refund", invoiceCtrl.Refund)

	e.GET("/v2/fee", feeCtrl.GetFee, logMw)
	secured.PUT("/v2/fee", feeCtrl.SetFee)
	secured.GET("/v2/fees/collected", feeCtrl.CollectedFees)

	e.GET("/v2/roles/:role/:address", roleCtrl.HasRole, logMw)
	secured.POST("/v2/roles/:role", roleCtrl.GrantRole)
	secured.DELETE("/v2/roles/:role/:address", roleCtrl.RevokeRole)

	e.GET("/v2/health", v2controllers.NewHealthController(svc).Check)
}
