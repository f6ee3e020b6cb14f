package v2controllers

import (
	"errors"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/transfersafe/router/lib/responses"
	"github.com/transfersafe/router/lib/service"
)

// serviceError answers with the response matching a service error.
// Errors without a match are handed to the echo error handler.
func serviceError(c echo.Context, err error) error {
	var resp responses.ErrorResponse
	switch {
	case errors.Is(err, service.ErrDuplicateIdentifier):
		resp = responses.DuplicateInvoiceError
	case errors.Is(err, service.ErrNotFound):
		resp = responses.InvoiceNotFoundError
	case errors.Is(err, service.ErrAccessDenied):
		resp = responses.AccessDeniedError
	case errors.Is(err, service.ErrInvalidInput):
		resp = responses.BadArgumentsError.WithMessage(err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		resp = responses.InvalidTransitionError.WithMessage(err.Error())
	case errors.Is(err, service.ErrNotInitialized):
		resp = responses.NotInitializedError
	default:
		return err
	}
	c.Logger().Debugf("Request failed: %v", err)
	return c.JSON(resp.HttpStatusCode, resp)
}

func badArguments(c echo.Context, message string) error {
	resp := responses.BadArgumentsError.WithMessage(message)
	return c.JSON(resp.HttpStatusCode, resp)
}

func badAuth(c echo.Context) error {
	return c.JSON(responses.BadAuthError.HttpStatusCode, responses.BadAuthError)
}

func parseAddress(value string) (ethcommon.Address, bool) {
	if !ethcommon.IsHexAddress(value) {
		return ethcommon.Address{}, false
	}
	return ethcommon.HexToAddress(value), true
}
