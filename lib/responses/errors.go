package responses

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

func (e ErrorResponse) WithMessage(message string) ErrorResponse {
	e.Message = message
	return e
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var AccessDeniedError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "Access denied",
	HttpStatusCode: 403,
}

var InvoiceNotFoundError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "invoice not found",
	HttpStatusCode: 404,
}

var DuplicateInvoiceError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "invoice id already exists",
	HttpStatusCode: 409,
}

var InvalidTransitionError = ErrorResponse{
	Error:          true,
	Code:           7,
	Message:        "invoice can not make this transition in its current state",
	HttpStatusCode: 409,
}

var NotInitializedError = ErrorResponse{
	Error:          true,
	Code:           9,
	Message:        "router is not initialized",
	HttpStatusCode: 503,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("Address", c.Get("Address"))
			hub.CaptureException(err)
		})
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		c.JSON(he.Code, he.Message)
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}

// bad auth attempts are client noise, not server failures
func isErrAllowedForSentry(err error) bool {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return true
	}
	if he.Code == http.StatusUnauthorized {
		return false
	}
	switch msg := he.Message.(type) {
	case echo.Map:
		return msg["message"] != BadAuthError.Message
	case ErrorResponse:
		return msg.Message != BadAuthError.Message
	}
	return true
}
