package v2controllers

import (
	"context"
	"net/http"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/transfersafe/router/db/models"
	"github.com/transfersafe/router/lib/responses"
	"github.com/transfersafe/router/lib/service"
	"github.com/transfersafe/router/lib/tokens"
)

// InvoiceController : Invoice registry and lifecycle controller struct
type InvoiceController struct {
	svc *service.RouterService
}

func NewInvoiceController(svc *service.RouterService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

type Invoice struct {
	models.Invoice
	State string `json:"state"`
}

type CreateInvoiceResponseBody struct {
	ID      string  `json:"id"`
	Invoice Invoice `json:"invoice"`
}

func (controller *InvoiceController) toResponse(invoice *models.Invoice) Invoice {
	return Invoice{
		Invoice: *invoice,
		State:   invoice.State(controller.svc.Now()),
	}
}

// CreateInvoice godoc
// @Summary      Create an invoice
// @Description  Stores a new invoice payable to the caller. Ownership, state and fee fields of the body are ignored and recomputed.
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        invoice  body      models.Invoice  true  "Invoice candidate"
// @Success      200      {object}  CreateInvoiceResponseBody
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      401      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /v2/invoices [post]
// @Security     BearerAuth
func (controller *InvoiceController) CreateInvoice(c echo.Context) error {
	caller, ok := tokens.CallerAddress(c)
	if !ok {
		return badAuth(c)
	}

	var body models.Invoice
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.CreateInvoice(c.Request().Context(), caller, &body)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, &CreateInvoiceResponseBody{
		ID:      invoice.ID,
		Invoice: controller.toResponse(invoice),
	})
}

// GetInvoice godoc
// @Summary      Retrieve an invoice
// @Description  Returns an invoice by its id
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  Invoice
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id} [get]
func (controller *InvoiceController) GetInvoice(c echo.Context) error {
	invoice, err := controller.svc.GetInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, controller.toResponse(invoice))
}

// GetInvoices godoc
// @Summary      Retrieve own invoices
// @Description  Returns the latest invoices the caller is payee or sender of
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Success      200  {object}  []Invoice
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/invoices [get]
// @Security     BearerAuth
func (controller *InvoiceController) GetInvoices(c echo.Context) error {
	caller, ok := tokens.CallerAddress(c)
	if !ok {
		return badAuth(c)
	}

	invoices, err := controller.svc.InvoicesFor(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	response := make([]Invoice, len(invoices))
	for i := range invoices {
		response[i] = controller.toResponse(&invoices[i])
	}
	return c.JSON(http.StatusOK, &response)
}

// Deposit godoc
// @Summary      Deposit into an invoice
// @Description  Records the caller paying the invoice amount and starts the release lock
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        id       path      string                  true  "Invoice id"
// @Param        deposit  body      service.DepositRequest  true  "Deposit"
// @Success      200      {object}  Invoice
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/deposit [post]
// @Security     BearerAuth
func (controller *InvoiceController) Deposit(c echo.Context) error {
	caller, ok := tokens.CallerAddress(c)
	if !ok {
		return badAuth(c)
	}

	var body service.DepositRequest
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load deposit request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid deposit request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.Deposit(c.Request().Context(), caller, c.Param("id"), body)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, controller.toResponse(invoice))
}

// Confirm godoc
// @Summary      Confirm delivery
// @Description  Lets the sender end the release lock early
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  Invoice
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/confirm [post]
// @Security     BearerAuth
func (controller *InvoiceController) Confirm(c echo.Context) error {
	return controller.transition(c, controller.svc.Confirm)
}

// Release godoc
// @Summary      Release an invoice
// @Description  Pays the escrowed balance out to the payee once the release lock elapsed. Payee or ADMIN only.
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  Invoice
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/release [post]
// @Security     BearerAuth
func (controller *InvoiceController) Release(c echo.Context) error {
	return controller.transition(c, controller.svc.Release)
}

// Refund godoc
// @Summary      Refund an invoice
// @Description  Returns the paid amount to the sender
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  Invoice
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/refund [post]
// @Security     BearerAuth
func (controller *InvoiceController) Refund(c echo.Context) error {
	return controller.transition(c, controller.svc.Refund)
}

func (controller *InvoiceController) transition(c echo.Context, apply func(ctx context.Context, caller ethcommon.Address, id string) (*models.Invoice, error)) error {
	caller, ok := tokens.CallerAddress(c)
	if !ok {
		return badAuth(c)
	}
	invoice, err := apply(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, controller.toResponse(invoice))
}
