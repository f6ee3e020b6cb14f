package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
	"github.com/uptrace/bun"
)

// CreateInvoice stores a sanitized copy of candidate with caller as its payee.
// A colliding id fails with ErrDuplicateIdentifier and leaves the stored invoice untouched.
func (svc *RouterService) CreateInvoice(ctx context.Context, caller ethcommon.Address, candidate *models.Invoice) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := svc.withTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		settings, err := loadSettings(ctx, tx)
		if err != nil {
			return err
		}
		invoice, err = SanitizeInvoice(candidate, caller, settings.FeeRate, svc.now())
		if err != nil {
			return err
		}
		result, err := tx.NewInsert().
			Model(invoice).
			On("CONFLICT (id) DO NOTHING").
			Returning("NULL").
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, invoice.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	svc.Logger.Infof("Invoice created: id:%s amount:%d fee:%d recipient:%s", invoice.ID, invoice.Amount, invoice.Fee, invoice.RecipientAddress)
	svc.publish(common.EventInvoiceCreated, caller, invoice)
	return invoice, nil
}

// GetInvoice returns the stored invoice or ErrNotFound.
func (svc *RouterService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return findInvoice(ctx, svc.DB, id, false)
}

// InvoicesFor lists the invoices an address is the payee or the sender of, newest first.
func (svc *RouterService) InvoicesFor(ctx context.Context, address ethcommon.Address) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	err := svc.DB.NewSelect().
		Model(&invoices).
		Where("exist = ?", true).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("recipient_address = ?", address.Hex()).
				WhereOr("sender_address = ?", address.Hex())
		}).
		OrderExpr("created_date DESC, id ASC").
		Limit(common.MaxInvoicesListed).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func findInvoice(ctx context.Context, db bun.IDB, id string, forUpdate bool) (*models.Invoice, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: invoice id is required", ErrInvalidInput)
	}
	invoice := &models.Invoice{}
	query := db.NewSelect().Model(invoice).Where("id = ?", id).Limit(1)
	if forUpdate && db.Dialect().Name().String() == "pg" {
		query = query.For("UPDATE")
	}
	err := query.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if !invoice.Exist {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return invoice, nil
}
