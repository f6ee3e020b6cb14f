package migrations

import (
	"context"

	"github.com/transfersafe/router/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().Model((*models.RouterSettings)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.RoleGrant)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.Invoice)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.TransactionEntry)(nil)).
			IfNotExists().
			ForeignKey(`("invoice_id") REFERENCES "invoices" ("id") ON DELETE RESTRICT`).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*models.Invoice)(nil)).
			IfNotExists().
			Index("invoices_recipient_address_idx").
			Column("recipient_address").
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*models.Invoice)(nil)).
			IfNotExists().
			Index("invoices_sender_address_idx").
			Column("sender_address").
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*models.TransactionEntry)(nil)).
			IfNotExists().
			Index("transaction_entries_invoice_id_idx").
			Column("invoice_id").
			Exec(ctx); err != nil {
			return err
		}
		return nil
	}, nil)
}
