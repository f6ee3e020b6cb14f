package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- an invoice is settled at most once
			alter table invoices
			ADD CONSTRAINT check_paid_or_refunded
			CHECK (NOT (paid AND refunded));

			-- the fee can never exceed the invoice amount
			alter table invoices
			ADD CONSTRAINT check_fee_within_amount
			CHECK (fee <= amount);

			-- nothing is paid into an invoice before its deposit
			alter table invoices
			ADD CONSTRAINT check_paid_amount_requires_deposit
			CHECK (deposited OR paid_amount = 0);

			-- refunds return exactly what was paid in
			alter table invoices
			ADD CONSTRAINT check_refunded_amount
			CHECK (NOT refunded OR refunded_amount = paid_amount);

			alter table router_settings
			ADD CONSTRAINT check_fee_rate
			CHECK (fee_rate <= 1000);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
