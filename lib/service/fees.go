package service

import (
	"context"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
	"github.com/uptrace/bun"
)

// GetFee returns the current fee rate in per mille. Anybody may read it.
func (svc *RouterService) GetFee(ctx context.Context) (uint64, error) {
	settings, err := loadSettings(ctx, svc.DB)
	if err != nil {
		return 0, err
	}
	return settings.FeeRate, nil
}

// SetFee replaces the fee rate. Only ADMIN holders may change it.
func (svc *RouterService) SetFee(ctx context.Context, caller ethcommon.Address, newRate uint64) error {
	err := svc.withTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		isAdmin, err := hasRole(ctx, tx, common.RoleAdmin, caller)
		if err != nil {
			return err
		}
		if !isAdmin {
			return ErrAccessDenied
		}
		if newRate > common.MaxFeeRate {
			return fmt.Errorf("%w: fee rate %d exceeds %d", ErrInvalidInput, newRate, common.MaxFeeRate)
		}
		settings, err := loadSettings(ctx, tx)
		if err != nil {
			return err
		}
		settings.FeeRate = newRate
		settings.UpdatedAt = bun.NullTime{Time: svc.now()}
		_, err = tx.NewUpdate().
			Model(settings).
			Column("fee_rate", "updated_at").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	feeRateGauge.Set(float64(newRate))
	svc.Logger.Infof("Fee rate changed: fee_rate:%d by:%s", newRate, caller.Hex())
	return nil
}

// CollectedFees sums the fee entries of every released invoice. Only ADMIN holders may read it.
func (svc *RouterService) CollectedFees(ctx context.Context, caller ethcommon.Address) (uint64, error) {
	isAdmin, err := hasRole(ctx, svc.DB, common.RoleAdmin, caller)
	if err != nil {
		return 0, err
	}
	if !isAdmin {
		return 0, ErrAccessDenied
	}
	var total uint64
	err = svc.DB.NewSelect().
		Model((*models.TransactionEntry)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("entry_type = ?", common.EntryTypeFee).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
