package service

import (
	"context"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
	"github.com/uptrace/bun"
)

// HasRole reports whether address currently holds role.
func (svc *RouterService) HasRole(ctx context.Context, role string, address ethcommon.Address) (bool, error) {
	if !common.IsKnownRole(role) {
		return false, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return hasRole(ctx, svc.DB, role, address)
}

// GrantRole adds address to role. Granting an existing membership is a no-op.
func (svc *RouterService) GrantRole(ctx context.Context, caller ethcommon.Address, role string, address ethcommon.Address) error {
	if !common.IsKnownRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if address == (ethcommon.Address{}) {
		return fmt.Errorf("%w: can not grant a role to the zero address", ErrInvalidInput)
	}
	var granted bool
	err := svc.withTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := requireRole(ctx, tx, common.RoleDefaultAdmin, caller); err != nil {
			return err
		}
		grant := &models.RoleGrant{
			Role:      role,
			Address:   address.Hex(),
			GrantedBy: caller.Hex(),
			CreatedAt: svc.now(),
		}
		result, err := tx.NewInsert().
			Model(grant).
			On("CONFLICT (role, address) DO NOTHING").
			Returning("NULL").
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		granted = affected > 0
		return err
	})
	if err != nil {
		return err
	}
	if granted {
		svc.Logger.Infof("Role granted: role:%s address:%s by:%s", role, address.Hex(), caller.Hex())
	}
	return nil
}

// RevokeRole removes address from role. The last DEFAULT_ADMIN_ROLE holder can not be removed.
func (svc *RouterService) RevokeRole(ctx context.Context, caller ethcommon.Address, role string, address ethcommon.Address) error {
	if !common.IsKnownRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return svc.withTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := requireRole(ctx, tx, common.RoleDefaultAdmin, caller); err != nil {
			return err
		}
		return svc.removeRole(ctx, tx, caller, role, address)
	})
}

// RenounceRole lets the caller give up one of its own roles.
func (svc *RouterService) RenounceRole(ctx context.Context, caller ethcommon.Address, role string) error {
	if !common.IsKnownRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return svc.withTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return svc.removeRole(ctx, tx, caller, role, caller)
	})
}

func (svc *RouterService) removeRole(ctx context.Context, tx bun.Tx, caller ethcommon.Address, role string, address ethcommon.Address) error {
	if role == common.RoleDefaultAdmin {
		holders, err := lockRoleHolders(ctx, tx, role)
		if err != nil {
			return err
		}
		member := false
		for _, holder := range holders {
			member = member || holder.Address == address.Hex()
		}
		if member && len(holders) <= 1 {
			return fmt.Errorf("%w: can not remove the last %s holder", ErrInvalidInput, role)
		}
	}
	result, err := tx.NewDelete().
		Model((*models.RoleGrant)(nil)).
		Where("role = ?", role).
		Where("address = ?", address.Hex()).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected > 0 {
		svc.Logger.Infof("Role removed: role:%s address:%s by:%s", role, address.Hex(), caller.Hex())
	}
	return nil
}

// lockRoleHolders reads every holder of role. On postgres the rows stay locked until tx ends,
// so concurrent revocations from other instances see each other's deletes.
func lockRoleHolders(ctx context.Context, tx bun.Tx, role string) ([]models.RoleGrant, error) {
	holders := []models.RoleGrant{}
	query := tx.NewSelect().
		Model(&holders).
		Where("role = ?", role).
		Order("address")
	if tx.Dialect().Name().String() == "pg" {
		query = query.For("UPDATE")
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return holders, nil
}

func requireRole(ctx context.Context, db bun.IDB, role string, address ethcommon.Address) error {
	ok, err := hasRole(ctx, db, role, address)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}

func hasRole(ctx context.Context, db bun.IDB, role string, address ethcommon.Address) (bool, error) {
	return db.NewSelect().
		Model((*models.RoleGrant)(nil)).
		Where("role = ?", role).
		Where("address = ?", address.Hex()).
		Exists(ctx)
}
