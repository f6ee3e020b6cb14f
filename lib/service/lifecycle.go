package service

import (
	"context"
	"fmt"
	"math"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
	"github.com/uptrace/bun"
)

// DepositRequest describes the funds a sender puts into an invoice.
type DepositRequest struct {
	Amount    uint64 `json:"amount" validate:"gt=0"`
	TokenType string `json:"tokenType"`
	Native    bool   `json:"native"`
}

const maxLockSeconds = uint64(math.MaxInt64 / int64(time.Second))

func releaseLockDate(now time.Time, instant bool, timeout uint64) time.Time {
	if instant {
		return now
	}
	if timeout > maxLockSeconds {
		timeout = maxLockSeconds
	}
	return now.Add(time.Duration(timeout) * time.Second)
}

// Deposit records the caller paying the full invoice amount and starts the release lock.
func (svc *RouterService) Deposit(ctx context.Context, caller ethcommon.Address, id string, req DepositRequest) (*models.Invoice, error) {
	return svc.transition(ctx, common.EventInvoiceDeposited, caller, id, func(ctx context.Context, tx bun.Tx, invoice *models.Invoice, now time.Time) error {
		if invoice.Deposited || invoice.Settled() {
			return fmt.Errorf("%w: invoice %s is %s", ErrInvalidTransition, invoice.ID, invoice.State(now))
		}
		if req.Amount != invoice.Amount {
			return fmt.Errorf("%w: deposit of %d does not match invoice amount %d", ErrInvalidInput, req.Amount, invoice.Amount)
		}
		tokenType := ZeroAddress
		if !req.Native {
			if !ethcommon.IsHexAddress(req.TokenType) {
				return fmt.Errorf("%w: malformed token address %q", ErrInvalidInput, req.TokenType)
			}
			tokenType = ethcommon.HexToAddress(req.TokenType).Hex()
			if tokenType == ZeroAddress || !acceptsToken(invoice, tokenType) {
				return fmt.Errorf("%w: token %s is not accepted by invoice %s", ErrInvalidInput, tokenType, invoice.ID)
			}
		} else if req.TokenType != "" && ethcommon.HexToAddress(req.TokenType).Hex() != ZeroAddress {
			return fmt.Errorf("%w: native deposits can not name a token", ErrInvalidInput)
		}

		invoice.Deposited = true
		invoice.SenderAddress = caller.Hex()
		invoice.IsNativeToken = req.Native
		invoice.TokenType = tokenType
		invoice.DepositDate = models.NewTimestamp(now)
		invoice.PaidAmount = req.Amount
		invoice.Balance = req.Amount - invoice.Fee
		invoice.ReleaseLockDate = models.NewTimestamp(releaseLockDate(now, invoice.Instant, invoice.ReleaseLockTimeout))

		entry := newLedgerEntry(invoice, common.EntryTypeDeposit, invoice.SenderAddress, invoice.RecipientAddress, req.Amount, now)
		_, err := tx.NewInsert().Model(entry).Returning("NULL").Exec(ctx)
		return err
	})
}

// Confirm lets the sender acknowledge delivery, which ends the release lock early.
func (svc *RouterService) Confirm(ctx context.Context, caller ethcommon.Address, id string) (*models.Invoice, error) {
	return svc.transition(ctx, common.EventInvoiceConfirmed, caller, id, func(ctx context.Context, tx bun.Tx, invoice *models.Invoice, now time.Time) error {
		if !invoice.Deposited || invoice.Settled() || !invoice.ConfirmDate.IsZero() {
			return fmt.Errorf("%w: invoice %s is %s", ErrInvalidTransition, invoice.ID, invoice.State(now))
		}
		if invoice.SenderAddress != caller.Hex() {
			return ErrAccessDenied
		}
		invoice.ConfirmDate = models.NewTimestamp(now)
		if invoice.ReleaseLockDate.After(now) {
			invoice.ReleaseLockDate = models.NewTimestamp(now)
		}
		return nil
	})
}

// Release pays the escrowed balance out to the payee once the lock has elapsed.
func (svc *RouterService) Release(ctx context.Context, caller ethcommon.Address, id string) (*models.Invoice, error) {
	return svc.transition(ctx, common.EventInvoiceReleased, caller, id, func(ctx context.Context, tx bun.Tx, invoice *models.Invoice, now time.Time) error {
		if !invoice.Deposited || invoice.Settled() {
			return fmt.Errorf("%w: invoice %s is %s", ErrInvalidTransition, invoice.ID, invoice.State(now))
		}
		if invoice.RecipientAddress != caller.Hex() {
			isAdmin, err := hasRole(ctx, tx, common.RoleAdmin, caller)
			if err != nil {
				return err
			}
			if !isAdmin {
				return ErrAccessDenied
			}
		}
		if invoice.LockActive(now) {
			return fmt.Errorf("%w: invoice %s is locked until %s", ErrInvalidTransition, invoice.ID, invoice.ReleaseLockDate.Format(time.RFC3339))
		}

		payout := invoice.PaidAmount - invoice.Fee
		invoice.Paid = true
		invoice.Balance = 0

		entries := []*models.TransactionEntry{
			newLedgerEntry(invoice, common.EntryTypeRelease, invoice.SenderAddress, invoice.RecipientAddress, payout, now),
			newLedgerEntry(invoice, common.EntryTypeFee, invoice.SenderAddress, ZeroAddress, invoice.Fee, now),
		}
		for _, entry := range entries {
			if _, err := tx.NewInsert().Model(entry).Returning("NULL").Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// Refund returns the paid amount to the sender. The payee or an ADMIN may refund at any time
// before settlement, the sender only while the lock is active and delivery is unconfirmed.
func (svc *RouterService) Refund(ctx context.Context, caller ethcommon.Address, id string) (*models.Invoice, error) {
	return svc.transition(ctx, common.EventInvoiceRefunded, caller, id, func(ctx context.Context, tx bun.Tx, invoice *models.Invoice, now time.Time) error {
		if !invoice.Deposited || invoice.Settled() {
			return fmt.Errorf("%w: invoice %s is %s", ErrInvalidTransition, invoice.ID, invoice.State(now))
		}
		switch {
		case invoice.RecipientAddress == caller.Hex():
		case invoice.SenderAddress == caller.Hex():
			if !invoice.LockActive(now) || !invoice.ConfirmDate.IsZero() {
				return fmt.Errorf("%w: sender refunds end with the release lock", ErrInvalidTransition)
			}
		default:
			isAdmin, err := hasRole(ctx, tx, common.RoleAdmin, caller)
			if err != nil {
				return err
			}
			if !isAdmin {
				return ErrAccessDenied
			}
		}

		invoice.Refunded = true
		invoice.RefundedAmount = invoice.PaidAmount
		invoice.RefundDate = models.NewTimestamp(now)
		invoice.Balance = 0

		entry := newLedgerEntry(invoice, common.EntryTypeRefund, invoice.RecipientAddress, invoice.SenderAddress, invoice.RefundedAmount, now)
		_, err := tx.NewInsert().Model(entry).Returning("NULL").Exec(ctx)
		return err
	})
}

type transitionFunc func(ctx context.Context, tx bun.Tx, invoice *models.Invoice, now time.Time) error

// transition loads the invoice, applies fn and persists the result in one transaction.
// The event is only published once the transaction committed.
func (svc *RouterService) transition(ctx context.Context, eventType string, caller ethcommon.Address, id string, fn transitionFunc) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := svc.withTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		invoice, err = findInvoice(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err = fn(ctx, tx, invoice, svc.now()); err != nil {
			return err
		}
		_, err = tx.NewUpdate().Model(invoice).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	svc.Logger.Infof("Invoice %s: id:%s actor:%s state:%s", eventType, invoice.ID, caller.Hex(), invoice.State(svc.now()))
	svc.publish(eventType, caller, invoice)
	return invoice, nil
}

func acceptsToken(invoice *models.Invoice, tokenType string) bool {
	for _, available := range invoice.AvailableTokenTypes {
		if available == tokenType {
			return true
		}
	}
	return false
}
