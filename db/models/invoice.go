package models

import (
	"context"
	"time"

	"github.com/transfersafe/router/common"
	"github.com/uptrace/bun"
)

// Invoice : Invoice Model
// JSON names follow the router contract struct so existing clients can submit candidates unchanged.
type Invoice struct {
	ID                  string       `json:"id" bun:",pk" validate:"required,max=128"`
	Amount              uint64       `json:"amount" bun:",notnull" validate:"gt=0,lte=9223372036854775807"`
	Fee                 uint64       `json:"fee" bun:",notnull"`
	Balance             uint64       `json:"balance" bun:",notnull" validate:"lte=9223372036854775807"`
	PaidAmount          uint64       `json:"paidAmount" bun:",notnull"`
	RefundedAmount      uint64       `json:"refundedAmount" bun:",notnull"`
	Deposited           bool         `json:"deposited" bun:",notnull"`
	Paid                bool         `json:"paid" bun:",notnull"`
	Refunded            bool         `json:"refunded" bun:",notnull"`
	Exist               bool         `json:"exist" bun:",notnull"`
	IsNativeToken       bool         `json:"isNativeToken" bun:",notnull"`
	Instant             bool         `json:"instant" bun:",notnull"`
	CreatedDate         Timestamp    `json:"createdDate" bun:"type:timestamptz"`
	DepositDate         Timestamp    `json:"depositDate" bun:"type:timestamptz"`
	ConfirmDate         Timestamp    `json:"confirmDate" bun:"type:timestamptz"`
	RefundDate          Timestamp    `json:"refundDate" bun:"type:timestamptz"`
	ReleaseLockDate     Timestamp    `json:"releaseLockDate" bun:"type:timestamptz"`
	ReleaseLockTimeout  uint64       `json:"releaseLockTimeout" bun:",notnull" validate:"lte=9223372036854775807"`
	SenderAddress       string       `json:"senderAddress" bun:",notnull"`
	RecipientAddress    string       `json:"receipientAddress" bun:",notnull"`
	RecipientEmail      string       `json:"receipientEmail" validate:"omitempty,email"`
	RecipientName       string       `json:"receipientName"`
	Ref                 string       `json:"ref"`
	TokenType           string       `json:"tokenType" bun:",notnull"`
	AvailableTokenTypes []string     `json:"availableTokenTypes" validate:"dive,eth_addr"`
	UpdatedAt           bun.NullTime `json:"-"`
}

func (i *Invoice) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		i.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

// State derives the lifecycle state at the given time.
func (i *Invoice) State(now time.Time) string {
	switch {
	case i.Refunded:
		return common.InvoiceStateRefunded
	case i.Paid:
		return common.InvoiceStateReleased
	case !i.Deposited:
		return common.InvoiceStateCreated
	case i.LockActive(now):
		return common.InvoiceStateLockActive
	default:
		return common.InvoiceStateDeposited
	}
}

// LockActive reports whether a deposited invoice is still inside its release lock window.
func (i *Invoice) LockActive(now time.Time) bool {
	return i.Deposited && now.Before(i.ReleaseLockDate.Time)
}

// Settled is true once the escrowed funds went either to the payee or back to the sender.
func (i *Invoice) Settled() bool {
	return i.Paid || i.Refunded
}

var _ bun.BeforeAppendModelHook = (*Invoice)(nil)
