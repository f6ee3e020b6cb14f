package models

import (
	"time"
)

// TransactionEntry : Transaction Entries Model
// Entries record the money movements an invoice tracks; the transfers themselves happen elsewhere.
type TransactionEntry struct {
	ID          string    `bun:",pk"`
	InvoiceID   string    `bun:",notnull"`
	Invoice     *Invoice  `bun:"rel:belongs-to,join:invoice_id=id"`
	EntryType   string    `bun:",notnull"`
	FromAddress string    `bun:",notnull"`
	ToAddress   string    `bun:",notnull"`
	TokenType   string    `bun:",notnull"`
	Amount      uint64    `bun:",notnull"`
	CreatedAt   time.Time `bun:",notnull"`
}
