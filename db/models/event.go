package models

import "time"

// InvoiceEvent is published after every committed invoice transition.
type InvoiceEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ChainID    int64     `json:"chainId"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
	Invoice    Invoice   `json:"invoice"`
}
