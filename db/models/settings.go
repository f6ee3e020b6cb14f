package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SettingsID is the primary key of the single router_settings row.
const SettingsID = 1

// RouterSettings : router wide parameters written once by Init
type RouterSettings struct {
	ID        int64        `json:"-" bun:",pk"`
	ChainID   int64        `json:"chainId" bun:",notnull"`
	FeeRate   uint64       `json:"feeRate" bun:",notnull"`
	CreatedAt time.Time    `json:"createdAt" bun:",notnull"`
	UpdatedAt bun.NullTime `json:"updatedAt"`
}
