package models

import "time"

// RoleGrant : one (role, address) membership
type RoleGrant struct {
	Role      string    `json:"role" bun:",pk"`
	Address   string    `json:"address" bun:",pk"`
	GrantedBy string    `json:"grantedBy" bun:",notnull"`
	CreatedAt time.Time `json:"createdAt" bun:",notnull"`
}
