package common

const (
	InvoiceStateCreated    = "created"
	InvoiceStateLockActive = "lock_active"
	InvoiceStateDeposited  = "deposited"
	InvoiceStateReleased   = "released"
	InvoiceStateRefunded   = "refunded"

	EntryTypeDeposit = "deposit"
	EntryTypeRelease = "release"
	EntryTypeFee     = "fee"
	EntryTypeRefund  = "refund"

	EventInvoiceCreated   = "invoice.created"
	EventInvoiceDeposited = "invoice.deposited"
	EventInvoiceConfirmed = "invoice.confirmed"
	EventInvoiceReleased  = "invoice.released"
	EventInvoiceRefunded  = "invoice.refunded"
	// subscribers on this topic receive every invoice event
	EventTopicAll = "invoice.*"

	// RoleDefaultAdmin may grant and revoke every role, itself included.
	RoleDefaultAdmin = "DEFAULT_ADMIN_ROLE"
	// RoleAdmin may change the fee rate and settle disputed invoices.
	RoleAdmin = "ADMIN"

	// fee rates are expressed per mille: 10 means 1% of the invoice amount
	DefaultFeeRate     = 10
	FeeRateDenominator = 1000
	MaxFeeRate         = FeeRateDenominator

	MaxInvoiceIDLength = 128
	MaxInvoicesListed  = 100

	ContextKeyAddress = "Address"
)

var KnownRoles = []string{RoleDefaultAdmin, RoleAdmin}

func IsKnownRole(role string) bool {
	for _, known := range KnownRoles {
		if role == known {
			return true
		}
	}
	return false
}
