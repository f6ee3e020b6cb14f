package service

import (
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
)

var invoiceValidator = validator.New()

// ZeroAddress is what an unset sender or token type looks like once stored.
var ZeroAddress = ethcommon.Address{}.Hex()

// CalcFee returns amount * feeRate / 1000 truncated toward zero.
func CalcFee(amount, feeRate uint64) uint64 {
	fee := new(big.Int).SetUint64(amount)
	fee.Mul(fee, new(big.Int).SetUint64(feeRate))
	fee.Quo(fee, big.NewInt(common.FeeRateDenominator))
	if !fee.IsUint64() {
		// only reachable with a rate above 100%
		return amount
	}
	return fee.Uint64()
}

// ValidateInvoiceCandidate checks the caller controlled fields of a candidate invoice.
func ValidateInvoiceCandidate(candidate *models.Invoice) error {
	if candidate == nil {
		return fmt.Errorf("%w: invoice is required", ErrInvalidInput)
	}
	if err := invoiceValidator.Struct(candidate); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return nil
}

// SanitizeInvoice builds the record that gets stored for an untrusted candidate.
// Only the allow-listed fields are copied; ownership, state, amounts and dates are recomputed.
func SanitizeInvoice(candidate *models.Invoice, creator ethcommon.Address, feeRate uint64, now time.Time) (*models.Invoice, error) {
	if err := ValidateInvoiceCandidate(candidate); err != nil {
		return nil, err
	}
	if creator == (ethcommon.Address{}) {
		return nil, fmt.Errorf("%w: creator address is required", ErrInvalidInput)
	}
	tokenTypes, err := normalizeTokenTypes(candidate.AvailableTokenTypes)
	if err != nil {
		return nil, err
	}

	return &models.Invoice{
		ID:                  candidate.ID,
		Amount:              candidate.Amount,
		Fee:                 CalcFee(candidate.Amount, feeRate),
		Balance:             candidate.Balance,
		Instant:             candidate.Instant,
		ReleaseLockTimeout:  candidate.ReleaseLockTimeout,
		RecipientEmail:      candidate.RecipientEmail,
		RecipientName:       candidate.RecipientName,
		Ref:                 candidate.Ref,
		AvailableTokenTypes: tokenTypes,
		Exist:               true,
		CreatedDate:         models.NewTimestamp(now),
		SenderAddress:       ZeroAddress,
		TokenType:           ZeroAddress,
		RecipientAddress:    creator.Hex(),
	}, nil
}

func normalizeTokenTypes(tokenTypes []string) ([]string, error) {
	normalized := make([]string, 0, len(tokenTypes))
	for _, token := range tokenTypes {
		if !ethcommon.IsHexAddress(token) {
			return nil, fmt.Errorf("%w: malformed token address %q", ErrInvalidInput, token)
		}
		normalized = append(normalized, ethcommon.HexToAddress(token).Hex())
	}
	return normalized, nil
}
