package service

import (
	"context"
	"sync"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
)

const testToken = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"

// hostileCandidate tries to set every field the caller is not allowed to control.
func hostileCandidate(id string, amount uint64) *models.Invoice {
	spoofed := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Invoice{
		ID:                  id,
		Amount:              amount,
		Fee:                 0,
		Balance:             amount,
		PaidAmount:          amount,
		RefundedAmount:      amount,
		Deposited:           true,
		Paid:                true,
		Refunded:            true,
		Exist:               false,
		IsNativeToken:       true,
		Instant:             true,
		CreatedDate:         models.NewTimestamp(spoofed),
		DepositDate:         models.NewTimestamp(spoofed),
		ConfirmDate:         models.NewTimestamp(spoofed),
		RefundDate:          models.NewTimestamp(spoofed),
		ReleaseLockDate:     models.NewTimestamp(spoofed),
		ReleaseLockTimeout:  1000,
		SenderAddress:       "0x000000000000000000000000000000000000dEaD",
		RecipientAddress:    "0x000000000000000000000000000000000000bEEF",
		RecipientEmail:      "test@gmail.com",
		RecipientName:       "test",
		Ref:                 "test",
		TokenType:           testToken,
		AvailableTokenTypes: []string{testToken},
	}
}

func TestCalcFeeDefaultRate(t *testing.T) {
	assert.Equal(t, uint64(10), CalcFee(1000, common.DefaultFeeRate))
	assert.Equal(t, uint64(0), CalcFee(99, common.DefaultFeeRate))
	assert.Equal(t, uint64(1), CalcFee(199, common.DefaultFeeRate))
}

func TestCalcFeeMatchesOnePercentForAllAmounts(t *testing.T) {
	for _, amount := range []uint64{1, 7, 100, 101, 12345, 999999, 1 << 40, 9223372036854775807} {
		assert.Equal(t, amount/100, CalcFee(amount, common.DefaultFeeRate), amount)
	}
}

func TestCalcFeeOtherRates(t *testing.T) {
	assert.Equal(t, uint64(30), CalcFee(1000, 30))
	assert.Equal(t, uint64(0), CalcFee(1000, 0))
	assert.Equal(t, uint64(1000), CalcFee(1000, 1000))
	// no overflow for big amounts
	assert.Equal(t, uint64(9223372036854775807), CalcFee(9223372036854775807, 1000))
}

func TestSanitizeInvoiceForcesTrustedFields(t *testing.T) {
	creator := newTestAddress(t)
	invoice, err := SanitizeInvoice(hostileCandidate("123", 1000), creator, common.DefaultFeeRate, testStart)
	require.NoError(t, err)

	assert.True(t, invoice.Exist)
	assert.False(t, invoice.Deposited)
	assert.False(t, invoice.Paid)
	assert.False(t, invoice.Refunded)
	assert.False(t, invoice.IsNativeToken)
	assert.Equal(t, uint64(0), invoice.PaidAmount)
	assert.Equal(t, uint64(0), invoice.RefundedAmount)
	assert.True(t, invoice.DepositDate.IsZero())
	assert.True(t, invoice.ConfirmDate.IsZero())
	assert.True(t, invoice.RefundDate.IsZero())
	assert.True(t, invoice.ReleaseLockDate.IsZero())
	assert.Equal(t, ZeroAddress, invoice.SenderAddress)
	assert.Equal(t, ZeroAddress, invoice.TokenType)
	assert.Equal(t, creator.Hex(), invoice.RecipientAddress)
	assert.Equal(t, uint64(10), invoice.Fee)
	assert.Equal(t, testStart, invoice.CreatedDate.Time)
}

func TestSanitizeInvoiceKeepsCallerFields(t *testing.T) {
	creator := newTestAddress(t)
	candidate := hostileCandidate("123", 1000)
	candidate.AvailableTokenTypes = []string{"0x2791bca1f2de4661ed88a30c99a7a9449aa84174"}
	invoice, err := SanitizeInvoice(candidate, creator, common.DefaultFeeRate, testStart)
	require.NoError(t, err)

	assert.Equal(t, "123", invoice.ID)
	assert.Equal(t, uint64(1000), invoice.Amount)
	assert.Equal(t, uint64(1000), invoice.Balance)
	assert.True(t, invoice.Instant)
	assert.Equal(t, uint64(1000), invoice.ReleaseLockTimeout)
	assert.Equal(t, "test@gmail.com", invoice.RecipientEmail)
	assert.Equal(t, "test", invoice.RecipientName)
	assert.Equal(t, "test", invoice.Ref)
	// stored checksummed
	assert.Equal(t, []string{testToken}, invoice.AvailableTokenTypes)
}

func TestSanitizeInvoiceRejectsInvalidCandidates(t *testing.T) {
	creator := newTestAddress(t)
	tooLong := make([]byte, common.MaxInvoiceIDLength+1)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	cases := map[string]func(i *models.Invoice){
		"empty id":     func(i *models.Invoice) { i.ID = "" },
		"long id":      func(i *models.Invoice) { i.ID = string(tooLong) },
		"zero amount":  func(i *models.Invoice) { i.Amount = 0 },
		"huge amount":  func(i *models.Invoice) { i.Amount = 1 << 63 },
		"bad email":    func(i *models.Invoice) { i.RecipientEmail = "not-an-email" },
		"bad token":    func(i *models.Invoice) { i.AvailableTokenTypes = []string{"0x1234"} },
		"huge timeout": func(i *models.Invoice) { i.ReleaseLockTimeout = 1 << 63 },
	}
	for name, mutate := range cases {
		candidate := hostileCandidate("123", 1000)
		mutate(candidate)
		_, err := SanitizeInvoice(candidate, creator, common.DefaultFeeRate, testStart)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}

	_, err := SanitizeInvoice(nil, creator, common.DefaultFeeRate, testStart)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SanitizeInvoice(hostileCandidate("123", 1000), ethcommon.Address{}, common.DefaultFeeRate, testStart)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateAndGetInvoice(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()
	payee := newTestAddress(t)

	created, err := r.svc.CreateInvoice(ctx, payee, hostileCandidate("123", 1000))
	require.NoError(t, err)
	assert.Equal(t, "123", created.ID)

	invoice, err := r.svc.GetInvoice(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), invoice.Fee)
	assert.True(t, invoice.Exist)
	assert.Equal(t, payee.Hex(), invoice.RecipientAddress)
	assert.False(t, invoice.Paid)
	assert.False(t, invoice.Deposited)
	assert.Equal(t, ZeroAddress, invoice.SenderAddress)
	assert.Equal(t, []string{testToken}, invoice.AvailableTokenTypes)
	assert.Equal(t, common.InvoiceStateCreated, invoice.State(r.svc.Now()))
}

func TestCreateInvoiceUsesCurrentFeeRate(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()
	require.NoError(t, r.svc.SetFee(ctx, r.deployer, 30))

	invoice, err := r.svc.CreateInvoice(ctx, newTestAddress(t), hostileCandidate("fee-30", 1000))
	require.NoError(t, err)
	assert.Equal(t, uint64(30), invoice.Fee)
}

func TestGetUnknownInvoice(t *testing.T) {
	r := newTestRouter(t)

	_, err := r.svc.GetInvoice(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateInvoiceLeavesOriginalUntouched(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()
	first := newTestAddress(t)
	second := newTestAddress(t)

	_, err := r.svc.CreateInvoice(ctx, first, hostileCandidate("123", 1000))
	require.NoError(t, err)
	original, err := r.svc.GetInvoice(ctx, "123")
	require.NoError(t, err)

	r.clock.Advance(time.Hour)
	duplicate := hostileCandidate("123", 5000)
	duplicate.Ref = "overwrite"
	_, err = r.svc.CreateInvoice(ctx, second, duplicate)
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)

	stored, err := r.svc.GetInvoice(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, original, stored)
}

func TestConcurrentDuplicateCreationHasOneWinner(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(amount uint64) {
			defer wg.Done()
			_, err := r.svc.CreateInvoice(ctx, r.deployer, hostileCandidate("race", amount))
			errs <- err
		}(uint64(1000 + i))
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	}
	assert.Equal(t, 1, succeeded)
}

func TestCreateInvoicePublishesEvent(t *testing.T) {
	r := newTestRouter(t)
	events := make(chan models.InvoiceEvent, 1)
	_, err := r.svc.InvoicePubSub.Subscribe(common.EventInvoiceCreated, events)
	require.NoError(t, err)

	payee := newTestAddress(t)
	_, err = r.svc.CreateInvoice(context.Background(), payee, hostileCandidate("evt", 1000))
	require.NoError(t, err)

	event := <-events
	assert.Equal(t, common.EventInvoiceCreated, event.Type)
	assert.Equal(t, payee.Hex(), event.Actor)
	assert.Equal(t, int64(testChainID), event.ChainID)
	assert.Equal(t, "evt", event.Invoice.ID)
}

func TestInvoicesFor(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()
	payee := newTestAddress(t)
	sender := newTestAddress(t)

	_, err := r.svc.CreateInvoice(ctx, payee, hostileCandidate("first", 1000))
	require.NoError(t, err)
	r.clock.Advance(time.Minute)
	_, err = r.svc.CreateInvoice(ctx, payee, hostileCandidate("second", 1000))
	require.NoError(t, err)
	_, err = r.svc.CreateInvoice(ctx, sender, hostileCandidate("other", 1000))
	require.NoError(t, err)
	_, err = r.svc.Deposit(ctx, sender, "first", DepositRequest{Amount: 1000, Native: true})
	require.NoError(t, err)

	invoices, err := r.svc.InvoicesFor(ctx, payee)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "second", invoices[0].ID)
	assert.Equal(t, "first", invoices[1].ID)

	invoices, err = r.svc.InvoicesFor(ctx, sender)
	require.NoError(t, err)
	assert.Len(t, invoices, 2)

	invoices, err = r.svc.InvoicesFor(ctx, newTestAddress(t))
	require.NoError(t, err)
	assert.Empty(t, invoices)
}
