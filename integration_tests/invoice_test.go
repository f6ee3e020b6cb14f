package integration_tests

import (
	"context"
	"log"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/transfersafe/router/common"
	v2controllers "github.com/transfersafe/router/controllers_v2"
	"github.com/transfersafe/router/lib/responses"
	"github.com/transfersafe/router/lib/service"
)

type InvoiceTestSuite struct {
	TestSuite
	service    *service.RouterService
	alice      *wallet
	aliceToken string
	bobToken   string
}

func (suite *InvoiceTestSuite) SetupSuite() {
	svc, _, err := RouterTestServiceInit(newWallet().address)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.echo = newTestEcho(svc)
	suite.alice = newWallet()
	suite.aliceToken = suite.login(suite.alice)
	suite.bobToken = suite.login(newWallet())
}

func (suite *InvoiceTestSuite) TearDownTest() {
	clearTable(suite.service, "transaction_entries")
	clearTable(suite.service, "invoices")
}

func (suite *InvoiceTestSuite) TestCreateInvoiceForcesTrustedFields() {
	created := suite.createInvoice(suite.aliceToken, map[string]interface{}{
		"id":                 "123",
		"amount":             1000,
		"releaseLockTimeout": 1000,
		"ref":                "test",
		"receipientEmail":    "test@gmail.com",
		"receipientName":     "Alice",
		"fee":                999,
		"balance":            5000,
		"paidAmount":         1000,
		"deposited":          true,
		"paid":               true,
		"exist":              false,
		"receipientAddress":  newWallet().address.Hex(),
		"senderAddress":      newWallet().address.Hex(),
	})
	assert.Equal(suite.T(), "123", created.ID)

	invoice := &v2controllers.Invoice{}
	suite.decode(suite.request(http.MethodGet, "/v2/invoices/123", nil, ""), http.StatusOK, invoice)
	assert.Equal(suite.T(), uint64(1000), invoice.Amount)
	assert.Equal(suite.T(), uint64(10), invoice.Fee)
	assert.True(suite.T(), invoice.Exist)
	assert.Equal(suite.T(), suite.alice.address.Hex(), invoice.RecipientAddress)
	assert.False(suite.T(), invoice.Paid)
	assert.False(suite.T(), invoice.Deposited)
	assert.Equal(suite.T(), uint64(5000), invoice.Balance)
	assert.Zero(suite.T(), invoice.PaidAmount)
	assert.Equal(suite.T(), service.ZeroAddress, invoice.SenderAddress)
	assert.Equal(suite.T(), "test", invoice.Ref)
	assert.Equal(suite.T(), "test@gmail.com", invoice.RecipientEmail)
	assert.Equal(suite.T(), common.InvoiceStateCreated, invoice.State)
}

func (suite *InvoiceTestSuite) TestCreateInvoiceWithUnixDates() {
	zero := service.ZeroAddress
	rec := suite.request(http.MethodPost, "/v2/invoices", map[string]interface{}{
		"id":                  "dated",
		"amount":              1000,
		"availableTokenTypes": []string{},
		"balance":             1000,
		"confirmDate":         1000,
		"createdDate":         1000,
		"depositDate":         1000,
		"deposited":           true,
		"exist":               false,
		"fee":                 999,
		"instant":             false,
		"isNativeToken":       true,
		"paid":                true,
		"paidAmount":          1000,
		"receipientAddress":   zero,
		"receipientEmail":     "test@gmail.com",
		"receipientName":      "",
		"ref":                 "test",
		"refundDate":          1000,
		"refunded":            true,
		"refundedAmount":      1000,
		"releaseLockDate":     1000,
		"releaseLockTimeout":  1000,
		"senderAddress":       zero,
		"tokenType":           zero,
	}, suite.aliceToken)
	assert.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())

	raw := map[string]interface{}{}
	suite.decode(suite.request(http.MethodGet, "/v2/invoices/dated", nil, ""), http.StatusOK, &raw)
	for _, field := range []string{"depositDate", "confirmDate", "refundDate", "releaseLockDate"} {
		assert.Equal(suite.T(), float64(0), raw[field], field)
	}
	assert.Equal(suite.T(), float64(testStart.Unix()), raw["createdDate"])
	assert.Equal(suite.T(), float64(10), raw["fee"])
	assert.Equal(suite.T(), false, raw["deposited"])
	assert.Equal(suite.T(), false, raw["paid"])
	assert.Equal(suite.T(), false, raw["refunded"])
	assert.Equal(suite.T(), false, raw["isNativeToken"])
	assert.Equal(suite.T(), true, raw["exist"])
	assert.Equal(suite.T(), float64(0), raw["paidAmount"])
	assert.Equal(suite.T(), float64(0), raw["refundedAmount"])
	assert.Equal(suite.T(), suite.alice.address.Hex(), raw["receipientAddress"])
}

func (suite *InvoiceTestSuite) TestCreateDuplicateInvoice() {
	suite.createInvoice(suite.aliceToken, map[string]interface{}{"id": "dup", "amount": 1000})

	rec := suite.request(http.MethodPost, "/v2/invoices", map[string]interface{}{"id": "dup", "amount": 5}, suite.bobToken)
	suite.checkErrResponse(rec, responses.DuplicateInvoiceError)

	invoice, err := suite.service.GetInvoice(context.Background(), "dup")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), uint64(1000), invoice.Amount)
	assert.Equal(suite.T(), suite.alice.address.Hex(), invoice.RecipientAddress)
}

func (suite *InvoiceTestSuite) TestCreateInvalidInvoice() {
	for _, body := range []map[string]interface{}{
		{"id": "", "amount": 1000},
		{"id": "zero", "amount": 0},
		{"id": "mail", "amount": 1000, "receipientEmail": "not-a-mail"},
		{"id": "token", "amount": 1000, "availableTokenTypes": []string{"USDC"}},
	} {
		suite.checkErrResponse(suite.request(http.MethodPost, "/v2/invoices", body, suite.aliceToken), responses.BadArgumentsError)
	}
}

func (suite *InvoiceTestSuite) TestGetUnknownInvoice() {
	suite.checkErrResponse(suite.request(http.MethodGet, "/v2/invoices/unknown", nil, ""), responses.InvoiceNotFoundError)
}

func (suite *InvoiceTestSuite) TestListOwnInvoices() {
	suite.createInvoice(suite.aliceToken, map[string]interface{}{"id": "alice-1", "amount": 1000})
	suite.createInvoice(suite.aliceToken, map[string]interface{}{"id": "alice-2", "amount": 2000})
	suite.createInvoice(suite.bobToken, map[string]interface{}{"id": "bob-1", "amount": 3000})

	invoices := []v2controllers.Invoice{}
	suite.decode(suite.request(http.MethodGet, "/v2/invoices", nil, suite.aliceToken), http.StatusOK, &invoices)
	ids := []string{}
	for _, invoice := range invoices {
		ids = append(ids, invoice.ID)
	}
	assert.ElementsMatch(suite.T(), []string{"alice-1", "alice-2"}, ids)
}

func (suite *InvoiceTestSuite) TestHealth() {
	health := &v2controllers.HealthResponse{}
	suite.decode(suite.request(http.MethodGet, "/v2/health", nil, ""), http.StatusOK, health)
	assert.Equal(suite.T(), "OK", health.Result)
	assert.Equal(suite.T(), int64(testChainID), health.ChainID)
}

func TestInvoiceSuite(t *testing.T) {
	suite.Run(t, new(InvoiceTestSuite))
}
