package integration_tests

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
	"github.com/transfersafe/router/lib/service"
)

type WebHookTestSuite struct {
	TestSuite
	service         *service.RouterService
	payeeToken      string
	senderToken     string
	webHookServer   *httptest.Server
	eventChan       chan models.InvoiceEvent
	subscribeCancel context.CancelFunc
}

func (suite *WebHookTestSuite) SetupSuite() {
	suite.eventChan = make(chan models.InvoiceEvent, 10)
	suite.webHookServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event := models.InvoiceEvent{}
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		suite.eventChan <- event
	}))

	svc, _, err := RouterTestServiceInit(newWallet().address)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	svc.Config.WebhookUrl = suite.webHookServer.URL
	suite.service = svc
	suite.echo = newTestEcho(svc)
	suite.payeeToken = suite.login(newWallet())
	suite.senderToken = suite.login(newWallet())

	ctx, cancel := context.WithCancel(context.Background())
	suite.subscribeCancel = cancel
	go svc.StartWebhookSubscription(ctx, svc.Config.WebhookUrl)
	suite.Eventually(func() bool {
		return svc.InvoicePubSub.Subscribers(common.EventTopicAll) == 1
	}, time.Second, 10*time.Millisecond)
}

func (suite *WebHookTestSuite) TearDownSuite() {
	suite.subscribeCancel()
	suite.webHookServer.Close()
}

func (suite *WebHookTestSuite) nextEvent() models.InvoiceEvent {
	select {
	case event := <-suite.eventChan:
		return event
	case <-time.After(5 * time.Second):
		suite.FailNow("webhook was not called")
	}
	return models.InvoiceEvent{}
}

func (suite *WebHookTestSuite) TestWebhookFollowsInvoice() {
	suite.createInvoice(suite.payeeToken, map[string]interface{}{"id": "hooked", "amount": 500, "instant": true})
	created := suite.nextEvent()
	assert.Equal(suite.T(), common.EventInvoiceCreated, created.Type)
	assert.Equal(suite.T(), "hooked", created.Invoice.ID)
	assert.Equal(suite.T(), int64(testChainID), created.ChainID)

	suite.decode(suite.request(http.MethodPost, "/v2/invoices/hooked/deposit", &service.DepositRequest{Amount: 500, Native: true}, suite.senderToken), http.StatusOK, &map[string]interface{}{})
	deposited := suite.nextEvent()
	assert.Equal(suite.T(), common.EventInvoiceDeposited, deposited.Type)
	assert.True(suite.T(), deposited.Invoice.Deposited)

	suite.decode(suite.request(http.MethodPost, "/v2/invoices/hooked/release", nil, suite.payeeToken), http.StatusOK, &map[string]interface{}{})
	released := suite.nextEvent()
	assert.Equal(suite.T(), common.EventInvoiceReleased, released.Type)
	assert.Equal(suite.T(), released.Actor, released.Invoice.RecipientAddress)
}

func TestWebHookSuite(t *testing.T) {
	suite.Run(t, new(WebHookTestSuite))
}
