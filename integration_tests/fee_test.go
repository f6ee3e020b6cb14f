package integration_tests

import (
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

type FeeTestSuite struct {
	TestSuite
	service       *service.RouterService
	deployerToken string
	aliceToken    string
}

func (suite *FeeTestSuite) SetupSuite() {
	deployer := newWallet()
	svc, _, err := RouterTestServiceInit(deployer.address)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.echo = newTestEcho(svc)
	suite.deployerToken = suite.login(deployer)
	suite.aliceToken = suite.login(newWallet())
}

func (suite *FeeTestSuite) getFee() uint64 {
	fee := &v2controllers.FeeResponseBody{}
	suite.decode(suite.request(http.MethodGet, "/v2/fee", nil, ""), http.StatusOK, fee)
	return fee.FeeRate
}

func (suite *FeeTestSuite) setFee(token string, rate uint64) *v2controllers.FeeResponseBody {
	fee := &v2controllers.FeeResponseBody{}
	suite.decode(suite.request(http.MethodPut, "/v2/fee", map[string]uint64{"feeRate": rate}, token), http.StatusOK, fee)
	return fee
}

func (suite *FeeTestSuite) TestAdminChangesFee() {
	assert.Equal(suite.T(), uint64(common.DefaultFeeRate), suite.getFee())

	assert.Equal(suite.T(), uint64(30), suite.setFee(suite.deployerToken, 30).FeeRate)
	assert.Equal(suite.T(), uint64(30), suite.getFee())

	suite.checkErrResponse(suite.request(http.MethodPut, "/v2/fee", map[string]uint64{"feeRate": 10}, suite.aliceToken), responses.AccessDeniedError)
	assert.Equal(suite.T(), uint64(30), suite.getFee())

	// new invoices are charged the new rate
	created := suite.createInvoice(suite.aliceToken, map[string]interface{}{"id": "fee-30", "amount": 1000})
	assert.Equal(suite.T(), uint64(30), created.Invoice.Fee)

	suite.setFee(suite.deployerToken, common.DefaultFeeRate)
}

func (suite *FeeTestSuite) TestFeeRateBounds() {
	suite.checkErrResponse(suite.request(http.MethodPut, "/v2/fee", map[string]uint64{"feeRate": common.MaxFeeRate + 1}, suite.deployerToken), responses.BadArgumentsError)
	suite.checkErrResponse(suite.request(http.MethodPut, "/v2/fee", map[string]string{}, suite.deployerToken), responses.BadArgumentsError)
	assert.Equal(suite.T(), uint64(0), suite.setFee(suite.deployerToken, 0).FeeRate)
	suite.setFee(suite.deployerToken, common.DefaultFeeRate)
}

func (suite *FeeTestSuite) TestCollectedFeesNeedAdmin() {
	suite.checkErrResponse(suite.request(http.MethodGet, "/v2/fees/collected", nil, suite.aliceToken), responses.AccessDeniedError)
}

func TestFeeSuite(t *testing.T) {
	suite.Run(t, new(FeeTestSuite))
}
