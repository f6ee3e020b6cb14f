package integration_tests

import (
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	v2controllers "github.com/transfersafe/router/controllers_v2"
	"github.com/transfersafe/router/lib/responses"
	"github.com/transfersafe/router/lib/security"
	"github.com/transfersafe/router/lib/service"
)

type AuthTestSuite struct {
	TestSuite
	service *service.RouterService
	clock   clockwork.FakeClock
	alice   *wallet
}

func (suite *AuthTestSuite) SetupSuite() {
	suite.alice = newWallet()
	svc, clock, err := RouterTestServiceInit(newWallet().address)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.clock = clock
	suite.echo = newTestEcho(svc)
}

func (suite *AuthTestSuite) signedLogin(w *wallet, chainID int64) *v2controllers.AuthRequestBody {
	message := security.NewLoginMessage(w.address, chainID, suite.service.Now()).String()
	signature, err := security.SignLoginMessage(message, w.key)
	require.NoError(suite.T(), err)
	return &v2controllers.AuthRequestBody{Message: message, Signature: signature}
}

func (suite *AuthTestSuite) TestLoginAndCallSecuredEndpoint() {
	token := suite.login(suite.alice)

	invoices := []v2controllers.Invoice{}
	suite.decode(suite.request(http.MethodGet, "/v2/invoices", nil, token), http.StatusOK, &invoices)
	assert.Empty(suite.T(), invoices)
}

func (suite *AuthTestSuite) TestLoginMessageNeedsAddress() {
	suite.checkErrResponse(suite.request(http.MethodGet, "/v2/auth/message?address=alice", nil, ""), responses.BadArgumentsError)
}

func (suite *AuthTestSuite) TestReplayedLoginIsRejected() {
	body := suite.signedLogin(suite.alice, testChainID)
	suite.decode(suite.request(http.MethodPost, "/v2/auth", body, ""), http.StatusOK, &v2controllers.AuthResponseBody{})
	suite.checkErrResponse(suite.request(http.MethodPost, "/v2/auth", body, ""), responses.BadAuthError)
}

func (suite *AuthTestSuite) TestLoginForOtherChainIsRejected() {
	body := suite.signedLogin(suite.alice, 137)
	suite.checkErrResponse(suite.request(http.MethodPost, "/v2/auth", body, ""), responses.BadAuthError)
}

func (suite *AuthTestSuite) TestExpiredLoginIsRejected() {
	body := suite.signedLogin(suite.alice, testChainID)
	suite.clock.Advance(10 * time.Minute)
	suite.checkErrResponse(suite.request(http.MethodPost, "/v2/auth", body, ""), responses.BadAuthError)
}

func (suite *AuthTestSuite) TestSignatureOfOtherWalletIsRejected() {
	body := suite.signedLogin(suite.alice, testChainID)
	mallory := suite.signedLogin(newWallet(), testChainID)
	body.Signature = mallory.Signature
	suite.checkErrResponse(suite.request(http.MethodPost, "/v2/auth", body, ""), responses.BadAuthError)
}

func (suite *AuthTestSuite) TestSecuredEndpointsNeedToken() {
	suite.checkErrResponse(suite.request(http.MethodGet, "/v2/invoices", nil, ""), responses.BadAuthError)
	suite.checkErrResponse(suite.request(http.MethodGet, "/v2/invoices", nil, "not-a-token"), responses.BadAuthError)
	suite.checkErrResponse(suite.request(http.MethodPut, "/v2/fee", map[string]uint64{"feeRate": 0}, ""), responses.BadAuthError)
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
