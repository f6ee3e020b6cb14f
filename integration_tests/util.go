package integration_tests

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	v2controllers "github.com/transfersafe/router/controllers_v2"
	"github.com/transfersafe/router/db"
	"github.com/transfersafe/router/db/migrations"
	"github.com/transfersafe/router/lib"
	"github.com/transfersafe/router/lib/responses"
	"github.com/transfersafe/router/lib/security"
	"github.com/transfersafe/router/lib/service"
	"github.com/transfersafe/router/lib/tokens"
	"github.com/transfersafe/router/lib/transport"
	"github.com/uptrace/bun/migrate"
)

const testChainID = 80001

var testStart = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type wallet struct {
	key     *ecdsa.PrivateKey
	address ethcommon.Address
}

func newWallet() *wallet {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &wallet{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// RouterTestServiceInit opens a fresh database, migrates it and initializes the router for deployer.
// DATABASE_URI may point the tests at postgres, an in-memory sqlite database is used otherwise.
func RouterTestServiceInit(deployer ethcommon.Address) (svc *service.RouterService, clock clockwork.FakeClock, err error) {
	dbUri, ok := os.LookupEnv("DATABASE_URI")
	if !ok {
		dbUri = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	}
	c := &service.Config{
		DatabaseUri:             dbUri,
		DatabaseMaxConns:        1,
		DatabaseMaxIdleConns:    1,
		DatabaseConnMaxLifetime: 10,
		ChainID:                 testChainID,
		DeployerAddress:         deployer.Hex(),
		JWTSecret:               []byte("SECRET"),
		JWTAccessTokenExpiry:    3600,
		LoginMessageMaxAge:      300,
	}

	dbConn, err := db.Open(c.DBConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	_, err = migrator.Migrate(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}

	clock = clockwork.NewFakeClockAt(testStart)
	svc = &service.RouterService{
		Config:        c,
		DB:            dbConn,
		Logger:        lib.Logger(c.LogFilePath),
		Clock:         clock,
		InvoicePubSub: service.NewPubsub(),
		NonceStore:    security.NewMemoryNonceStore(clock),
	}
	if _, err = svc.Init(ctx, deployer); err != nil {
		return nil, nil, fmt.Errorf("failed to init router: %w", err)
	}
	return svc, clock, nil
}

// newPeerInstance returns a second router on svc's database, as another server process would run it.
// Postgres gets its own connection pool, in-memory sqlite only lives on the shared one.
func newPeerInstance(svc *service.RouterService) (*service.RouterService, error) {
	dbConn := svc.DB
	if svc.DB.Dialect().Name().String() == "pg" {
		var err error
		dbConn, err = db.Open(svc.Config.DBConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}
	return &service.RouterService{
		Config:        svc.Config,
		DB:            dbConn,
		Logger:        svc.Logger,
		Clock:         svc.Clock,
		InvoicePubSub: service.NewPubsub(),
		NonceStore:    svc.NonceStore,
	}, nil
}

func clearTable(svc *service.RouterService, tableName string) error {
	_, err := svc.DB.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	return err
}

// newTestEcho serves the v2 api like the server binary does, with rate limits tests will not trip.
func newTestEcho(svc *service.RouterService) *echo.Echo {
	e := transport.InitEcho(&service.Config{DefaultRateLimit: 1000}, svc.Logger)
	logMw := transport.CreateLoggingMiddleware(svc.Logger)
	noLimit := transport.CreateRateLimitMiddleware(1000, 1000)
	secured := e.Group("", tokens.Middleware(svc.Config.JWTSecret, svc.Config.ChainID), noLimit, logMw)
	transport.RegisterV2Endpoints(svc, e, secured, noLimit, logMw)
	return e
}

type TestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (suite *TestSuite) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *TestSuite) decode(rec *httptest.ResponseRecorder, status int, v interface{}) {
	require.Equal(suite.T(), status, rec.Code, rec.Body.String())
	require.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(v))
}

func (suite *TestSuite) checkErrResponse(rec *httptest.ResponseRecorder, expected responses.ErrorResponse) *responses.ErrorResponse {
	errorResponse := &responses.ErrorResponse{}
	suite.decode(rec, expected.HttpStatusCode, errorResponse)
	assert.True(suite.T(), errorResponse.Error)
	assert.Equal(suite.T(), expected.Code, errorResponse.Code)
	return errorResponse
}

// login runs the signed message flow for w and returns its access token.
func (suite *TestSuite) login(w *wallet) string {
	message := &v2controllers.LoginMessageResponseBody{}
	suite.decode(suite.request(http.MethodGet, "/v2/auth/message?address="+w.address.Hex(), nil, ""), http.StatusOK, message)

	signature, err := security.SignLoginMessage(message.Message, w.key)
	require.NoError(suite.T(), err)

	auth := &v2controllers.AuthResponseBody{}
	suite.decode(suite.request(http.MethodPost, "/v2/auth", &v2controllers.AuthRequestBody{
		Message:   message.Message,
		Signature: signature,
	}, ""), http.StatusOK, auth)
	assert.Equal(suite.T(), w.address.Hex(), auth.Address)
	return auth.AccessToken
}

func (suite *TestSuite) createInvoice(token string, body map[string]interface{}) *v2controllers.CreateInvoiceResponseBody {
	created := &v2controllers.CreateInvoiceResponseBody{}
	suite.decode(suite.request(http.MethodPost, "/v2/invoices", body, token), http.StatusOK, created)
	return created
}
