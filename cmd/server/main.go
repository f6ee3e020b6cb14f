package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/jonboulle/clockwork"
	"github.com/transfersafe/router/rabbitmq"
	ddEcho "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/transfersafe/router/db"
	"github.com/transfersafe/router/db/migrations"
	"github.com/transfersafe/router/docs"
	"github.com/transfersafe/router/lib"
	"github.com/transfersafe/router/lib/security"
	"github.com/transfersafe/router/lib/service"
	"github.com/transfersafe/router/lib/tokens"
	"github.com/transfersafe/router/lib/transport"
	"github.com/uptrace/bun/migrate"
)

// @title        TransferSafe Router
// @version      0.1.0
// @description  Invoice registry and escrow router for TransferSafe payments

// @license.name  GNU GPLv3
// @license.url   https://www.gnu.org/licenses/gpl-3.0.en.html

// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @schemes                     https http
func main() {

	c := &service.Config{}

	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := lib.Logger(c.LogFilePath)

	if !ethcommon.IsHexAddress(c.DeployerAddress) {
		logger.Fatalf("DEPLOYER_ADDRESS is not a valid address: %q", c.DeployerAddress)
	}

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c.DBConfig())
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	// Migrate the DB
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(startupCtx)
	if err != nil {
		logger.Fatalf("Error initializing db migrator: %v", err)
	}
	_, err = migrator.Migrate(startupCtx)
	if err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}
	// Setup exception tracking with Sentry if configured
	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"401"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	// Login nonces are shared through redis when several instances run behind a load balancer
	var nonceStore security.NonceStore
	if c.RedisUri != "" {
		redisStore, err := security.NewRedisNonceStore(c.RedisUri)
		if err != nil {
			logger.Fatalf("Error connecting to redis: %v", err)
		}
		defer redisStore.Client.Close()
		nonceStore = redisStore
	} else {
		nonceStore = security.NewMemoryNonceStore(clockwork.NewRealClock())
	}

	// If no RABBITMQ_URI was provided we will not attempt to create a client
	// No rabbitmq features will be available in this case.
	var rabbitmqClient rabbitmq.Client
	if c.RabbitMQUri != "" {
		amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, rabbitmq.WithDialLogger(logger))
		if err != nil {
			logger.Fatal(err)
		}

		rabbitmqClient, err = rabbitmq.NewClient(amqpClient,
			rabbitmq.WithLogger(logger),
			rabbitmq.WithInvoiceExchange(c.RabbitMQInvoiceExchange),
		)
		if err != nil {
			logger.Fatal(err)
		}

		// close the connection gently at the end of the runtime
		defer rabbitmqClient.Close()
	}

	svc := &service.RouterService{
		Config:         c,
		DB:             dbConn,
		Logger:         logger,
		Clock:          clockwork.NewRealClock(),
		InvoicePubSub:  service.NewPubsub(),
		NonceStore:     nonceStore,
		RabbitMQClient: rabbitmqClient,
	}

	settings, err := svc.Init(startupCtx, ethcommon.HexToAddress(c.DeployerAddress))
	if err != nil {
		logger.Fatalf("Error initializing router: %v", err)
	}
	logger.Infof("Router initialized for chain %d with fee rate %d", settings.ChainID, settings.FeeRate)

	//init echo server
	e := transport.InitEcho(c, logger)
	//if Datadog is configured, add datadog middleware
	if c.DatadogAgentUrl != "" {
		tracer.Start(tracer.WithAgentAddr(c.DatadogAgentUrl))
		defer tracer.Stop()
		e.Use(ddEcho.Middleware(ddEcho.WithServiceName("transfersafe-router")))
	}

	//Start Prometheus server if necessary
	var echoPrometheus *echo.Echo
	if c.EnablePrometheus {
		echoPrometheus = transport.StartPrometheusEcho(logger, e)
		go func() {
			if err := echoPrometheus.Start(fmt.Sprintf(":%v", c.PrometheusPort)); err != nil && err != http.ErrServerClosed {
				e.Logger.Fatal(err)
			}
		}()
	}

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for login and state changing requests
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)

	secured := e.Group("", tokens.Middleware(c.JWTSecret, c.ChainID), strictRateLimitMiddleware, logMw)
	transport.RegisterV2Endpoints(svc, e, secured, strictRateLimitMiddleware, logMw)

	//Swagger API spec
	cacheMw, err := transport.CreateCacheMiddleware()
	if err != nil {
		logger.Fatal(err)
	}
	docs.SwaggerInfo.Host = c.Host
	e.GET("/swagger/*", echoSwagger.WrapHandler, cacheMw)

	var backgroundWg sync.WaitGroup
	backGroundCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)

	//Start webhook subscription
	if c.WebhookUrl != "" {
		backgroundWg.Add(1)
		go func() {
			svc.StartWebhookSubscription(backGroundCtx, c.WebhookUrl)
			svc.Logger.Info("Webhook routine done")
			backgroundWg.Done()
		}()
	}
	//Start rabbit publisher
	if svc.RabbitMQClient != nil {
		backgroundWg.Add(1)
		go func() {
			err := svc.RabbitMQClient.StartPublishInvoiceEvents(backGroundCtx,
				svc.SubscribeInvoiceEvents,
				rabbitmq.EncodeInvoiceEventJSON,
			)
			if err != nil {
				svc.Logger.Error(err)
				sentry.CaptureException(err)
			}

			svc.Logger.Info("Rabbit invoice publisher done")
			backgroundWg.Done()
		}()
	}

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	<-backGroundCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	if echoPrometheus != nil {
		if err := echoPrometheus.Shutdown(ctx); err != nil {
			e.Logger.Fatal(err)
		}
	}
	//Wait for graceful shutdown of background routines
	backgroundWg.Wait()
	svc.Logger.Info("Router exiting gracefully. Goodbye.")
}
