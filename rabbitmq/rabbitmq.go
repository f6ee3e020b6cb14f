package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/transfersafe/router/db/models"
	"github.com/ziflex/lecho/v3"
)

// encoded events are short lived, reuse their buffers
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"
)

type (
	SubscribeToInvoiceEventsFunc = func() (events chan models.InvoiceEvent, unsubscribe func(), err error)
	EncodeInvoiceEventFunc       = func(ctx context.Context, w io.Writer, event models.InvoiceEvent) error
)

type Client interface {
	StartPublishInvoiceEvents(context.Context, SubscribeToInvoiceEventsFunc, EncodeInvoiceEventFunc) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	invoiceExchange string
}

type ClientOption = func(client *DefaultClient)

func WithInvoiceExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.invoiceExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,

		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),

		invoiceExchange: "router_invoice",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// Dial connects to rabbitmq and wraps the connection in a publishing client.
func Dial(uri string, options ...ClientOption) (Client, error) {
	amqpClient, err := DialAMQP(uri)
	if err != nil {
		return nil, err
	}
	return NewClient(amqpClient, options...)
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

// StartPublishInvoiceEvents forwards invoice events to the invoice exchange until ctx is done.
// Events are routed by their type, e.g. "invoice.deposited".
func (client *DefaultClient) StartPublishInvoiceEvents(ctx context.Context, subscribeFunc SubscribeToInvoiceEventsFunc, payloadFunc EncodeInvoiceEventFunc) error {
	err := client.amqpClient.ExchangeDeclare(
		client.invoiceExchange,
		// topic exchanges let consumers bind to a subset of event types
		"topic",
		// durable and not auto-deleted so the exchange survives broker restarts
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	client.logger.Info("Starting rabbitmq publisher")

	events, unsubscribe, err := subscribeFunc()
	if err != nil {
		return err
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := client.publishInvoiceEvent(ctx, event, payloadFunc); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishInvoiceEvent(ctx context.Context, event models.InvoiceEvent, payloadFunc EncodeInvoiceEventFunc) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	err := payloadFunc(ctx, payload, event)
	if err != nil {
		return err
	}

	err = client.amqpClient.PublishWithContext(ctx,
		client.invoiceExchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			MessageId:   event.ID,
			Timestamp:   event.OccurredAt,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	client.logger.Debugf("Successfully published %s for invoice %s to rabbitmq", event.Type, event.Invoice.ID)

	return nil
}

// EncodeInvoiceEventJSON is the default payload encoder.
func EncodeInvoiceEventJSON(ctx context.Context, w io.Writer, event models.InvoiceEvent) error {
	return json.NewEncoder(w).Encode(event)
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
