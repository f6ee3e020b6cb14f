package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
)

func TestWebhookReceivesInvoiceEvents(t *testing.T) {
	r := newTestRouter(t)
	received := make(chan models.InvoiceEvent, 1)
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		event := models.InvoiceEvent{}
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&event))
		received <- event
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.svc.StartWebhookSubscription(ctx, webhook.URL)
	require.Eventually(t, func() bool {
		return r.svc.InvoicePubSub.Subscribers(common.EventTopicAll) == 1
	}, time.Second, 10*time.Millisecond)

	_, err := r.svc.CreateInvoice(context.Background(), r.deployer, hostileCandidate("hook", 1000))
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, common.EventInvoiceCreated, event.Type)
		assert.Equal(t, "hook", event.Invoice.ID)
		assert.Equal(t, uint64(10), event.Invoice.Fee)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestWebhookRetriesServerErrors(t *testing.T) {
	r := newTestRouter(t)
	var calls atomic.Int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	r.svc.postToWebhook(context.Background(), models.InvoiceEvent{Type: common.EventInvoiceCreated}, webhook.URL)
	assert.Equal(t, int32(2), calls.Load())
}

func TestWebhookDoesNotRetryClientErrors(t *testing.T) {
	r := newTestRouter(t)
	var calls atomic.Int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer webhook.Close()

	r.svc.postToWebhook(context.Background(), models.InvoiceEvent{Type: common.EventInvoiceCreated}, webhook.URL)
	assert.Equal(t, int32(1), calls.Load())
}
