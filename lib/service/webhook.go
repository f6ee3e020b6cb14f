package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
)

const (
	webhookBufferSize  = 100
	webhookMaxRetries  = 3
	webhookPostTimeout = 10 * time.Second
)

var webhookClient = &http.Client{Timeout: webhookPostTimeout}

func (svc *RouterService) StartWebhookSubscription(ctx context.Context, url string) {
	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	events := make(chan models.InvoiceEvent, webhookBufferSize)
	subId, err := svc.InvoicePubSub.Subscribe(common.EventTopicAll, events)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer svc.InvoicePubSub.Unsubscribe(subId, common.EventTopicAll)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			svc.postToWebhook(ctx, event, url)
		}
	}
}

func (svc *RouterService) postToWebhook(ctx context.Context, event models.InvoiceEvent, url string) {
	payload, err := json.Marshal(event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	post := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := webhookClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			msg, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("webhook status code was %d, body: %s", resp.StatusCode, msg)
		}
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("webhook status code was %d, body: %s", resp.StatusCode, msg))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), webhookMaxRetries), ctx)
	err = backoff.RetryNotify(post, policy, func(err error, wait time.Duration) {
		svc.Logger.Warnf("Webhook delivery of %s for invoice %s failed, retrying in %s: %v", event.Type, event.Invoice.ID, wait, err)
	})
	if err != nil {
		webhookFailuresCounter.Inc()
		svc.Logger.Errorf("Webhook delivery of %s for invoice %s failed: %v", event.Type, event.Invoice.ID, err)
	}
}
