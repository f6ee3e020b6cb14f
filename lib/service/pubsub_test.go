package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
)

func TestPubsubRoutesByTopic(t *testing.T) {
	ps := NewPubsub()
	created := make(chan models.InvoiceEvent, 1)
	all := make(chan models.InvoiceEvent, 2)
	_, err := ps.Subscribe(common.EventInvoiceCreated, created)
	require.NoError(t, err)
	_, err = ps.Subscribe(common.EventTopicAll, all)
	require.NoError(t, err)

	assert.Equal(t, 0, ps.Publish(common.EventInvoiceCreated, models.InvoiceEvent{ID: "1", Type: common.EventInvoiceCreated}))
	assert.Equal(t, 0, ps.Publish(common.EventInvoiceRefunded, models.InvoiceEvent{ID: "2", Type: common.EventInvoiceRefunded}))

	assert.Equal(t, "1", (<-created).ID)
	assert.Len(t, created, 0)
	assert.Equal(t, "1", (<-all).ID)
	assert.Equal(t, "2", (<-all).ID)
}

func TestPubsubDropsForSlowSubscribers(t *testing.T) {
	ps := NewPubsub()
	slow := make(chan models.InvoiceEvent)
	_, err := ps.Subscribe(common.EventTopicAll, slow)
	require.NoError(t, err)

	assert.Equal(t, 1, ps.Publish(common.EventInvoiceCreated, models.InvoiceEvent{ID: "1"}))
}

func TestPubsubUnsubscribeClosesChannel(t *testing.T) {
	ps := NewPubsub()
	ch := make(chan models.InvoiceEvent, 1)
	id, err := ps.Subscribe(common.EventTopicAll, ch)
	require.NoError(t, err)
	assert.Equal(t, 1, ps.Subscribers(common.EventTopicAll))

	ps.Unsubscribe(id, common.EventTopicAll)
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, ps.Subscribers(common.EventTopicAll))
	// unknown ids are ignored
	ps.Unsubscribe(id, common.EventTopicAll)
}

func TestSubscribeInvoiceEvents(t *testing.T) {
	svc := newTestRouter(t).svc
	events, unsubscribe, err := svc.SubscribeInvoiceEvents()
	require.NoError(t, err)
	assert.Equal(t, 1, svc.InvoicePubSub.Subscribers(common.EventTopicAll))

	svc.InvoicePubSub.Publish(common.EventInvoiceReleased, models.InvoiceEvent{ID: "released"})
	assert.Equal(t, "released", (<-events).ID)

	unsubscribe()
	assert.Equal(t, 0, svc.InvoicePubSub.Subscribers(common.EventTopicAll))
	_, open := <-events
	assert.False(t, open)
}
