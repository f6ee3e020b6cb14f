package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
)

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan models.InvoiceEvent
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan models.InvoiceEvent)
	return ps
}

// Subscribe registers ch for topic, an event type or common.EventTopicAll.
func (ps *Pubsub) Subscribe(topic string, ch chan models.InvoiceEvent) (subId string, err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan models.InvoiceEvent)
	}
	subId = uuid.NewString()
	ps.subs[topic][subId] = ch
	return subId, nil
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

// Publish delivers msg to the subscribers of topic and of common.EventTopicAll.
// Subscribers whose buffer is full miss the event; the number of misses is returned.
func (ps *Pubsub) Publish(topic string, msg models.InvoiceEvent) (dropped int) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, t := range []string{topic, common.EventTopicAll} {
		for _, ch := range ps.subs[t] {
			select {
			case ch <- msg:
			default:
				dropped++
			}
		}
	}
	return dropped
}

func (ps *Pubsub) Subscribers(topic string) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subs[topic])
}

// SubscribeInvoiceEvents subscribes a buffered channel to every invoice event.
// The returned func unsubscribes and closes the channel.
func (svc *RouterService) SubscribeInvoiceEvents() (chan models.InvoiceEvent, func(), error) {
	events := make(chan models.InvoiceEvent, webhookBufferSize)
	subId, err := svc.InvoicePubSub.Subscribe(common.EventTopicAll, events)
	if err != nil {
		return nil, nil, err
	}
	return events, func() { svc.InvoicePubSub.Unsubscribe(subId, common.EventTopicAll) }, nil
}
