// Package events replaces the prototype's ambient global flags with an
// explicit typed pub/sub channel: components subscribe on mount and
// unsubscribe on teardown instead of polling shared state.
package events

import (
	"sync"
)

// Topic names a channel on the bus.
type Topic string

const (
	// TopicItemsReload asks list surfaces to re-fetch the item feed.
	TopicItemsReload Topic = "items:reload"
	// TopicQuickAddClose dismisses the quick-add surface after a create.
	TopicQuickAddClose Topic = "quickadd:close"
	// TopicToast carries user-visible, non-fatal error notices.
	TopicToast Topic = "toast"
)

// Event is a published message.
type Event struct {
	Topic   Topic
	Payload interface{}
}

// Bus is a minimal in-process pub/sub hub. Publish never blocks: slow
// subscribers drop events rather than stalling the publisher.
type Bus struct {
	mu   sync.Mutex
	subs map[Topic]map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[int]chan Event)}
}

// Subscribe registers interest in a topic. The returned cancel func must be
// called on teardown; it closes the channel.
func (b *Bus) Subscribe(topic Topic) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[topic][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[topic][id]; ok {
			delete(b.subs[topic], id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the payload to every subscriber of the topic.
func (b *Bus) Publish(topic Topic, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- Event{Topic: topic, Payload: payload}:
		default:
			// Subscriber buffer full, drop.
		}
	}
}
