package analytics

import "sync"

// EventType names the two push events. A snapshot carries a full
// summary that can replace view state directly; an update is a bare
// signal telling the consumer to refetch.
type EventType string

const (
	EventSnapshot EventType = "snapshot"
	EventUpdate   EventType = "update"
)

// Event is one message on the push channel.
type Event struct {
	Type    EventType `json:"type"`
	Summary *Summary  `json:"summary,omitempty"`
}

// Broker fans mutation signals out to every connected subscriber.
// Delivery is best effort: a subscriber that has fallen behind loses
// the signal, which is safe because every event only ever means
// "refetch".
type Broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be
// called when the consumer goes away so the channel is not leaked.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}

	return ch, cancel
}

// Publish delivers the event to all current subscribers without
// blocking on slow ones.
func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports how many listeners are attached.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}

// DocumentsChanged satisfies document.Notifier: any document mutation
// becomes an update signal on the channel.
func (b *Broker) DocumentsChanged() {
	b.Publish(Event{Type: EventUpdate})
}
