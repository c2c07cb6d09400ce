package api

import "sync"

// EventType names the kind of data carried by a BroadcastEvent.
type EventType string

const (
	// EventFrame announces a newly rendered frame is available.
	EventFrame EventType = "frame"
	// EventPrint carries one line appended to a session's print buffer.
	EventPrint EventType = "print"
)

// BroadcastEvent is one message fanned out to subscribed WebSocket
// clients.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// Subscription is a client's live feed of events, optionally filtered
// to one session and a set of event types.
type Subscription struct {
	SessionID  string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans BroadcastEvents out to every matching Subscription.
// Registration, unregistration and delivery all run on one goroutine
// so Subscriptions never need their own locking.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster starts a Broadcaster's event loop and returns it.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.SessionID != "" && sub.SessionID != event.SessionID {
					continue
				}
				if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
					// slow client, drop this event rather than block the broadcaster
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new Subscription, optionally filtered to
// sessionID ("" = all sessions) and eventTypes (empty = all types).
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	typeSet := make(map[EventType]bool, len(eventTypes))
	for _, et := range eventTypes {
		typeSet[et] = true
	}
	sub := &Subscription{
		SessionID:  sessionID,
		EventTypes: typeSet,
		Channel:    make(chan BroadcastEvent, 64),
	}
	b.register <- sub
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast delivers event to every matching subscription, dropping it
// if the broadcaster's internal queue is saturated.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// BroadcastFrame announces that frame n of sessionID has finished
// rendering.
func (b *Broadcaster) BroadcastFrame(sessionID string, n int) {
	b.Broadcast(BroadcastEvent{
		Type:      EventFrame,
		SessionID: sessionID,
		Data:      map[string]interface{}{"frame": n},
	})
}

// BroadcastPrint forwards one print statement's output.
func (b *Broadcaster) BroadcastPrint(sessionID, line string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventPrint,
		SessionID: sessionID,
		Data:      map[string]interface{}{"line": line},
	})
}

// Close shuts the broadcaster down and closes every open subscription.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount reports how many clients are currently subscribed.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
