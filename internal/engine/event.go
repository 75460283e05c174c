package engine

import "go.uber.org/zap"

// EventFunc handles a published event. Errors are logged, never fatal.
type EventFunc func(data any) error

type eventSubscription struct {
	id       int
	callback EventFunc
	once     bool
}

// EventBus is a named-topic publish/subscribe system ticked from the frame
// loop. Publishing iterates a snapshot of the subscriber list, so callbacks
// may subscribe or unsubscribe without corrupting the current dispatch.
type EventBus struct {
	log           *zap.Logger
	subscriptions map[string][]eventSubscription
	subToEvent    map[int]string
	nextID        int
}

func NewEventBus(log *zap.Logger) *EventBus {
	return &EventBus{
		log:           log,
		subscriptions: make(map[string][]eventSubscription),
		subToEvent:    make(map[int]string),
		nextID:        1,
	}
}

// Publish invokes every subscriber of the event with data. Once-subscribers
// are removed after they fire.
func (b *EventBus) Publish(event string, data any) {
	subs, ok := b.subscriptions[event]
	if !ok {
		return
	}

	snapshot := make([]eventSubscription, len(subs))
	copy(snapshot, subs)

	var remove []int
	for _, sub := range snapshot {
		if sub.callback == nil {
			continue
		}
		if err := sub.callback(data); err != nil {
			b.log.Error("event callback error",
				zap.String("event", event),
				zap.Error(err))
		}
		if sub.once {
			remove = append(remove, sub.id)
		}
	}
	for _, id := range remove {
		b.Unsubscribe(id)
	}
}

// Subscribe registers a callback for an event. Returns a subscription id.
func (b *EventBus) Subscribe(event string, callback EventFunc) int {
	return b.subscribe(event, callback, false)
}

// SubscribeOnce registers a callback that fires at most once.
func (b *EventBus) SubscribeOnce(event string, callback EventFunc) int {
	return b.subscribe(event, callback, true)
}

func (b *EventBus) subscribe(event string, callback EventFunc, once bool) int {
	if callback == nil {
		b.log.Warn("Event.Subscribe: callback is nil", zap.String("event", event))
		return 0
	}
	id := b.nextID
	b.nextID++
	b.subscriptions[event] = append(b.subscriptions[event], eventSubscription{
		id:       id,
		callback: callback,
		once:     once,
	})
	b.subToEvent[id] = event
	return id
}

// Unsubscribe removes a subscription by id. Unknown ids are ignored.
func (b *EventBus) Unsubscribe(id int) {
	event, ok := b.subToEvent[id]
	if !ok {
		return
	}
	subs := b.subscriptions[event]
	for i := range subs {
		if subs[i].id == id {
			b.subscriptions[event] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	delete(b.subToEvent, id)
}

// UnsubscribeAll removes every subscription for an event.
func (b *EventBus) UnsubscribeAll(event string) {
	for _, sub := range b.subscriptions[event] {
		delete(b.subToEvent, sub.id)
	}
	delete(b.subscriptions, event)
}

// Clear drops all subscriptions. Used on scene change.
func (b *EventBus) Clear() {
	clear(b.subscriptions)
	clear(b.subToEvent)
}
