package ecs

// EventKind names a world notification.
type EventKind string

// Event is a notification about one entity. Data carries a kind-specific
// payload.
type Event struct {
	Kind   EventKind
	Entity Entity
	Data   any
}

// Handler receives dispatched events.
type Handler func(w *World, evt Event)

// maxDispatchRounds bounds how many times handlers may publish follow-up
// events within one flush. Anything left over is dispatched next tick.
const maxDispatchRounds = 4

// EventBus queues events during a tick and dispatches them to subscribers
// when the tick ends.
type EventBus struct {
	items    []Event
	handlers map[EventKind][]Handler
}

// Push queues an event for dispatch at the end of the current tick.
func (q *EventBus) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Subscribe registers fn for every event of kind.
func (q *EventBus) Subscribe(kind EventKind, fn Handler) {
	if q == nil || fn == nil {
		return
	}
	if q.handlers == nil {
		q.handlers = make(map[EventKind][]Handler)
	}
	q.handlers[kind] = append(q.handlers[kind], fn)
}

// Pending returns the number of queued events.
func (q *EventBus) Pending() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all queued events without dispatching them.
func (q *EventBus) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventBus) flush(w *World) {
	if q == nil {
		return
	}
	for round := 0; round < maxDispatchRounds && len(q.items) > 0; round++ {
		batch := q.items
		q.items = nil
		for _, evt := range batch {
			for _, fn := range q.handlers[evt.Kind] {
				fn(w, evt)
			}
		}
	}
}
