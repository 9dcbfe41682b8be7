package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EventQueue is a FIFO queue that lives for one tick. Systems later in the
// tick order read what earlier systems pushed; the world flushes it at the end.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Each calls fn for every queued event of the given type, in push order.
func (q *EventQueue) Each(eventType string, fn func(Event)) {
	if q == nil || fn == nil {
		return
	}
	for i := 0; i < len(q.items); i++ {
		if q.items[i].Type == eventType {
			fn(q.items[i])
		}
	}
}

// Len reports how many events are queued.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
