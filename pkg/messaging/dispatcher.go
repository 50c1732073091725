package messaging

// Handler receives events delivered by the dispatcher
type Handler func(event Event)

// Dispatcher is a synchronous publish/subscribe bus. Notify delivers the event
// to every listener of its type, in registration order, before returning.
// It holds no locks: callers must serialize Notify themselves.
type Dispatcher struct {
	listeners [eventTypeAmount][]Handler
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Listen registers a handler for the given event type.
// Handlers registered for an unknown type are ignored.
func (d *Dispatcher) Listen(eventType EventType, handler Handler) {
	if eventType >= eventTypeAmount || handler == nil {
		return
	}
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Notify delivers an event to all listeners of eventType.
// Returns false if the type is unknown or nobody listens to it.
func (d *Dispatcher) Notify(eventType EventType, event Event) bool {
	if eventType >= eventTypeAmount {
		return false
	}

	listeners := d.listeners[eventType]
	for _, handler := range listeners {
		handler(event)
	}

	return len(listeners) > 0
}
