package input

// Handler receives dispatched events.
type Handler func(Event)

type subscription struct {
	fn     Handler
	active bool
}

// Dispatcher fans events out to subscribers in subscription order.
// It is used from the frame thread only.
type Dispatcher struct {
	subs []*subscription
}

// Subscribe registers fn and returns a func that removes it. Unsubscribing
// during a dispatch is safe; the handler is not called again afterwards.
// Calling the returned func more than once is a no-op.
func (d *Dispatcher) Subscribe(fn Handler) (unsubscribe func()) {
	s := &subscription{fn: fn, active: true}
	d.subs = append(d.subs, s)
	return func() {
		if !s.active {
			return
		}
		s.active = false
		for i, v := range d.subs {
			if v == s {
				d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
				break
			}
		}
	}
}

// Dispatch delivers e to every current subscriber.
func (d *Dispatcher) Dispatch(e Event) {
	subs := d.subs
	for _, s := range subs {
		if s.active {
			s.fn(e)
		}
	}
}

// Len returns the number of live subscriptions.
func (d *Dispatcher) Len() int {
	return len(d.subs)
}
