package physics

// CollisionPair names two bodies in contact, lower ID first.
type CollisionPair struct {
	A, B BodyID
}

func makePair(a, b BodyID) CollisionPair {
	if a > b {
		return CollisionPair{A: b, B: a}
	}
	return CollisionPair{A: a, B: b}
}

// Event is a multi-cast event with one argument.
type Event[T any] struct {
	listeners []func(T)
}

// AddListener registers a callback. nil is ignored.
func (e *Event[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

func (e *Event[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls every listener in registration order.
func (e *Event[T]) Invoke(arg T) {
	for _, listener := range e.listeners {
		listener(arg)
	}
}

func (e *Event[T]) ListenerCount() int {
	return len(e.listeners)
}
