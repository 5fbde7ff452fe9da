package module

// Notifier is a binary gate between a producer and a single waiting routine.
// Notify opens the gate; receiving from Channel passes it and closes it again
// (auto-reset). The gate remembers a Notify issued while nobody waits, and
// repeated Notify calls on an open gate collapse into one.
//
// Notifiers are backed by a channel with capacity 1 and can be passed by value.
type Notifier struct {
	notifier chan struct{}
}

// NewNotifier instantiates a closed Notifier.
func NewNotifier() Notifier {
	return Notifier{make(chan struct{}, 1)}
}

// Notify opens the gate without blocking.
func (n Notifier) Notify() {
	select {
	case n.notifier <- struct{}{}:
	default:
	}
}

// Channel returns the channel to wait on.
func (n Notifier) Channel() <-chan struct{} {
	return n.notifier
}
