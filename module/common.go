package module

import (
	"errors"

	"github.com/CrypToolProject/CrypTool-2-sub021/module/irrecoverable"
)

// ErrMultipleStartup is returned when a component is started twice.
var ErrMultipleStartup = errors.New("component may only be started once")

// ReadyDoneAware provides easy interface to wait for module startup and shutdown.
// Modules that implement this interface only support a single start-stop cycle,
// and will not restart if Ready() is called again after shutdown has already commenced.
type ReadyDoneAware interface {
	// Ready returns a channel that is closed once startup has completed.
	Ready() <-chan struct{}

	// Done returns a channel that is closed once shutdown has completed.
	Done() <-chan struct{}
}

// Startable provides an interface to start a component. Once started, the component
// can be stopped by cancelling the given context.
type Startable interface {
	Start(irrecoverable.SignalerContext)
}
