package irrecoverable

import (
	"context"
	"fmt"
	"log"
	"runtime"
)

// Signaler sends the error out.
type Signaler struct {
	errChan chan error
}

func NewSignaler() (*Signaler, <-chan error) {
	errChan := make(chan error, 1)
	return &Signaler{errChan: errChan}, errChan
}

// Throw is a narrow drop-in replacement for panic, log.Fatal, log.Panic, etc
// anywhere there's something connected to the error channel. It only signals
// the first error and terminates the calling goroutine.
func (s *Signaler) Throw(err error) {
	defer runtime.Goexit()
	select {
	case s.errChan <- err:
	default:
	}
}

// SignalerContext is a context.Context that can also propagate irrecoverable errors.
type SignalerContext interface {
	context.Context
	Throw(err error) // delegates to the signaler
	sealed()         // private, to constrain builder to using WithSignaler
}

type signalerCtx struct {
	context.Context
	*Signaler
}

func (sc signalerCtx) sealed() {}

// WithSignaler is the One True Way of getting a SignalerContext.
func WithSignaler(parent context.Context) (SignalerContext, <-chan error) {
	sig, errChan := NewSignaler()
	return &signalerCtx{parent, sig}, errChan
}

// Throw can be a drop-in replacement anywhere we have a context.Context likely
// to support irrecoverables.
func Throw(ctx context.Context, err error) {
	signalerAbleContext, ok := ctx.(SignalerContext)
	if ok {
		signalerAbleContext.Throw(err)
	}
	log.Fatalf("irrecoverable error signaler not found for context, unhandled irrecoverable error: %v", err)
}

// Throwf is Throw with formatting.
func Throwf(ctx context.Context, msg string, args ...interface{}) {
	Throw(ctx, fmt.Errorf(msg, args...))
}
