package util

import (
	"context"
	"sync"

	"github.com/CrypToolProject/CrypTool-2-sub021/module"
)

// AllDone returns a channel that is closed when all input components are done.
func AllDone(components ...module.ReadyDoneAware) <-chan struct{} {
	doneChans := make([]<-chan struct{}, len(components))
	for i, c := range components {
		doneChans[i] = c.Done()
	}
	return AllClosed(doneChans...)
}

// AllClosed returns a channel that is closed when all input channels are closed.
func AllClosed(channels ...<-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	var wg sync.WaitGroup

	for _, ch := range channels {
		wg.Add(1)
		go func(ch <-chan struct{}) {
			<-ch
			wg.Done()
		}(ch)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	return done
}

// CheckClosed checks if the provided channel has a signal or was closed.
// Returns true if the channel was signaled/closed, otherwise, returns false.
func CheckClosed(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

// WaitSignal blocks until a signal is received on ch or the context is cancelled.
// A signal that is available at the same time as the cancellation loses: once the
// context is done WaitSignal always returns the context error.
func WaitSignal(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}
}

// WaitError waits for either an error on the error channel or the done channel to close.
// Returns an error if one is received on the error channel, otherwise it returns nil.
//
// This handles a race condition where the done channel could have been closed as a result of an
// irrecoverable error being thrown, so that when the scheduler yields control back to this
// goroutine, both channels are available to read from.
func WaitError(errChan <-chan error, done <-chan struct{}) error {
	select {
	case err := <-errChan:
		return err
	case <-done:
		select {
		case err := <-errChan:
			return err
		default:
		}
		return nil
	}
}
