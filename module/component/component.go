package component

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/CrypToolProject/CrypTool-2-sub021/module"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/irrecoverable"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/util"
)

// Component represents a component which can be started and stopped, and exposes
// channels that close when startup and shutdown have completed.
type Component interface {
	module.Startable
	module.ReadyDoneAware
}

// ReadyFunc is called within a ComponentWorker function to indicate that the worker is ready.
type ReadyFunc func()

// ComponentWorker represents a worker routine of a component. Irrecoverable errors are
// thrown through ctx; shutdown is signalled by cancelling ctx.
type ComponentWorker func(ctx irrecoverable.SignalerContext, ready ReadyFunc)

// ComponentManagerBuilder provides a mechanism for building a ComponentManager.
type ComponentManagerBuilder interface {
	// AddWorker adds a worker routine for the ComponentManager
	AddWorker(ComponentWorker) ComponentManagerBuilder

	// Build builds and returns a new ComponentManager instance
	Build() *ComponentManager
}

type componentManagerBuilderImpl struct {
	workers []ComponentWorker
}

// NewComponentManagerBuilder returns a new ComponentManagerBuilder
func NewComponentManagerBuilder() ComponentManagerBuilder {
	return &componentManagerBuilderImpl{}
}

// AddWorker adds a ComponentWorker closure to the ComponentManagerBuilder.
// Not concurrency safe.
func (c *componentManagerBuilderImpl) AddWorker(worker ComponentWorker) ComponentManagerBuilder {
	c.workers = append(c.workers, worker)
	return c
}

// Build returns a new ComponentManager instance with the configured workers.
func (c *componentManagerBuilderImpl) Build() *ComponentManager {
	return &ComponentManager{
		started:        atomic.NewBool(false),
		ready:          make(chan struct{}),
		done:           make(chan struct{}),
		workersDone:    make(chan struct{}),
		shutdownSignal: make(chan struct{}),
		workers:        c.workers,
	}
}

var _ Component = (*ComponentManager)(nil)

// ComponentManager runs the worker routines of a component. Ready closes once every
// worker called its ReadyFunc and Done closes once every worker returned.
//
// A worker that throws takes all other workers down with it and the error is
// propagated to the parent context given to Start.
type ComponentManager struct {
	started        *atomic.Bool
	ready          chan struct{}
	done           chan struct{}
	workersDone    chan struct{}
	shutdownSignal chan struct{}

	workers []ComponentWorker
}

// Start launches all worker routines. It panics if called more than once.
func (c *ComponentManager) Start(parent irrecoverable.SignalerContext) {
	if !c.started.CompareAndSwap(false, true) {
		panic(module.ErrMultipleStartup)
	}

	ctx, cancel := context.WithCancel(parent)
	signalerCtx, errChan := irrecoverable.WithSignaler(ctx)

	go func() {
		<-ctx.Done()
		close(c.shutdownSignal)
	}()

	go func() {
		// errors thrown by workers reach the parent before done closes
		defer func() {
			<-c.workersDone
			close(c.done)
		}()

		if err := util.WaitError(errChan, c.workersDone); err != nil {
			cancel()
			parent.Throw(err)
		}
		cancel()
	}()

	var workersReady sync.WaitGroup
	var workersDone sync.WaitGroup
	workersReady.Add(len(c.workers))
	workersDone.Add(len(c.workers))

	for _, worker := range c.workers {
		worker := worker
		go func() {
			defer workersDone.Done()
			var readyOnce sync.Once
			worker(signalerCtx, func() {
				readyOnce.Do(workersReady.Done)
			})
		}()
	}

	go func() {
		workersReady.Wait()
		close(c.ready)
	}()
	go func() {
		workersDone.Wait()
		close(c.workersDone)
	}()
}

// Ready returns a channel which is closed once all the worker routines are ready.
// If a worker exits before it is ready, the channel never closes.
func (c *ComponentManager) Ready() <-chan struct{} {
	return c.ready
}

// Done returns a channel which is closed once all worker routines have returned.
func (c *ComponentManager) Done() <-chan struct{} {
	return c.done
}

// ShutdownSignal returns a channel that is closed when shutdown has commenced, either
// because the context given to Start was cancelled, a worker threw or all workers returned.
func (c *ComponentManager) ShutdownSignal() <-chan struct{} {
	return c.shutdownSignal
}
