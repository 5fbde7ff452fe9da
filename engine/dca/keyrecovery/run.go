package keyrecovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/CrypToolProject/CrypTool-2-sub021/engine/common/fifoqueue"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/component"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/irrecoverable"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/util"
	"github.com/CrypToolProject/CrypTool-2-sub021/storage"
	"github.com/CrypToolProject/CrypTool-2-sub021/utils/rand"
)

// attackRun is the state of one attack between PreExecution and the end of its
// worker. The attack state is owned by the worker goroutine. Everything else is
// safe for concurrent use.
type attackRun struct {
	id        uuid.UUID
	config    Config
	log       zerolog.Logger
	metrics   module.DifferentialAttackMetrics
	outputs   module.AttackOutputs
	history   storage.AttackHistory
	strategy  module.KeyRecoveryStrategy
	state     *dca.AttackState
	progress  *progress
	startedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	cm     *component.ComponentManager

	// mu guards the worker start, the stop transition and the round cancellation.
	mu            sync.Mutex
	workerStarted bool
	cancelRound   context.CancelFunc

	stopped    *atomic.Bool
	haltStatus *atomic.String
	lastRound  *atomic.Bool

	// start is closed once the manual start gate is opened.
	start     chan struct{}
	startOnce sync.Once
	nextStep  module.Notifier

	configs    *fifoqueue.FifoQueue[*dca.RoundConfiguration]
	configured module.Notifier

	pairRequests *atomic.Int64
	roundKeys    []byte
	finishOnce   sync.Once
	finished     chan struct{}
}

var _ module.StrategyConsumer = (*attackRun)(nil)

// startWorker launches the worker once. It returns false if the run was stopped.
func (r *attackRun) startWorker() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped.Load() {
		return false
	}
	if r.workerStarted {
		return true
	}
	r.workerStarted = true

	signalerCtx, errChan := irrecoverable.WithSignaler(r.ctx)
	r.cm.Start(signalerCtx)
	go func() {
		err := util.WaitError(errChan, r.cm.Done())
		if err != nil {
			r.log.Error().Err(err).Msg("attack worker failed with an unexpected error")
		}
	}()
	return true
}

// stop cancels the run, opens every gate and waits for the worker to return.
func (r *attackRun) stop() {
	r.mu.Lock()
	r.stopped.Store(true)
	if r.cancelRound != nil {
		r.cancelRound()
	}
	r.cancel()
	started := r.workerStarted
	r.mu.Unlock()

	r.openStart()
	r.nextStep.Notify()
	r.configured.Notify()

	if started {
		<-r.cm.Done()
		return
	}
	r.finish(r.interruptedStatus())
}

// halt ends the run with the given status.
func (r *attackRun) halt(status dca.RunStatus) {
	r.haltStatus.CompareAndSwap("", string(status))
	r.stop()
}

func (r *attackRun) openStart() {
	r.startOnce.Do(func() {
		close(r.start)
	})
}

// interruptedStatus is the status of a run whose worker was unblocked by a stop.
func (r *attackRun) interruptedStatus() dca.RunStatus {
	if status := r.haltStatus.Load(); status != "" {
		return dca.RunStatus(status)
	}
	return dca.RunStopped
}

// enqueue hands a parsed configuration to the worker.
func (r *attackRun) enqueue(cfg *dca.RoundConfiguration) {
	r.configs.Push(cfg)
	r.configured.Notify()
}

// roundContext derives the cancellable context of one strategy call. The cancel
// function is published so that stop can interrupt the call.
func (r *attackRun) roundContext(parent context.Context) (context.Context, context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, cancel := context.WithCancel(parent)
	r.cancelRound = cancel
	return ctx, func() {
		r.mu.Lock()
		r.cancelRound = nil
		r.mu.Unlock()
		cancel()
	}
}

// work is the worker routine running the whole attack.
func (r *attackRun) work(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	ready()
	defer func() {
		if p := recover(); p != nil {
			r.finish(dca.RunFailed)
			irrecoverable.Throw(ctx, irrecoverable.NewExceptionf("attack worker panicked: %v", p))
		}
	}()

	status := r.attack(ctx)
	r.finish(status)
}

func (r *attackRun) attack(ctx context.Context) dca.RunStatus {
	err := r.awaitStart(ctx)
	if err != nil {
		return r.interruptedStatus()
	}

	for {
		round, pending := r.state.NextRound()
		if !pending {
			break
		}
		cfg, err := r.awaitConfiguration(ctx)
		if err != nil {
			return r.interruptedStatus()
		}
		status, ok := r.recoverRound(ctx, round, cfg)
		if !ok {
			return status
		}
	}

	r.lastRound.Store(true)
	err = r.awaitStep(ctx)
	if err != nil {
		return r.interruptedStatus()
	}
	return r.attackLastRound(ctx)
}

// awaitStart blocks on the manual start gate.
func (r *attackRun) awaitStart(ctx context.Context) error {
	if r.config.AutomaticMode {
		return ctx.Err()
	}
	r.log.Info().Msg("waiting for start")
	return util.WaitSignal(ctx, r.start)
}

// awaitStep blocks until the next step is released. In automatic mode every step
// is released right away.
func (r *attackRun) awaitStep(ctx context.Context) error {
	if r.config.AutomaticMode {
		return ctx.Err()
	}
	return util.WaitSignal(ctx, r.nextStep.Channel())
}

// awaitConfiguration releases the next step and takes the oldest configuration
// handed over by Execute, waiting for one if none is queued.
func (r *attackRun) awaitConfiguration(ctx context.Context) (*dca.RoundConfiguration, error) {
	err := r.awaitStep(ctx)
	if err != nil {
		return nil, err
	}
	for {
		if cfg, ok := r.configs.Pop(); ok {
			return cfg, ctx.Err()
		}
		err := util.WaitSignal(ctx, r.configured.Channel())
		if err != nil {
			return nil, err
		}
	}
}

// recoverRound runs the search for one configuration of the given subkey and merges
// the result. It returns false with the terminal status if the run cannot go on.
func (r *attackRun) recoverRound(ctx context.Context, round int, cfg *dca.RoundConfiguration) (dca.RunStatus, bool) {
	log := r.log.With().Int("round", round).Logger()
	if cfg.Round != round {
		log.Error().
			Int("configured_round", cfg.Round).
			Msg("round configuration does not target the subkey under attack")
		return dca.RunFailed, false
	}

	r.outputs.OnFinished(false)
	r.progress.reset()
	log.Info().
		Int("active_sboxes", cfg.ActiveCount()).
		Int("pairs", len(cfg.UnfilteredPairs)).
		Msg("recovering key information")

	roundCtx, cancel := r.roundContext(ctx)
	defer cancel()

	started := time.Now()
	result, err := r.strategy.RecoverKeyInformation(roundCtx, r.state.Snapshot(), cfg)
	if r.stopped.Load() || errors.Is(err, context.Canceled) {
		return r.interruptedStatus(), false
	}
	if err != nil {
		log.Error().Err(err).Msg("round search failed")
		return dca.RunFailed, false
	}
	if result == nil {
		log.Warn().Msg("no result: no key candidate survived the round search")
		return dca.RunNoResult, false
	}

	complete, err := r.state.Merge(cfg, result)
	if err != nil {
		log.Error().Err(irrecoverable.NewExceptionf("could not merge round result: %w", err)).Msg("round merge failed")
		return dca.RunFailed, false
	}
	r.metrics.RoundCompleted(r.config.Algorithm.String(), round, time.Since(started))
	r.storeRound(cfg, result)

	r.outputs.OnRoundResult(cfg, result)
	r.progress.complete()
	r.outputs.OnFinished(true)

	log.Info().
		Str("correction", fmt.Sprintf("%04x", result.PossibleKey)).
		Str("subkey", fmt.Sprintf("%04x", r.state.Subkey(round))).
		Bool("recovered", complete).
		Float64("probability", result.Probability).
		Msg("merged round result")
	return "", true
}

func (r *attackRun) attackLastRound(ctx context.Context) dca.RunStatus {
	r.outputs.OnFinished(false)
	r.progress.reset()
	r.log.Info().Msg("attacking the last round")

	roundCtx, cancel := r.roundContext(ctx)
	defer cancel()

	result, err := r.strategy.AttackFirstRound(roundCtx, r.state.Snapshot())
	if r.stopped.Load() || errors.Is(err, context.Canceled) {
		return r.interruptedStatus()
	}
	if err != nil {
		r.log.Error().Err(err).Msg("last-round attack failed")
		return dca.RunFailed
	}
	if result == nil {
		r.log.Warn().Msg("no result: no key is consistent with the last-round pairs")
		return dca.RunNoResult
	}

	r.state.ApplyLastRound(result)
	r.roundKeys = r.state.RoundKeys()
	r.outputs.OnRoundKeys(r.roundKeys)
	r.progress.complete()
	r.outputs.OnFinished(true)

	r.log.Info().
		Str("round_keys", fmt.Sprintf("%x", r.roundKeys)).
		Int64("pair_requests", r.pairRequests.Load()).
		Msg("recovered all subkeys")
	return dca.RunSucceeded
}

func (r *attackRun) storeRound(cfg *dca.RoundConfiguration, result *dca.RoundResult) {
	if r.history == nil {
		return
	}
	err := r.history.StoreRound(r.id, dca.NewRoundRecord(cfg, result))
	if err != nil {
		r.log.Warn().Err(err).Int("round", cfg.Round).Msg("could not store round in history")
	}
}

// finish reports the outcome of the run exactly once.
func (r *attackRun) finish(status dca.RunStatus) {
	r.finishOnce.Do(func() {
		duration := time.Since(r.startedAt)
		r.metrics.AttackFinished(r.config.Algorithm.String(), string(status), duration)
		if r.history != nil {
			err := r.history.Finish(r.id, status, r.roundKeys, int(r.pairRequests.Load()), time.Now().UTC())
			if err != nil {
				r.log.Warn().Err(err).Msg("could not store outcome in history")
			}
		}
		r.log.Info().
			Str("status", string(status)).
			Dur("duration", duration).
			Msg("attack run finished")
		close(r.finished)
	})
}

// OnPairRequested asks the pair source for exactly one new pair.
func (r *attackRun) OnPairRequested() {
	count := r.pairRequests.Inc()
	difference, err := rand.Uint16n(0xFFFF)
	if err != nil {
		r.log.Error().Err(err).Msg("could not draw message difference")
		return
	}
	r.log.Debug().
		Int64("request", count).
		Uint16("difference", difference).
		Msg("requesting pair")
	r.outputs.OnMessageDifference(difference)
	r.outputs.OnNeededMessageCount(1)
}

func (r *attackRun) OnRoundProgress(p dca.RoundProgress) {
	if r.config.UIUpdateWhileExecution {
		r.outputs.OnRoundProgress(p)
	}
}

func (r *attackRun) OnLastRoundProgress(p dca.LastRoundProgress) {
	if r.config.UIUpdateWhileExecution {
		r.outputs.OnLastRoundProgress(p)
	}
}

func (r *attackRun) OnProgressIncrement(delta float64) {
	r.progress.add(delta)
}
