// Package keyrecovery drives a differential key-recovery attack: it feeds the
// round configurations and pairs of the host into the cipher strategy, merges the
// recovered subkey bits and publishes the round keys.
package keyrecovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/CrypToolProject/CrypTool-2-sub021/engine/common/fifoqueue"
	"github.com/CrypToolProject/CrypTool-2-sub021/engine/dca/strategy"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/component"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/pairs"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/roundconfig"
	"github.com/CrypToolProject/CrypTool-2-sub021/storage"
)

// StrategyFactory creates the key recovery strategy of a run. The logger carries
// the run id only; the strategy adds its own component and algorithm fields.
type StrategyFactory func(
	log zerolog.Logger,
	algorithm dca.Algorithm,
	consumer module.StrategyConsumer,
	metrics module.DifferentialAttackMetrics,
	config strategy.Config,
) (module.KeyRecoveryStrategy, error)

type OrchestratorOption func(*Orchestrator)

// WithStrategyFactory replaces the strategies of package strategy.
func WithStrategyFactory(factory StrategyFactory) OrchestratorOption {
	return func(o *Orchestrator) {
		o.newStrategy = factory
	}
}

// Orchestrator runs the attack state machine. The host drives it through the
// lifecycle methods PreExecution, Execute, Stop and PostExecution and the manual
// controls Start and NextStep. The attack itself runs on a worker goroutine, so
// none of these methods block on the search. Stop and PostExecution wait for the
// worker to return.
type Orchestrator struct {
	// baseLog is the host logger. Strategies derive their own component logger from it.
	baseLog     zerolog.Logger
	log         zerolog.Logger
	metrics     module.DifferentialAttackMetrics
	outputs     module.AttackOutputs
	history     storage.AttackHistory
	parser      roundconfig.Parser
	newStrategy StrategyFactory

	// mu guards the current run and the inputs.
	mu           sync.Mutex
	run          *attackRun
	differential string
	plaintexts   []byte
	ciphertexts  []byte
}

// NewOrchestrator creates an orchestrator. history may be nil, which disables the
// attack history.
func NewOrchestrator(
	log zerolog.Logger,
	metrics module.DifferentialAttackMetrics,
	outputs module.AttackOutputs,
	history storage.AttackHistory,
	parser roundconfig.Parser,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		baseLog:     log,
		log:         log.With().Str("component", "dca_orchestrator").Logger(),
		metrics:     metrics,
		outputs:     outputs,
		history:     history,
		parser:      parser,
		newStrategy: strategy.New,
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// PreExecution prepares a fresh run. A previous run is stopped first.
// Expected errors during normal operations:
//   - config validation errors
//   - strategy.ErrUnsupportedAlgorithm if the algorithm has no strategy
func (o *Orchestrator) PreExecution(config Config) error {
	err := config.Validate()
	if err != nil {
		return fmt.Errorf("invalid attack configuration: %w", err)
	}

	o.mu.Lock()
	previous := o.run
	o.run = nil
	o.plaintexts = nil
	o.ciphertexts = nil
	o.mu.Unlock()
	if previous != nil {
		previous.stop()
	}

	run, err := o.newRun(config)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.run = run
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) newRun(config Config) (*attackRun, error) {
	id := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	// an unbounded queue cannot fail option validation
	configs, _ := fifoqueue.NewFifoQueue[*dca.RoundConfiguration]()

	run := &attackRun{
		id:     id,
		config: config,
		log: o.log.With().
			Str("run_id", id.String()).
			Str("algorithm", config.Algorithm.String()).
			Logger(),
		metrics:      o.metrics,
		outputs:      o.outputs,
		history:      o.history,
		state:        dca.NewAttackState(config.Algorithm),
		progress:     newProgress(o.outputs),
		startedAt:    time.Now().UTC(),
		ctx:          ctx,
		cancel:       cancel,
		stopped:      atomic.NewBool(false),
		haltStatus:   atomic.NewString(""),
		lastRound:    atomic.NewBool(len(config.Algorithm.IntermediateRounds()) == 0),
		start:        make(chan struct{}),
		nextStep:     module.NewNotifier(),
		configs:      configs,
		configured:   module.NewNotifier(),
		pairRequests: atomic.NewInt64(0),
		finished:     make(chan struct{}),
	}

	strategyLog := o.baseLog.With().Str("run_id", id.String()).Logger()
	strat, err := o.newStrategy(strategyLog, config.Algorithm, run, o.metrics, strategy.Config{
		ThreadCount:    config.ThreadCount,
		DetailedEvents: config.UIUpdateWhileExecution,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not create key recovery strategy: %w", err)
	}
	run.strategy = strat
	run.cm = component.NewComponentManagerBuilder().
		AddWorker(run.work).
		Build()

	if o.history != nil {
		err = o.history.StoreRun(&dca.AttackRun{
			ID:        id,
			Algorithm: config.Algorithm,
			StartedAt: run.startedAt,
			Status:    dca.RunInProgress,
		})
		if err != nil {
			run.log.Warn().Err(err).Msg("could not store run in history")
		}
	}
	o.metrics.AttackStarted(config.Algorithm.String())
	run.log.Info().
		Bool("automatic", config.AutomaticMode).
		Int("threads", config.ThreadCount).
		Msg("prepared attack run")
	return run, nil
}

// SetDifferential sets the description of the round configuration. It is read
// again by every Execute.
func (o *Orchestrator) SetDifferential(description string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.differential = description
}

// SetPlaintextPairs supplies the next plaintext pair stream.
func (o *Orchestrator) SetPlaintextPairs(data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.plaintexts = data
}

// SetCiphertextPairs supplies the next ciphertext pair stream.
func (o *Orchestrator) SetCiphertextPairs(data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ciphertexts = data
}

// Execute consumes the pair streams supplied since the last call. It is a no-op
// until both streams are present. During the intermediate rounds the differential
// is parsed into the configuration of the next step. Once only the outermost
// subkeys are left, the first pair is handed to the running last-round attack.
func (o *Orchestrator) Execute() {
	o.mu.Lock()
	run := o.run
	description := o.differential
	plaintexts, ciphertexts := o.plaintexts, o.ciphertexts
	if run != nil && plaintexts != nil && ciphertexts != nil {
		o.plaintexts = nil
		o.ciphertexts = nil
	}
	o.mu.Unlock()

	if run == nil {
		o.log.Warn().Msg("execute called before pre-execution")
		return
	}
	if plaintexts == nil || ciphertexts == nil {
		run.log.Debug().
			Bool("plaintexts", plaintexts != nil).
			Bool("ciphertexts", ciphertexts != nil).
			Msg("waiting for both pair streams")
		return
	}
	select {
	case <-run.finished:
		run.log.Debug().Msg("attack run is over, ignoring input")
		return
	default:
	}

	pt, ct, err := pairs.DecodeStreams(plaintexts, ciphertexts)
	if err != nil {
		run.log.Error().Err(err).Msg("could not decode pair streams")
		return
	}
	if len(pt) == 0 {
		run.log.Error().Msg("pair streams are empty")
		return
	}

	if run.lastRound.Load() {
		run.strategy.AddNewPairs(pt[0], ct[0])
		run.startWorker()
		return
	}

	cfg, err := o.parser.Parse(description)
	if err != nil || cfg == nil {
		run.log.Error().Err(err).Msg("could not parse round configuration, halting attack")
		run.halt(dca.RunFailed)
		return
	}
	cfg.SetPairs(pt, ct)
	run.enqueue(cfg)
	run.startWorker()
}

// Start opens the manual start gate and releases the first step.
func (o *Orchestrator) Start() {
	run := o.currentRun()
	if run == nil {
		return
	}
	run.openStart()
	run.nextStep.Notify()
}

// NextStep releases the next step in manual mode.
func (o *Orchestrator) NextStep() {
	run := o.currentRun()
	if run == nil {
		return
	}
	run.nextStep.Notify()
}

// Stop interrupts the current run. It returns once the worker has returned.
func (o *Orchestrator) Stop() {
	run := o.currentRun()
	if run == nil {
		return
	}
	run.log.Info().Msg("stopping attack run")
	run.stop()
}

// PostExecution stops the current run and drops the inputs.
func (o *Orchestrator) PostExecution() {
	o.Stop()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.differential = ""
	o.plaintexts = nil
	o.ciphertexts = nil
}

// Done returns a channel that is closed once the current run has finished. Without
// a run the channel is closed.
func (o *Orchestrator) Done() <-chan struct{} {
	run := o.currentRun()
	if run == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return run.finished
}

// RunID returns the ID of the current run.
func (o *Orchestrator) RunID() (uuid.UUID, bool) {
	run := o.currentRun()
	if run == nil {
		return uuid.Nil, false
	}
	return run.id, true
}

// PairRequests returns the number of pairs the current run requested.
func (o *Orchestrator) PairRequests() int {
	run := o.currentRun()
	if run == nil {
		return 0
	}
	return int(run.pairRequests.Load())
}

func (o *Orchestrator) currentRun() *attackRun {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.run
}
