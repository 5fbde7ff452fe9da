// Package strategy implements the differential key search for the toy ciphers.
package strategy

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/pairs"
)

var (
	// ErrUnsupportedAlgorithm is returned by New for algorithms without a strategy.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrInvalidRound is returned for configurations that target a subkey the strategy does not search.
	ErrInvalidRound = errors.New("invalid round")
	// ErrMissingSubkey is returned when a search needs a subkey that is not recovered yet.
	ErrMissingSubkey = errors.New("subkey not recovered")
	// ErrInvalidPairs is returned when the pair lists of a configuration do not match.
	ErrInvalidPairs = errors.New("invalid pair lists")
	// ErrWorkerPanic is returned when a search worker panicked.
	ErrWorkerPanic = errors.New("search worker panicked")
)

// detailedEventInterval limits detailed progress events to 10 per second.
const detailedEventInterval = 100 * time.Millisecond

// Config holds the tuning options of a strategy.
type Config struct {
	// ThreadCount bounds the parallelism of the candidate search. It is clamped to
	// [1, runtime.NumCPU()].
	ThreadCount int
	// DetailedEvents enables detailed progress events for the presentation.
	DetailedEvents bool
}

// New returns the key recovery strategy of the given algorithm.
func New(
	log zerolog.Logger,
	algorithm dca.Algorithm,
	consumer module.StrategyConsumer,
	metrics module.DifferentialAttackMetrics,
	config Config,
) (module.KeyRecoveryStrategy, error) {
	b := &base{
		log:       log.With().Str("component", "dca_strategy").Str("algorithm", algorithm.String()).Logger(),
		algorithm: algorithm,
		rounds:    algorithm.Rounds(),
		consumer:  consumer,
		metrics:   metrics,
		threads:   clampThreads(config.ThreadCount),
		detailed:  config.DetailedEvents,
		limiter:   rate.NewLimiter(rate.Every(detailedEventInterval), 1),
		buffer:    pairs.NewBuffer(),
	}

	switch algorithm {
	case dca.Cipher1:
		return &Cipher1KeyRecovery{base: b}, nil
	case dca.Cipher2, dca.Cipher3:
		return &SPNKeyRecovery{base: b}, nil
	default:
		return nil, fmt.Errorf("no strategy for %v: %w", algorithm, ErrUnsupportedAlgorithm)
	}
}

func clampThreads(n int) int {
	if max := runtime.NumCPU(); n > max {
		n = max
	}
	if n < 1 {
		n = 1
	}
	return n
}

// base holds what all strategies share: the reporting channels and the pair buffer
// of the last-round attack.
type base struct {
	log       zerolog.Logger
	algorithm dca.Algorithm
	rounds    int
	consumer  module.StrategyConsumer
	metrics   module.DifferentialAttackMetrics
	threads   int
	detailed  bool
	limiter   *rate.Limiter
	buffer    *pairs.Buffer
}

// AddNewPairs hands a requested pair to a running last-round attack.
func (b *base) AddNewPairs(plaintext dca.Pair, ciphertext dca.Pair) {
	b.buffer.Add(pairs.Message{Plaintext: plaintext, Ciphertext: ciphertext})
}

func (b *base) requestPair() {
	b.metrics.PairRequested(b.algorithm.String())
	b.consumer.OnPairRequested()
}

// allowDetailed reports whether a detailed progress event may be emitted now.
func (b *base) allowDetailed() bool {
	return b.detailed && b.limiter.Allow()
}

// recoverChunk turns a panic of a search worker into an error. It must be deferred
// directly by the worker function.
func recoverChunk(err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("%w: %v", ErrWorkerPanic, p)
	}
}
