package keyrecovery_test

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CrypToolProject/CrypTool-2-sub021/engine/dca/keyrecovery"
	"github.com/CrypToolProject/CrypTool-2-sub021/engine/dca/strategy"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/metrics"
	mockmodule "github.com/CrypToolProject/CrypTool-2-sub021/module/mock"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/pairs"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/roundconfig"
	"github.com/CrypToolProject/CrypTool-2-sub021/storage"
	bstorage "github.com/CrypToolProject/CrypTool-2-sub021/storage/badger"
	"github.com/CrypToolProject/CrypTool-2-sub021/utils/unittest"
)

const warnLevel = `"level":"warn"`

// mockFactory returns a strategy factory handing out strat.
func mockFactory(strat module.KeyRecoveryStrategy) keyrecovery.StrategyFactory {
	return func(zerolog.Logger, dca.Algorithm, module.StrategyConsumer, module.DifferentialAttackMetrics, strategy.Config) (module.KeyRecoveryStrategy, error) {
		return strat, nil
	}
}

func newTestOrchestrator(logs *syncBuffer, history storage.AttackHistory, opts ...keyrecovery.OrchestratorOption) *keyrecovery.Orchestrator {
	return keyrecovery.NewOrchestrator(
		unittest.LoggerWithWriter(logs),
		metrics.NewNoopCollector(),
		newRecordingOutputs(),
		history,
		roundconfig.NewParser(),
		opts...,
	)
}

func automatic(algorithm dca.Algorithm) keyrecovery.Config {
	return keyrecovery.Config{Algorithm: algorithm, ThreadCount: 2, AutomaticMode: true}
}

// feedRound executes one configuration of round with the given pairs.
func feedRound(t *testing.T, o *keyrecovery.Orchestrator, algorithm dca.Algorithm, round int, active [dca.SBoxCount]bool, pt, ct []dca.Pair) {
	cfg := unittest.RoundConfigurationFixture(unittest.WithRound(round), unittest.WithActiveSBoxes(active))
	description, err := roundconfig.Marshal(cfg, algorithm)
	require.NoError(t, err)

	o.SetDifferential(description)
	o.SetPlaintextPairs(pairs.Encode(pt))
	o.SetCiphertextPairs(pairs.Encode(ct))
	o.Execute()
}

// constantPairs returns n pairs without difference.
func constantPairs(n int) []dca.Pair {
	list := make([]dca.Pair, n)
	for i := range list {
		v := unittest.Uint16Fixture()
		list[i] = dca.Pair{Left: v, Right: v}
	}
	return list
}

// TestLastRoundWithoutSurvivorWarnsOnce runs the Cipher1 strategy on a pair whose
// plaintexts are equal and whose ciphertexts differ. No k1 can explain it, and the
// whole run must produce exactly one warning.
func TestLastRoundWithoutSurvivorWarnsOnce(t *testing.T) {
	logs := &syncBuffer{}
	o := newTestOrchestrator(logs, nil)
	require.NoError(t, o.PreExecution(automatic(dca.Cipher1)))
	defer o.PostExecution()

	o.SetPlaintextPairs(pairs.Encode([]dca.Pair{{Left: 0x1234, Right: 0x1234}}))
	o.SetCiphertextPairs(pairs.Encode([]dca.Pair{{Left: 0x0f0f, Right: 0xf0f0}}))
	o.Execute()

	unittest.RequireCloseBefore(t, o.Done(), waitTimeout, "attack did not finish")
	output := logs.String()
	assert.Equal(t, 1, strings.Count(output, warnLevel), output)
	assert.Contains(t, output, "no last-round key is consistent with the pairs")
}

// TestRoundWithoutHitWarnsOnce runs the Cipher2 strategy on a round whose pairs
// carry no difference. No candidate scores a hit, and the whole run must produce
// exactly one warning.
func TestRoundWithoutHitWarnsOnce(t *testing.T) {
	logs := &syncBuffer{}
	o := newTestOrchestrator(logs, nil)
	require.NoError(t, o.PreExecution(automatic(dca.Cipher2)))
	defer o.PostExecution()

	feedRound(t, o, dca.Cipher2, 3, lowHalf, constantPairs(8), constantPairs(8))

	unittest.RequireCloseBefore(t, o.Done(), waitTimeout, "attack did not finish")
	output := logs.String()
	assert.Equal(t, 1, strings.Count(output, warnLevel), output)
	assert.Contains(t, output, "no key candidate matched a single pair")
}

// TestRoundNilResultWarnsOnce checks the orchestrator side of a round search
// without result.
func TestRoundNilResultWarnsOnce(t *testing.T) {
	logs := &syncBuffer{}
	strat := mockmodule.NewKeyRecoveryStrategy(t)
	strat.On("RecoverKeyInformation", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		history := bstorage.NewHistory(db)
		o := newTestOrchestrator(logs, history, keyrecovery.WithStrategyFactory(mockFactory(strat)))
		require.NoError(t, o.PreExecution(automatic(dca.Cipher2)))
		defer o.PostExecution()
		runID, ok := o.RunID()
		require.True(t, ok)

		feedRound(t, o, dca.Cipher2, 3, lowHalf, unittest.PairListFixture(4), unittest.PairListFixture(4))

		unittest.RequireCloseBefore(t, o.Done(), waitTimeout, "attack did not finish")
		assert.Equal(t, 1, strings.Count(logs.String(), warnLevel))

		run, err := history.ByID(runID)
		require.NoError(t, err)
		assert.Equal(t, dca.RunNoResult, run.Status)
		assert.Empty(t, run.RoundKeys)
	})
}

// TestHistoryRecordsSucceededRun drives a full Cipher2 attack and checks the
// stored run and rounds.
func TestHistoryRecordsSucceededRun(t *testing.T) {
	logs := &syncBuffer{}
	strat := mockmodule.NewKeyRecoveryStrategy(t)
	strat.
		On("RecoverKeyInformation", mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, _ dca.Subkeys, cfg *dca.RoundConfiguration) (*dca.RoundResult, error) {
			return &dca.RoundResult{Round: cfg.Round, PossibleKey: correction(cfg), Probability: 1}, nil
		})
	strat.
		On("AttackFirstRound", mock.Anything, mock.Anything).
		Return(&dca.LastRoundResult{SubKey0: 0x1111, SubKey1: 0x2222}, nil).
		Once()

	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		history := bstorage.NewHistory(db)
		o := newTestOrchestrator(logs, history, keyrecovery.WithStrategyFactory(mockFactory(strat)))
		require.NoError(t, o.PreExecution(automatic(dca.Cipher2)))
		defer o.PostExecution()
		runID, ok := o.RunID()
		require.True(t, ok)

		for _, step := range []struct {
			round  int
			active [dca.SBoxCount]bool
		}{{3, lowHalf}, {3, highHalf}, {2, lowHalf}, {2, highHalf}} {
			feedRound(t, o, dca.Cipher2, step.round, step.active, unittest.PairListFixture(4), unittest.PairListFixture(4))
		}
		unittest.RequireCloseBefore(t, o.Done(), waitTimeout, "attack did not finish")

		run, err := history.ByID(runID)
		require.NoError(t, err)
		assert.Equal(t, dca.RunSucceeded, run.Status)
		assert.Equal(t, dca.Cipher2, run.Algorithm)
		assert.Equal(t, dca.EncodeRoundKeys([]uint16{0x1111, 0x2222, 0xabcd, 0x1234}), run.RoundKeys)
		assert.False(t, run.FinishedAt.IsZero())

		rounds, err := history.Rounds(runID)
		require.NoError(t, err)
		require.Len(t, rounds, 4)
		assert.Equal(t, []int{3, 3, 2, 2}, []int{rounds[0].Round, rounds[1].Round, rounds[2].Round, rounds[3].Round})
		assert.Equal(t, lowHalf, rounds[0].ActiveSBoxes)
		assert.Equal(t, highHalf, rounds[3].ActiveSBoxes)
	})
}

// TestSearchErrorFailsRun checks that a failing strategy ends the run as failed.
func TestSearchErrorFailsRun(t *testing.T) {
	logs := &syncBuffer{}
	strat := mockmodule.NewKeyRecoveryStrategy(t)
	strat.
		On("RecoverKeyInformation", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("candidate table exhausted")).
		Once()

	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		history := bstorage.NewHistory(db)
		o := newTestOrchestrator(logs, history, keyrecovery.WithStrategyFactory(mockFactory(strat)))
		require.NoError(t, o.PreExecution(automatic(dca.Cipher2)))
		defer o.PostExecution()
		runID, ok := o.RunID()
		require.True(t, ok)

		feedRound(t, o, dca.Cipher2, 3, lowHalf, unittest.PairListFixture(4), unittest.PairListFixture(4))
		unittest.RequireCloseBefore(t, o.Done(), waitTimeout, "attack did not finish")

		assert.Contains(t, logs.String(), "round search failed")
		assert.Contains(t, logs.String(), "candidate table exhausted")
		run, err := history.ByID(runID)
		require.NoError(t, err)
		assert.Equal(t, dca.RunFailed, run.Status)
	})
}

// TestWorkerPanicFailsRun checks that a panicking strategy fails the run, closes
// Done and is reported instead of crashing the host.
func TestWorkerPanicFailsRun(t *testing.T) {
	logs := &syncBuffer{}
	strat := mockmodule.NewKeyRecoveryStrategy(t)
	strat.
		On("RecoverKeyInformation", mock.Anything, mock.Anything, mock.Anything).
		Return(func(context.Context, dca.Subkeys, *dca.RoundConfiguration) (*dca.RoundResult, error) {
			panic("corrupted counter table")
		}).
		Once()

	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		history := bstorage.NewHistory(db)
		o := newTestOrchestrator(logs, history, keyrecovery.WithStrategyFactory(mockFactory(strat)))
		require.NoError(t, o.PreExecution(automatic(dca.Cipher2)))
		runID, ok := o.RunID()
		require.True(t, ok)

		feedRound(t, o, dca.Cipher2, 3, lowHalf, unittest.PairListFixture(4), unittest.PairListFixture(4))
		unittest.RequireCloseBefore(t, o.Done(), waitTimeout, "attack did not finish")

		require.Eventually(t, func() bool {
			return strings.Contains(logs.String(), "attack worker failed with an unexpected error")
		}, waitTimeout, 10*time.Millisecond)
		assert.Contains(t, logs.String(), "corrupted counter table")

		run, err := history.ByID(runID)
		require.NoError(t, err)
		assert.Equal(t, dca.RunFailed, run.Status)

		unittest.RequireReturnsBefore(t, o.PostExecution, waitTimeout, "post execution blocked after a panic")
	})
}

// TestLogFieldsAreUnique checks that no log line of a real run repeats a field.
func TestLogFieldsAreUnique(t *testing.T) {
	logs := &syncBuffer{}
	o := newTestOrchestrator(logs, nil)
	require.NoError(t, o.PreExecution(automatic(dca.Cipher2)))
	defer o.PostExecution()

	feedRound(t, o, dca.Cipher2, 3, lowHalf, constantPairs(4), constantPairs(4))
	unittest.RequireCloseBefore(t, o.Done(), waitTimeout, "attack did not finish")

	strategyLines := 0
	scanner := bufio.NewScanner(strings.NewReader(logs.String()))
	for scanner.Scan() {
		line := scanner.Text()
		for _, field := range []string{`"component":`, `"algorithm":`, `"run_id":`} {
			assert.LessOrEqual(t, strings.Count(line, field), 1, "field %s repeated in %s", field, line)
		}
		if strings.Contains(line, `"component":"dca_strategy"`) {
			strategyLines++
			assert.Contains(t, line, `"run_id":`)
			assert.Contains(t, line, `"algorithm":"cipher2"`)
		}
	}
	require.NoError(t, scanner.Err())
	assert.Positive(t, strategyLines)
}
