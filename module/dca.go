package module

import (
	"context"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

// KeyRecoveryStrategy implements the differential key search for one cipher.
// Strategies never mutate the attack state. They receive a copy of the recovered
// subkeys and return results that the orchestrator merges.
type KeyRecoveryStrategy interface {
	// RecoverKeyInformation runs the statistical distinguisher for one round and returns
	// the subkey correction for the active S-boxes of config. It returns (nil, nil) when
	// no candidate produced a single hit.
	// Expected errors during normal operations:
	//   - context.Canceled if ctx was cancelled during the search
	RecoverKeyInformation(ctx context.Context, subkeys dca.Subkeys, config *dca.RoundConfiguration) (*dca.RoundResult, error)

	// AttackFirstRound recovers the two outermost subkeys. Pairs are requested one at a
	// time through StrategyConsumer.OnPairRequested and delivered through AddNewPairs.
	// It returns (nil, nil) if no key is consistent with the observed pairs.
	// Expected errors during normal operations:
	//   - context.Canceled if ctx was cancelled while searching or waiting for a pair
	AttackFirstRound(ctx context.Context, subkeys dca.Subkeys) (*dca.LastRoundResult, error)

	// AddNewPairs hands a freshly generated plaintext pair and its ciphertexts to a
	// running last-round attack. It never blocks.
	AddNewPairs(plaintext dca.Pair, ciphertext dca.Pair)
}

// StrategyConsumer receives the notifications raised by a KeyRecoveryStrategy.
// Implementations must be non-blocking and concurrency safe, since round searches
// report from several goroutines.
type StrategyConsumer interface {
	// OnPairRequested is raised once for every pair the last-round attack needs.
	OnPairRequested()

	// OnRoundProgress carries a detailed snapshot of a round search.
	OnRoundProgress(dca.RoundProgress)

	// OnLastRoundProgress carries a detailed snapshot of the last-round attack.
	OnLastRoundProgress(dca.LastRoundProgress)

	// OnProgressIncrement adds delta to the progress of the current step.
	OnProgressIncrement(delta float64)
}

// AttackOutputs is the sink for everything the orchestrator publishes: the workflow
// outputs (round keys, pair requests, finished flag) and the presentation events.
// Implementations must be non-blocking.
type AttackOutputs interface {
	OnRoundKeys(keys []byte)
	OnNeededMessageCount(count int)
	OnMessageDifference(difference uint16)
	OnFinished(finished bool)
	OnProgress(value float64)
	OnRoundResult(config *dca.RoundConfiguration, result *dca.RoundResult)
	OnRoundProgress(dca.RoundProgress)
	OnLastRoundProgress(dca.LastRoundProgress)
}
