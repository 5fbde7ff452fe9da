package dca

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the terminal state of a stored attack run.
type RunStatus string

const (
	RunInProgress RunStatus = "in_progress"
	RunSucceeded  RunStatus = "succeeded"
	RunNoResult   RunStatus = "no_result"
	RunFailed     RunStatus = "failed"
	RunStopped    RunStatus = "stopped"
)

// AttackRun is the persisted summary of one attack.
type AttackRun struct {
	ID         uuid.UUID
	Algorithm  Algorithm
	StartedAt  time.Time
	FinishedAt time.Time
	Status     RunStatus
	RoundKeys  []byte
	// PairRequests counts the pairs requested during the last-round attack.
	PairRequests int
}

// RoundRecord is the persisted form of one merged round.
type RoundRecord struct {
	Round               int
	ActiveSBoxes        [SBoxCount]bool
	ExpectedDifference  uint16
	PossibleKey         uint16
	Probability         float64
	ExpectedProbability float64
	UnfilteredPairs     int
	FilteredPairs       int
	DecryptionCounter   int
}

// NewRoundRecord condenses a merged configuration and its result.
func NewRoundRecord(config *RoundConfiguration, result *RoundResult) *RoundRecord {
	return &RoundRecord{
		Round:               config.Round,
		ActiveSBoxes:        config.ActiveSBoxes,
		ExpectedDifference:  config.ExpectedDifference,
		PossibleKey:         result.PossibleKey,
		Probability:         result.Probability,
		ExpectedProbability: result.ExpectedProbability,
		UnfilteredPairs:     len(config.UnfilteredPairs),
		FilteredPairs:       result.FilteredPairCount,
		DecryptionCounter:   result.DecryptionCounter,
	}
}
