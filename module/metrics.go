package module

import (
	"time"
)

// DifferentialAttackMetrics collects statistics of key-recovery attacks.
type DifferentialAttackMetrics interface {
	// AttackStarted is called when a new run is prepared.
	AttackStarted(algorithm string)

	// RoundCompleted reports the duration of one merged round search.
	RoundCompleted(algorithm string, round int, duration time.Duration)

	// KeyCandidatesTested counts tested subkey candidates.
	KeyCandidatesTested(algorithm string, count int)

	// PairRequested counts pairs requested from the external pair source.
	PairRequested(algorithm string)

	// AttackFinished reports the terminal status and the duration of a run.
	AttackFinished(algorithm string, status string, duration time.Duration)
}
