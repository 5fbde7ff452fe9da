package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

// AttackHistory persists attack runs and the rounds merged during each run.
type AttackHistory interface {
	// StoreRun stores a new run.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if a run with the same ID was stored before
	StoreRun(run *dca.AttackRun) error

	// StoreRound appends a merged round to the run.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the run is unknown
	StoreRound(runID uuid.UUID, record *dca.RoundRecord) error

	// Finish records the outcome of the run.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the run is unknown
	Finish(runID uuid.UUID, status dca.RunStatus, roundKeys []byte, pairRequests int, finishedAt time.Time) error

	// ByID returns the run with the given ID.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the run is unknown
	ByID(runID uuid.UUID) (*dca.AttackRun, error)

	// Rounds returns the merged rounds of the run in merge order. Runs without
	// merged rounds yield an empty list.
	Rounds(runID uuid.UUID) ([]*dca.RoundRecord, error)

	// Runs returns all stored runs ordered by start time.
	Runs() ([]*dca.AttackRun, error)
}
