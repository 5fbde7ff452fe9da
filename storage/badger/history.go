package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/storage"
	"github.com/CrypToolProject/CrypTool-2-sub021/storage/badger/operation"
)

const (
	conflictRetryBase     = 5 * time.Millisecond
	conflictRetryMax      = 200 * time.Millisecond
	conflictRetryAttempts = 10
)

// History implements storage.AttackHistory on top of badger.
type History struct {
	db *badger.DB
}

var _ storage.AttackHistory = (*History)(nil)

func NewHistory(db *badger.DB) *History {
	return &History{db: db}
}

// update runs op in a read-write transaction and retries it with a capped
// exponential backoff while badger reports transaction conflicts.
func (h *History) update(op func(*badger.Txn) error) error {
	backoff, err := retry.NewExponential(conflictRetryBase)
	if err != nil {
		return fmt.Errorf("could not create retry backoff: %w", err)
	}
	backoff = retry.WithCappedDuration(conflictRetryMax, backoff)
	backoff = retry.WithMaxRetries(conflictRetryAttempts, backoff)

	return retry.Do(context.Background(), backoff, func(context.Context) error {
		err := h.db.Update(op)
		if errors.Is(err, badger.ErrConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (h *History) StoreRun(run *dca.AttackRun) error {
	err := h.update(func(tx *badger.Txn) error {
		err := operation.InsertAttackRun(run)(tx)
		if err != nil {
			return fmt.Errorf("could not insert attack run: %w", err)
		}
		err = operation.IndexRunStart(uint64(run.StartedAt.UnixNano()), run.ID)(tx)
		if err != nil {
			return fmt.Errorf("could not index attack run: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not store run %v: %w", run.ID, err)
	}
	return nil
}

func (h *History) StoreRound(runID uuid.UUID, record *dca.RoundRecord) error {
	err := h.update(func(tx *badger.Txn) error {
		var runExists bool
		err := operation.AttackRunExists(runID, &runExists)(tx)
		if err != nil {
			return err
		}
		if !runExists {
			return storage.ErrNotFound
		}

		var count uint32
		err = operation.CountRoundRecords(runID, &count)(tx)
		if err != nil {
			return fmt.Errorf("could not count rounds: %w", err)
		}
		return operation.InsertRoundRecord(runID, count, record)(tx)
	})
	if err != nil {
		return fmt.Errorf("could not store round %d of run %v: %w", record.Round, runID, err)
	}
	return nil
}

func (h *History) Finish(runID uuid.UUID, status dca.RunStatus, roundKeys []byte, pairRequests int, finishedAt time.Time) error {
	err := h.update(func(tx *badger.Txn) error {
		var run dca.AttackRun
		err := operation.RetrieveAttackRun(runID, &run)(tx)
		if err != nil {
			return err
		}
		run.Status = status
		run.RoundKeys = roundKeys
		run.PairRequests = pairRequests
		run.FinishedAt = finishedAt
		return operation.UpdateAttackRun(&run)(tx)
	})
	if err != nil {
		return fmt.Errorf("could not finish run %v: %w", runID, err)
	}
	return nil
}

func (h *History) ByID(runID uuid.UUID) (*dca.AttackRun, error) {
	var run dca.AttackRun
	err := h.db.View(operation.RetrieveAttackRun(runID, &run))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve run %v: %w", runID, err)
	}
	return &run, nil
}

func (h *History) Rounds(runID uuid.UUID) ([]*dca.RoundRecord, error) {
	records := make([]*dca.RoundRecord, 0)
	err := h.db.View(operation.LookupRoundRecords(runID, &records))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve rounds of run %v: %w", runID, err)
	}
	return records, nil
}

func (h *History) Runs() ([]*dca.AttackRun, error) {
	var runs []*dca.AttackRun
	err := h.db.View(func(tx *badger.Txn) error {
		var runIDs []uuid.UUID
		err := operation.LookupRunsByStart(&runIDs)(tx)
		if err != nil {
			return fmt.Errorf("could not look up runs: %w", err)
		}
		for _, runID := range runIDs {
			var run dca.AttackRun
			err = operation.RetrieveAttackRun(runID, &run)(tx)
			if err != nil {
				return fmt.Errorf("could not retrieve run %v: %w", runID, err)
			}
			runs = append(runs, &run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}
