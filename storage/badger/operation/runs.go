package operation

import (
	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

func InsertAttackRun(run *dca.AttackRun) func(*badger.Txn) error {
	return insert(makePrefix(codeAttackRun, run.ID), run)
}

func UpdateAttackRun(run *dca.AttackRun) func(*badger.Txn) error {
	return update(makePrefix(codeAttackRun, run.ID), run)
}

func RetrieveAttackRun(runID uuid.UUID, run *dca.AttackRun) func(*badger.Txn) error {
	return retrieve(makePrefix(codeAttackRun, runID), run)
}

func AttackRunExists(runID uuid.UUID, runExists *bool) func(*badger.Txn) error {
	return exists(makePrefix(codeAttackRun, runID), runExists)
}

// IndexRunStart indexes the run by its start time so that runs can be listed in
// the order they were started.
func IndexRunStart(startedAt uint64, runID uuid.UUID) func(*badger.Txn) error {
	return insert(makePrefix(codeRunStart, startedAt, runID), runID)
}

// LookupRunsByStart collects the IDs of all runs ordered by start time.
func LookupRunsByStart(runIDs *[]uuid.UUID) func(*badger.Txn) error {
	return traverse(makePrefix(codeRunStart), func() (createFunc, handleFunc) {
		var runID uuid.UUID
		create := func() interface{} {
			return &runID
		}
		handle := func() error {
			*runIDs = append(*runIDs, runID)
			return nil
		}
		return create, handle
	})
}
