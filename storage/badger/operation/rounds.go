package operation

import (
	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

// InsertRoundRecord stores the merged round with the given position within the run.
func InsertRoundRecord(runID uuid.UUID, index uint32, record *dca.RoundRecord) func(*badger.Txn) error {
	return insert(makePrefix(codeRoundRecord, runID, index), record)
}

// LookupRoundRecords collects the merged rounds of the run ordered by position.
func LookupRoundRecords(runID uuid.UUID, records *[]*dca.RoundRecord) func(*badger.Txn) error {
	return traverse(makePrefix(codeRoundRecord, runID), func() (createFunc, handleFunc) {
		record := &dca.RoundRecord{}
		create := func() interface{} {
			return record
		}
		handle := func() error {
			*records = append(*records, record)
			return nil
		}
		return create, handle
	})
}

// CountRoundRecords counts the merged rounds of the run.
func CountRoundRecords(runID uuid.UUID, count *uint32) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		prefix := makePrefix(codeRoundRecord, runID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := tx.NewIterator(opts)
		defer it.Close()

		*count = 0
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			*count++
		}
		return nil
	}
}
