package operation

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/CrypToolProject/CrypTool-2-sub021/storage"
)

// insert will encode the given entity and insert the resulting binary data in
// the badger DB under the provided key. It will error if the key already exists.
// Expected errors during normal operations:
//   - storage.ErrAlreadyExists if the key already exists in the database.
func insert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		// check if the key already exists in the db
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not check key: %w", err)
		}

		val, err := encodeEntity(entity)
		if err != nil {
			return err
		}

		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not store data: %w", err)
		}
		return nil
	}
}

// update will encode the given entity and update the binary data under the
// given key in the badger DB.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the key does not already exist in the database.
func update(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not check key: %w", err)
		}

		val, err := encodeEntity(entity)
		if err != nil {
			return err
		}

		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not replace data: %w", err)
		}
		return nil
	}
}

// retrieve will retrieve the binary data under the given key from the badger DB
// and decode it into the given entity. The provided entity needs to be a
// pointer to an initialized entity of the correct type.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the key does not exist in the database
func retrieve(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not load data: %w", err)
		}

		err = item.Value(func(val []byte) error {
			return decodeValue(val, entity)
		})
		if err != nil {
			return fmt.Errorf("could not decode entity: %w", err)
		}
		return nil
	}
}

// exists checks whether the given key is present in the badger DB.
func exists(key []byte, keyExists *bool) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			*keyExists = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not check existence: %w", err)
		}
		*keyExists = true
		return nil
	}
}

// createFunc returns a pointer to an initialized entity that we can potentially
// decode the next value into during a badger DB iteration.
type createFunc func() interface{}

// handleFunc is a function that starts the processing of the current key-value
// pair during a badger iteration. It is called after the entity was decoded.
type handleFunc func() error

// iterationFunc is called for every step of an iteration and returns the
// functions to create the decode target and to process the decoded entity.
type iterationFunc func() (createFunc, handleFunc)

// traverse iterates over all keys sharing the given prefix in ascending order.
//
// On each iteration, it will call the iteration function to initialize
// functions specific to processing the given key-value pair.
func traverse(prefix []byte, iteration iterationFunc) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		if len(prefix) == 0 {
			return fmt.Errorf("prefix must not be empty")
		}

		opts := badger.DefaultIteratorOptions
		// NOTE: this is an optimization only, it does not enforce that all
		// results in the iteration have this prefix.
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			create, handle := iteration()

			err := item.Value(func(val []byte) error {
				entity := create()
				err := decodeValue(val, entity)
				if err != nil {
					return err
				}

				err = handle()
				if err != nil {
					return fmt.Errorf("could not handle entity: %w", err)
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("could not process value: %w", err)
			}
		}

		return nil
	}
}
