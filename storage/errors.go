package storage

import (
	"errors"
)

var (
	// Note: there is another not found error: badger.ErrKeyNotFound. Modules in
	// storage/badger and storage/badger/operation translate it into storage.ErrNotFound.
	ErrNotFound = errors.New("key not found")

	ErrAlreadyExists = errors.New("key already exists")
)
