// Package secretstore provides a small key/value capability for opaque secret
// payloads, plus a handful of backends for it.
//
// Backends have no knowledge of what they store. Every backend guarantees that a
// single Store, Retrieve or Remove call is atomic with respect to concurrent calls
// on the same key; nothing is promised across calls.
package secretstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorage matches every *StorageError via errors.Is.
var ErrStorage = errors.New("secret storage failure")

// Store is the three-operation capability consumed by the session layer.
type Store interface {
	// Store writes or overwrites the payload under key.
	Store(ctx context.Context, key string, value []byte) error

	// Retrieve returns the payload under key. ok is false when nothing is stored;
	// absence is not an error.
	Retrieve(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Remove deletes key. Removing a key that does not exist is not an error.
	Remove(ctx context.Context, key string) error
}

// Backend is a Store that holds resources (connections, clients) which must be released.
type Backend interface {
	Store
	Close() error
}

// StorageError reports a backend failure for one operation.
type StorageError struct {
	Op  string // "store", "retrieve" or "remove"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("secretstore %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

const (
	opStore    = "store"
	opRetrieve = "retrieve"
	opRemove   = "remove"
)

func storageErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Key: key, Err: err}
}
