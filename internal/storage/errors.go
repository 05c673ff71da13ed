package storage

import (
	"errors"
	"fmt"
)

// Sentinels returned by every backend, usually wrapped in a StorageError.
var (
	ErrNotFound     = errors.New("object not found")
	ErrKeyExists    = errors.New("object already exists")
	ErrInvalidKey   = errors.New("invalid storage key")
	ErrTooLarge     = errors.New("object too large")
	ErrAccessDenied = errors.New("access denied")
)

// StorageError records which call failed on which key.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func opError(op, key string, err error) error {
	return &StorageError{Op: op, Key: key, Err: err}
}

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsInvalidKey(err error) bool { return errors.Is(err, ErrInvalidKey) }
func IsTooLarge(err error) bool   { return errors.Is(err, ErrTooLarge) }
