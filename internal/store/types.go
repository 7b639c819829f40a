package store

import (
	"errors"
	"fmt"
)

// Driver names a Store backend.
type Driver string

const (
	DriverCSV      Driver = "csv"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ErrNotFound is returned by ResolveLogout when the register number has no
// open visit.
var ErrNotFound = errors.New("no active login")

// StorageError reports that the underlying storage could not be read or
// written. The action that hit it fails; nothing is retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
