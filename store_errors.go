package formstate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue indicates SetValue received something that is neither a
	// Record nor an Editor.
	ErrInvalidValue = errors.New("formstate: value must be a record or an editor")
	// ErrEmptyKey indicates a write without a storage key.
	ErrEmptyKey = errors.New("formstate: key must not be empty")
	// ErrPrintOnSnapshot is raised when Print is requested from a snapshot that
	// was itself produced for printing.
	ErrPrintOnSnapshot = errors.New("formstate: print must not be called on a print snapshot")
)

// StoreError captures the failing operation and key alongside the cause.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key == "" {
		return fmt.Sprintf("formstate: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("formstate: %s key=%q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapStoreError(op, key string, err error) error {
	if err == nil {
		return nil
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		if storeErr.Op == "" {
			storeErr.Op = op
		}
		if storeErr.Key == "" {
			storeErr.Key = key
		}
		return storeErr
	}

	return &StoreError{Op: op, Key: key, Err: err}
}
