package tablestorage

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrInvalidRegistryConfig indicates the registry could not be built from
	// the supplied descriptors
	ErrInvalidRegistryConfig = errors.New("invalid storage registry configuration")

	// ErrUnknownBackendType indicates a backend type that is not registered
	ErrUnknownBackendType = errors.New("unknown storage backend type")

	// ErrNoMatchingBackend indicates a strategy found no rule for a table and
	// has no fallback
	ErrNoMatchingBackend = errors.New("no matching storage backend")

	// ErrInvalidStrategyConfig indicates a strategy could not be built from its
	// configuration
	ErrInvalidStrategyConfig = errors.New("invalid storage selection strategy configuration")
)

// RegistryError represents an error related to registry construction or lookup
type RegistryError struct {
	Type   StorageType
	Reason string
	Err    error
}

func (e *RegistryError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("%v: %s (type=%s)", e.Err, e.Reason, e.Type)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

// SelectionError represents a failed selection for a table
type SelectionError struct {
	Namespace string
	Table     string
	Strategy  string
	Err       error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("storage selection by %s failed for %s.%s: %v", e.Strategy, e.Namespace, e.Table, e.Err)
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}
