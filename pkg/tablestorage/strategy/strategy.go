// Package strategy provides the storage selection strategies and a factory
// building one from configuration.
package strategy

import (
	"fmt"

	"github.com/tendant/table-storage/pkg/tablestorage"
)

// Type represents the kind of selection strategy
type Type string

const (
	// Every table goes to the registry default
	TypeDefault Type = "default"

	// Ordered namespace/table glob rules with optional fallback
	TypeNamespace Type = "namespace"

	// Tables spread across a list of backends by hash
	TypeHash Type = "hash"
)

// Config holds configuration for strategy creation
type Config struct {
	Type         Type
	Rules        []Rule                     // For namespace strategy
	FallbackType tablestorage.StorageType   // For namespace strategy
	HashTypes    []tablestorage.StorageType // For hash strategy
}

// New creates a strategy based on the configuration. An empty type selects
// the default strategy.
func New(config Config, registry *tablestorage.Registry) (tablestorage.Strategy, error) {
	if registry == nil {
		return nil, errNilRegistry()
	}

	switch config.Type {
	case "", TypeDefault:
		s, err := NewDefault(registry)
		if err != nil {
			return nil, err
		}
		return s, nil

	case TypeNamespace:
		s, err := NewNamespaceRules(registry, config.Rules, config.FallbackType)
		if err != nil {
			return nil, err
		}
		return s, nil

	case TypeHash:
		s, err := NewHashSpread(registry, config.HashTypes)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: unknown strategy type: %s", tablestorage.ErrInvalidStrategyConfig, config.Type)
	}
}

func errNilRegistry() error {
	return fmt.Errorf("%w: registry is required", tablestorage.ErrInvalidStrategyConfig)
}
