package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/tendant/table-storage/pkg/tablestorage"
	"github.com/tendant/table-storage/pkg/tablestorage/strategy"
)

// Option applies configuration to a ClusterConfig instance.
type Option func(*ClusterConfig) error

// Load constructs a ClusterConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ClusterConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ClusterConfig {
	return ClusterConfig{
		Name: "local-cluster",
		Storages: StoragesConfig{
			DefaultType: string(tablestorage.StorageTypeLocal),
			Types: map[string]StorageTypeConfig{
				string(tablestorage.StorageTypeLocal): {
					RootPath: "/tmp/tables",
				},
			},
		},
		Selector: SelectorConfig{
			Name: string(strategy.TypeDefault),
		},
	}
}

// File is the on-disk layout; everything lives under the "cluster" key.
type File struct {
	Cluster ClusterConfig `yaml:"cluster"`
}

// ClusterConfig represents the storage-related part of the cluster configuration
type ClusterConfig struct {
	Name     string         `yaml:"name" env:"CLUSTER_NAME"`
	Storages StoragesConfig `yaml:"storages"`
	Selector SelectorConfig `yaml:"storage-selector"`
}

// StoragesConfig lists the configured backends keyed by type
type StoragesConfig struct {
	DefaultType string                       `yaml:"default-type" env:"CLUSTER_STORAGE_DEFAULT_TYPE"`
	Types       map[string]StorageTypeConfig `yaml:"types"`
}

// StorageTypeConfig represents configuration for a single storage backend
type StorageTypeConfig struct {
	RootPath   string            `yaml:"rootpath"`
	Endpoint   string            `yaml:"endpoint"`
	Parameters map[string]string `yaml:"parameters"`
}

// SelectorConfig selects and parameterizes the selection strategy
type SelectorConfig struct {
	Name         string       `yaml:"name" env:"CLUSTER_STORAGE_SELECTOR_NAME"`
	FallbackType string       `yaml:"fallback-type" env:"CLUSTER_STORAGE_SELECTOR_FALLBACK_TYPE"`
	Rules        []RuleConfig `yaml:"rules"`
	HashTypes    []string     `yaml:"hash-types" env:"CLUSTER_STORAGE_SELECTOR_HASH_TYPES" env-separator:","`
}

// RuleConfig is one namespace routing rule
type RuleConfig struct {
	Namespace string `yaml:"namespace"`
	Table     string `yaml:"table"`
	Type      string `yaml:"type"`
}

// Validate validates the cluster configuration
func (c *ClusterConfig) Validate() error {
	if len(c.Storages.Types) == 0 {
		return fmt.Errorf("%w: no storage types configured", tablestorage.ErrInvalidRegistryConfig)
	}

	if c.Storages.DefaultType == "" {
		return fmt.Errorf("%w: default-type is required", tablestorage.ErrInvalidRegistryConfig)
	}

	// Ensure default storage type exists in configured types
	if _, ok := c.Storages.Types[c.Storages.DefaultType]; !ok {
		return fmt.Errorf("%w: default storage type '%s' not found in configured types", tablestorage.ErrInvalidRegistryConfig, c.Storages.DefaultType)
	}

	switch strategy.Type(c.Selector.Name) {
	case "", strategy.TypeDefault:
	case strategy.TypeNamespace:
		for i, r := range c.Selector.Rules {
			if err := c.requireType(r.Type); err != nil {
				return fmt.Errorf("storage-selector rule %d: %w", i, err)
			}
		}
		if c.Selector.FallbackType != "" {
			if err := c.requireType(c.Selector.FallbackType); err != nil {
				return fmt.Errorf("storage-selector fallback-type: %w", err)
			}
		}
	case strategy.TypeHash:
		if len(c.Selector.HashTypes) == 0 {
			return fmt.Errorf("%w: hash-types is required for the hash selector", tablestorage.ErrInvalidStrategyConfig)
		}
		for _, t := range c.Selector.HashTypes {
			if err := c.requireType(t); err != nil {
				return fmt.Errorf("storage-selector hash-types: %w", err)
			}
		}
	default:
		return fmt.Errorf("%w: unknown storage-selector name '%s'", tablestorage.ErrInvalidStrategyConfig, c.Selector.Name)
	}

	return nil
}

func (c *ClusterConfig) requireType(t string) error {
	if t == "" {
		return errors.New("storage type cannot be empty")
	}
	if _, ok := c.Storages.Types[t]; !ok {
		return fmt.Errorf("%w: %s", tablestorage.ErrUnknownBackendType, t)
	}
	return nil
}

// Descriptors converts the configured types into descriptors, sorted by type.
// Parameters are flattened next to rootpath and endpoint.
func (c *ClusterConfig) Descriptors() []tablestorage.Descriptor {
	names := slices.Sorted(maps.Keys(c.Storages.Types))

	descriptors := make([]tablestorage.Descriptor, 0, len(names))
	for _, name := range names {
		t := c.Storages.Types[name]
		props := make(map[string]string, len(t.Parameters)+2)
		maps.Copy(props, t.Parameters)
		if t.RootPath != "" {
			props[tablestorage.PropertyRootPath] = t.RootPath
		}
		if t.Endpoint != "" {
			props[tablestorage.PropertyEndpoint] = t.Endpoint
		}
		descriptors = append(descriptors, tablestorage.NewDescriptor(tablestorage.StorageType(name), props))
	}
	return descriptors
}

// BuildRegistry creates the storage registry from the configuration
func (c *ClusterConfig) BuildRegistry() (*tablestorage.Registry, error) {
	return tablestorage.NewRegistry(c.Descriptors(), tablestorage.StorageType(c.Storages.DefaultType))
}

// StrategyConfig converts the selector section into a strategy configuration
func (c *ClusterConfig) StrategyConfig() strategy.Config {
	cfg := strategy.Config{
		Type:         strategy.Type(c.Selector.Name),
		FallbackType: tablestorage.StorageType(c.Selector.FallbackType),
	}
	for _, r := range c.Selector.Rules {
		cfg.Rules = append(cfg.Rules, strategy.Rule{
			Namespace: r.Namespace,
			Table:     r.Table,
			Type:      tablestorage.StorageType(r.Type),
		})
	}
	for _, t := range c.Selector.HashTypes {
		cfg.HashTypes = append(cfg.HashTypes, tablestorage.StorageType(t))
	}
	return cfg
}

// BuildStrategy creates the configured strategy over registry
func (c *ClusterConfig) BuildStrategy(registry *tablestorage.Registry) (tablestorage.Strategy, error) {
	return strategy.New(c.StrategyConfig(), registry)
}

// BuildSelector creates the registry, the strategy and the selector in one go
func (c *ClusterConfig) BuildSelector(options ...tablestorage.Option) (*tablestorage.Selector, error) {
	registry, err := c.BuildRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build storage registry: %w", err)
	}

	s, err := c.BuildStrategy(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build selection strategy: %w", err)
	}

	return tablestorage.New(s, options...)
}
