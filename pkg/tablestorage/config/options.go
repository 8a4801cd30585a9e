package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithFile replaces the configuration with the one read from a YAML file.
// Environment variables declared on the config fields are applied on top.
func WithFile(path string) Option {
	return func(c *ClusterConfig) error {
		if path == "" {
			return fmt.Errorf("config file path cannot be empty")
		}
		var f File
		if err := cleanenv.ReadConfig(path, &f); err != nil {
			return fmt.Errorf("failed to read cluster config %s: %w", path, err)
		}
		*c = f.Cluster
		return nil
	}
}

// WithEnv applies environment variable overrides.
//
//	CLUSTER_NAME                            - cluster name
//	CLUSTER_STORAGE_DEFAULT_TYPE            - default storage type
//	CLUSTER_STORAGE_SELECTOR_NAME           - default, namespace or hash
//	CLUSTER_STORAGE_SELECTOR_FALLBACK_TYPE  - fallback for the namespace selector
//	CLUSTER_STORAGE_SELECTOR_HASH_TYPES     - comma separated types for the hash selector
//
// Storage types themselves are only configurable through a file or options.
func WithEnv() Option {
	return func(c *ClusterConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read cluster config from environment: %w", err)
		}
		return nil
	}
}

// WithName sets the cluster name
func WithName(name string) Option {
	return func(c *ClusterConfig) error {
		if name == "" {
			return fmt.Errorf("cluster name cannot be empty")
		}
		c.Name = name
		return nil
	}
}

// WithStorage adds or replaces a storage type
func WithStorage(storageType, rootPath, endpoint string, parameters map[string]string) Option {
	return func(c *ClusterConfig) error {
		if storageType == "" {
			return fmt.Errorf("storage type cannot be empty")
		}
		if c.Storages.Types == nil {
			c.Storages.Types = map[string]StorageTypeConfig{}
		}
		c.Storages.Types[storageType] = StorageTypeConfig{
			RootPath:   rootPath,
			Endpoint:   endpoint,
			Parameters: parameters,
		}
		return nil
	}
}

// WithoutStorage removes a storage type, e.g. the built-in local default
func WithoutStorage(storageType string) Option {
	return func(c *ClusterConfig) error {
		delete(c.Storages.Types, storageType)
		return nil
	}
}

// WithDefaultType sets the default storage type
func WithDefaultType(storageType string) Option {
	return func(c *ClusterConfig) error {
		if storageType == "" {
			return fmt.Errorf("default storage type cannot be empty")
		}
		c.Storages.DefaultType = storageType
		return nil
	}
}

// WithSelector sets the selection strategy name
func WithSelector(name string) Option {
	return func(c *ClusterConfig) error {
		if name == "" {
			return fmt.Errorf("selector name cannot be empty")
		}
		c.Selector.Name = name
		return nil
	}
}

// WithRule appends a namespace routing rule
func WithRule(namespace, table, storageType string) Option {
	return func(c *ClusterConfig) error {
		if namespace == "" {
			return fmt.Errorf("rule namespace pattern cannot be empty")
		}
		c.Selector.Rules = append(c.Selector.Rules, RuleConfig{
			Namespace: namespace,
			Table:     table,
			Type:      storageType,
		})
		return nil
	}
}

// WithFallbackType sets the namespace selector fallback
func WithFallbackType(storageType string) Option {
	return func(c *ClusterConfig) error {
		c.Selector.FallbackType = storageType
		return nil
	}
}

// WithHashTypes sets the backends the hash selector spreads over
func WithHashTypes(storageTypes ...string) Option {
	return func(c *ClusterConfig) error {
		c.Selector.HashTypes = append([]string(nil), storageTypes...)
		return nil
	}
}
