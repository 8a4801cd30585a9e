package strategy

import (
	"context"
	"fmt"
	"path"

	"github.com/tendant/table-storage/pkg/tablestorage"
)

// Rule routes tables whose namespace and name match the glob patterns to a
// backend type. Patterns use path.Match syntax; an empty Table matches every
// table in a matching namespace.
type Rule struct {
	Namespace string
	Table     string
	Type      tablestorage.StorageType
}

func (r Rule) matches(namespace, name string) bool {
	if ok, _ := path.Match(r.Namespace, namespace); !ok {
		return false
	}
	if r.Table == "" {
		return true
	}
	ok, _ := path.Match(r.Table, name)
	return ok
}

// NamespaceRules picks the backend of the first matching rule, then the
// fallback type when one is configured.
type NamespaceRules struct {
	registry *tablestorage.Registry
	rules    []Rule
	fallback tablestorage.StorageType
}

// NewNamespaceRules validates and copies rules. An empty fallback means tables
// matching no rule fail with ErrNoMatchingBackend.
func NewNamespaceRules(registry *tablestorage.Registry, rules []Rule, fallback tablestorage.StorageType) (*NamespaceRules, error) {
	if registry == nil {
		return nil, errNilRegistry()
	}
	for i, r := range rules {
		if r.Namespace == "" {
			return nil, fmt.Errorf("%w: rule %d has an empty namespace pattern", tablestorage.ErrInvalidStrategyConfig, i)
		}
		if _, err := path.Match(r.Namespace, ""); err != nil {
			return nil, fmt.Errorf("%w: rule %d namespace pattern %q: %v", tablestorage.ErrInvalidStrategyConfig, i, r.Namespace, err)
		}
		if _, err := path.Match(r.Table, ""); err != nil {
			return nil, fmt.Errorf("%w: rule %d table pattern %q: %v", tablestorage.ErrInvalidStrategyConfig, i, r.Table, err)
		}
		if r.Type == "" {
			return nil, fmt.Errorf("%w: rule %d has no storage type", tablestorage.ErrInvalidStrategyConfig, i)
		}
		if _, err := registry.Backend(r.Type); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	if fallback != "" {
		if _, err := registry.Backend(fallback); err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
	}

	return &NamespaceRules{
		registry: registry,
		rules:    append([]Rule(nil), rules...),
		fallback: fallback,
	}, nil
}

// SelectStorage applies the rules in order
func (s *NamespaceRules) SelectStorage(ctx context.Context, namespace, name string) (tablestorage.Descriptor, error) {
	for _, r := range s.rules {
		if r.matches(namespace, name) {
			return s.registry.Backend(r.Type)
		}
	}
	if s.fallback != "" {
		return s.registry.Backend(s.fallback)
	}
	return tablestorage.Descriptor{}, fmt.Errorf("%w for %s.%s", tablestorage.ErrNoMatchingBackend, namespace, name)
}

// Name returns "namespace"
func (s *NamespaceRules) Name() string {
	return string(TypeNamespace)
}
