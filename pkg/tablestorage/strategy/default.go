package strategy

import (
	"context"

	"github.com/tendant/table-storage/pkg/tablestorage"
)

// Default returns the registry's default backend for every table
type Default struct {
	registry *tablestorage.Registry
}

// NewDefault creates the default strategy
func NewDefault(registry *tablestorage.Registry) (*Default, error) {
	if registry == nil {
		return nil, errNilRegistry()
	}
	return &Default{registry: registry}, nil
}

// SelectStorage ignores the table identifier
func (s *Default) SelectStorage(ctx context.Context, namespace, name string) (tablestorage.Descriptor, error) {
	return s.registry.DefaultBackend(), nil
}

// Name returns "default"
func (s *Default) Name() string {
	return string(TypeDefault)
}
