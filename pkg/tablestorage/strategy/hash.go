package strategy

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/tendant/table-storage/pkg/tablestorage"
)

// HashSpread spreads tables across a fixed list of backends by hashing
// "namespace.name". The same list in the same order always maps a table to
// the same backend, in every process.
type HashSpread struct {
	backends []tablestorage.Descriptor
}

// NewHashSpread resolves types against the registry up front
func NewHashSpread(registry *tablestorage.Registry, types []tablestorage.StorageType) (*HashSpread, error) {
	if registry == nil {
		return nil, errNilRegistry()
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: hash strategy needs at least one storage type", tablestorage.ErrInvalidStrategyConfig)
	}

	backends := make([]tablestorage.Descriptor, 0, len(types))
	seen := make(map[tablestorage.StorageType]bool, len(types))
	for _, typ := range types {
		if seen[typ] {
			return nil, fmt.Errorf("%w: storage type %s listed twice", tablestorage.ErrInvalidStrategyConfig, typ)
		}
		seen[typ] = true

		d, err := registry.Backend(typ)
		if err != nil {
			return nil, err
		}
		backends = append(backends, d)
	}

	return &HashSpread{backends: backends}, nil
}

// SelectStorage hashes the table identifier onto the backend list
func (s *HashSpread) SelectStorage(ctx context.Context, namespace, name string) (tablestorage.Descriptor, error) {
	id := tablestorage.TableIdentifier{Namespace: namespace, Name: name}
	h := xxhash.Sum64String(id.String())
	return s.backends[h%uint64(len(s.backends))], nil
}

// Name returns "hash"
func (s *HashSpread) Name() string {
	return string(TypeHash)
}
