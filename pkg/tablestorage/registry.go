package tablestorage

import (
	"slices"
)

// Registry holds every configured backend descriptor keyed by type and the
// designated default. It is read-only after NewRegistry returns.
type Registry struct {
	backends    map[StorageType]Descriptor
	defaultType StorageType
}

// NewRegistry builds a registry. It fails with ErrInvalidRegistryConfig when
// no backends are given, a descriptor has an empty type, two descriptors share
// a type, or defaultType is not among the descriptors.
func NewRegistry(backends []Descriptor, defaultType StorageType) (*Registry, error) {
	if len(backends) == 0 {
		return nil, &RegistryError{Reason: "no storage backends configured", Err: ErrInvalidRegistryConfig}
	}

	r := &Registry{
		backends:    make(map[StorageType]Descriptor, len(backends)),
		defaultType: defaultType,
	}
	for _, d := range backends {
		if d.Type() == "" {
			return nil, &RegistryError{Reason: "storage backend type is empty", Err: ErrInvalidRegistryConfig}
		}
		if _, exists := r.backends[d.Type()]; exists {
			return nil, &RegistryError{Type: d.Type(), Reason: "duplicate storage backend type", Err: ErrInvalidRegistryConfig}
		}
		r.backends[d.Type()] = d
	}

	if _, exists := r.backends[defaultType]; !exists {
		return nil, &RegistryError{Type: defaultType, Reason: "default storage type not found in configured backends", Err: ErrInvalidRegistryConfig}
	}

	return r, nil
}

// Backend returns the descriptor registered for typ
func (r *Registry) Backend(typ StorageType) (Descriptor, error) {
	d, exists := r.backends[typ]
	if !exists {
		return Descriptor{}, &RegistryError{Type: typ, Reason: "storage backend not registered", Err: ErrUnknownBackendType}
	}
	return d, nil
}

// DefaultBackend returns the default descriptor
func (r *Registry) DefaultBackend() Descriptor {
	return r.backends[r.defaultType]
}

// DefaultType returns the default backend type
func (r *Registry) DefaultType() StorageType {
	return r.defaultType
}

// Has reports whether typ is registered
func (r *Registry) Has(typ StorageType) bool {
	_, exists := r.backends[typ]
	return exists
}

// Types returns all registered types in sorted order
func (r *Registry) Types() []StorageType {
	types := make([]StorageType, 0, len(r.backends))
	for typ := range r.backends {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}
