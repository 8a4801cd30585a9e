// Package storage turns a selected descriptor into a Locator for its backend
// type. Implementations live in the fs and s3 subpackages.
package storage

import (
	"errors"
	"fmt"

	"github.com/tendant/table-storage/pkg/tablestorage"
	"github.com/tendant/table-storage/pkg/tablestorage/storage/fs"
	"github.com/tendant/table-storage/pkg/tablestorage/storage/s3"
)

// NewLocator creates the locator matching the descriptor type
func NewLocator(d tablestorage.Descriptor) (tablestorage.Locator, error) {
	switch d.Type() {
	case tablestorage.StorageTypeLocal, tablestorage.StorageTypeHDFS, tablestorage.StorageTypeBlobFS:
		l, err := fs.New(d)
		if err != nil {
			return nil, err
		}
		return l, nil
	case tablestorage.StorageTypeS3:
		l, err := s3.New(d)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("%w: no locator for storage type %s", tablestorage.ErrUnknownBackendType, d.Type())
	}
}

// NewLocators builds a locator for every registered type that has one.
// Types without a locator implementation are skipped.
func NewLocators(registry *tablestorage.Registry) (map[tablestorage.StorageType]tablestorage.Locator, error) {
	locators := make(map[tablestorage.StorageType]tablestorage.Locator)
	for _, typ := range registry.Types() {
		d, err := registry.Backend(typ)
		if err != nil {
			return nil, err
		}
		l, err := NewLocator(d)
		if errors.Is(err, tablestorage.ErrUnknownBackendType) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("storage type %s: %w", typ, err)
		}
		locators[typ] = l
	}
	return locators, nil
}
