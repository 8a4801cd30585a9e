// Package fs allocates table locations on filesystem-like backends
// (local disk, HDFS, ADLS blobfs).
package fs

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/tendant/table-storage/pkg/tablestorage"
)

// Locator places tables under the descriptor's root path
type Locator struct {
	typ      tablestorage.StorageType
	endpoint string
	rootPath string
}

// New creates a locator for a filesystem-type descriptor
func New(d tablestorage.Descriptor) (*Locator, error) {
	switch d.Type() {
	case tablestorage.StorageTypeLocal, tablestorage.StorageTypeHDFS, tablestorage.StorageTypeBlobFS:
	default:
		return nil, fmt.Errorf("storage type %s is not filesystem based", d.Type())
	}

	rootPath := d.RootPath()
	if rootPath == "" {
		return nil, errors.New("rootpath is required")
	}

	return &Locator{
		typ:      d.Type(),
		endpoint: strings.TrimSuffix(d.Endpoint(), "/"),
		rootPath: "/" + strings.Trim(rootPath, "/"),
	}, nil
}

// TableLocation returns <endpoint><rootpath>/<namespace>/<name>
func (l *Locator) TableLocation(namespace, name string) (string, error) {
	if namespace == "" || name == "" {
		return "", errors.New("namespace and table name are required")
	}
	if strings.Contains(namespace, "/") || strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid table identifier %s.%s", namespace, name)
	}

	p := path.Join(l.rootPath, namespace, name)
	if l.endpoint == "" {
		return p, nil
	}
	return l.endpoint + p, nil
}
