package tablestorage

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// StorageType identifies a kind of storage backend
type StorageType string

const (
	StorageTypeLocal  StorageType = "local"
	StorageTypeHDFS   StorageType = "hdfs"
	StorageTypeBlobFS StorageType = "blobfs"
	StorageTypeS3     StorageType = "s3"
)

// String returns the tag value
func (t StorageType) String() string {
	return string(t)
}

// Well-known descriptor property keys
const (
	PropertyRootPath = "rootpath"
	PropertyEndpoint = "endpoint"
)

// Descriptor is the immutable description of one configured storage backend.
// The zero value has an empty type and is never returned by a Registry.
type Descriptor struct {
	typ        StorageType
	properties map[string]string
}

// NewDescriptor creates a descriptor. The properties map is copied.
func NewDescriptor(typ StorageType, properties map[string]string) Descriptor {
	props := make(map[string]string, len(properties))
	maps.Copy(props, properties)
	return Descriptor{typ: typ, properties: props}
}

// Type returns the backend type tag
func (d Descriptor) Type() StorageType {
	return d.typ
}

// Property returns a single property value
func (d Descriptor) Property(key string) (string, bool) {
	v, ok := d.properties[key]
	return v, ok
}

// Properties returns a copy of all properties
func (d Descriptor) Properties() map[string]string {
	return maps.Clone(d.properties)
}

// RootPath returns the rootpath property or an empty string
func (d Descriptor) RootPath() string {
	return d.properties[PropertyRootPath]
}

// Endpoint returns the endpoint property or an empty string
func (d Descriptor) Endpoint() string {
	return d.properties[PropertyEndpoint]
}

// IsZero reports whether d is the zero descriptor
func (d Descriptor) IsZero() bool {
	return d.typ == "" && d.properties == nil
}

// TableIdentifier names a table within a namespace (database)
type TableIdentifier struct {
	Namespace string
	Name      string
}

// String returns "namespace.name"
func (t TableIdentifier) String() string {
	return t.Namespace + "." + t.Name
}

// SelectionDecision is the observability record produced for every
// successful selection. It is handed to sinks and never retained.
type SelectionDecision struct {
	ID        uuid.UUID
	Namespace string
	Table     string
	Type      StorageType
	Strategy  string
	At        time.Time
}
