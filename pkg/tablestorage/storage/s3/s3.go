// Package s3 allocates table locations on S3-compatible object stores and
// checks that the configured bucket is reachable.
package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/tendant/table-storage/pkg/tablestorage"
)

// Descriptor parameter keys understood by this package
const (
	ParamRegion          = "region"
	ParamAccessKeyID     = "access_key_id"
	ParamSecretAccessKey = "secret_access_key"
	ParamUsePathStyle    = "use_path_style"
)

// Config options for the S3 locator
type Config struct {
	Bucket          string // S3 bucket name
	Prefix          string // Key prefix under the bucket, no leading or trailing slash
	Region          string // AWS region
	Endpoint        string // Optional custom endpoint for S3-compatible services
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	UsePathStyle    bool   // Use path-style addressing (default: false)
}

// ConfigFromDescriptor reads the rootpath as bucket[/prefix] and the
// remaining settings from descriptor properties
func ConfigFromDescriptor(d tablestorage.Descriptor) (Config, error) {
	if d.Type() != tablestorage.StorageTypeS3 {
		return Config{}, fmt.Errorf("storage type %s is not s3", d.Type())
	}

	root := strings.Trim(strings.TrimPrefix(d.RootPath(), "s3://"), "/")
	bucket, prefix, _ := strings.Cut(root, "/")
	if bucket == "" {
		return Config{}, errors.New("bucket name is required in rootpath")
	}

	cfg := Config{
		Bucket:   bucket,
		Prefix:   strings.Trim(prefix, "/"),
		Endpoint: d.Endpoint(),
	}
	cfg.Region, _ = d.Property(ParamRegion)
	cfg.AccessKeyID, _ = d.Property(ParamAccessKeyID)
	cfg.SecretAccessKey, _ = d.Property(ParamSecretAccessKey)
	if v, ok := d.Property(ParamUsePathStyle); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", ParamUsePathStyle, err)
		}
		cfg.UsePathStyle = b
	}

	return cfg, nil
}

// bucketAPI is the part of the S3 client the locator calls
type bucketAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Locator places tables under bucket/prefix. Its client is only used to
// confirm the bucket is reachable.
type Locator struct {
	client bucketAPI
	config Config
}

// New creates a locator for an s3 descriptor. No request is sent.
func New(d tablestorage.Descriptor) (*Locator, error) {
	cfg, err := ConfigFromDescriptor(d)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a locator from an explicit configuration. Static
// credentials are used when both keys are set, otherwise the default AWS
// credential chain.
func NewWithConfig(config Config) (*Locator, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(config.Region)}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		static := credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, "")
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(static))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for bucket %s: %w", config.Bucket, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
		o.UsePathStyle = config.UsePathStyle
	})

	return &Locator{client: client, config: config}, nil
}

// Check issues a HeadBucket request so readiness reflects whether the bucket
// exists and the credentials can see it
func (l *Locator) Check(ctx context.Context) error {
	_, err := l.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(l.config.Bucket)})
	if err != nil {
		return fmt.Errorf("bucket %s: %w", l.config.Bucket, err)
	}
	return nil
}

// Bucket returns the bucket tables are placed in
func (l *Locator) Bucket() string {
	return l.config.Bucket
}

// ObjectPrefix returns the key prefix of a table, ending in "/"
func (l *Locator) ObjectPrefix(namespace, name string) (string, error) {
	if namespace == "" || name == "" {
		return "", errors.New("namespace and table name are required")
	}
	if strings.Contains(namespace, "/") || strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid table identifier %s.%s", namespace, name)
	}

	parts := []string{namespace, name}
	if l.config.Prefix != "" {
		parts = append([]string{l.config.Prefix}, parts...)
	}
	return strings.Join(parts, "/") + "/", nil
}

// TableLocation returns s3://bucket/prefix/namespace/name
func (l *Locator) TableLocation(namespace, name string) (string, error) {
	key, err := l.ObjectPrefix(namespace, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", l.config.Bucket, strings.TrimSuffix(key, "/")), nil
}
