package provisioner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/datatide/lakectl/internal/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// DefaultZones are the data-lake stages created when the caller names none.
var DefaultZones = []string{"landing", "raw", "curated", "analytics"}

// Spec is the desired configuration of a data-lake bucket.
type Spec struct {
	Project          string            `json:"project"`
	Environment      string            `json:"environment"`
	Zones            []string          `json:"zones"`
	EnableVersioning bool              `json:"enableVersioning"`
	EnableEncryption bool              `json:"enableEncryption"`
	Tags             map[string]string `json:"tags"`
}

// Result summarizes a successful provision.
type Result struct {
	BucketName        string   `json:"bucketName"`
	Region            string   `json:"region"`
	Zones             []string `json:"zones"`
	VersioningEnabled bool     `json:"versioningEnabled"`
	EncryptionEnabled bool     `json:"encryptionEnabled"`
}

// NamingCollisionError means the generated bucket name is already taken by
// another account. Retrying generates a fresh suffix.
type NamingCollisionError struct {
	Bucket string
}

func (e *NamingCollisionError) Error() string {
	return fmt.Sprintf("bucket name %q already exists globally", e.Bucket)
}

type Provisioner struct {
	s3  *s3.Client
	log *zap.Logger
}

func New(client *s3.Client, log *zap.Logger) *Provisioner {
	return &Provisioner{s3: client, log: log}
}

// CreateDataLake provisions a bucket and applies its configuration in fixed
// order: create, versioning, encryption, public-access block, zone
// placeholders, tags, lifecycle rules. The first failing step aborts the
// rest and surfaces the underlying service error; already-applied steps are
// not rolled back, so a failed run can leave a partially configured bucket
// behind (clean up with DeleteBucket force=true).
func (p *Provisioner) CreateDataLake(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Project == "" {
		return nil, errors.New("project is required")
	}
	if spec.Environment == "" {
		spec.Environment = "dev"
	}
	zones := spec.Zones
	if len(zones) == 0 {
		zones = DefaultZones
	}

	bucket := GenerateBucketName(spec.Project, spec.Environment)
	log := p.log.With(zap.String("bucket", bucket))

	if err := p.s3.CreateBucket(ctx, bucket); err != nil {
		switch {
		case isBucketAlreadyOwned(err):
			log.Warn("bucket already exists and is owned by this account")
		case isBucketAlreadyExists(err):
			return nil, &NamingCollisionError{Bucket: bucket}
		default:
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	} else {
		log.Info("bucket created")
	}

	if spec.EnableVersioning {
		if err := p.s3.EnableVersioning(ctx, bucket); err != nil {
			return nil, fmt.Errorf("enable versioning on %s: %w", bucket, err)
		}
		log.Info("versioning enabled")
	}

	if spec.EnableEncryption {
		if err := p.s3.EnableEncryption(ctx, bucket); err != nil {
			return nil, fmt.Errorf("enable encryption on %s: %w", bucket, err)
		}
		log.Info("default encryption enabled", zap.String("algorithm", "AES256"))
	}

	if err := p.s3.BlockPublicAccess(ctx, bucket); err != nil {
		return nil, fmt.Errorf("block public access on %s: %w", bucket, err)
	}
	log.Info("public access blocked")

	for _, zone := range zones {
		key := zone + "/.keep"
		if err := p.s3.PutObject(ctx, bucket, key, bytes.NewReader(nil), 0, "text/plain"); err != nil {
			return nil, fmt.Errorf("create zone %s/ in %s: %w", zone, bucket, err)
		}
	}
	log.Info("zone placeholders created", zap.Strings("zones", zones))

	tags := map[string]string{
		"Project":     spec.Project,
		"Environment": spec.Environment,
		"ManagedBy":   "lakectl",
		"Purpose":     "data-lake",
	}
	for k, v := range spec.Tags {
		tags[k] = v
	}
	if err := p.s3.ApplyTags(ctx, bucket, tags); err != nil {
		return nil, fmt.Errorf("apply tags on %s: %w", bucket, err)
	}
	log.Info("tags applied", zap.Int("count", len(tags)))

	if err := p.s3.ApplyLifecycle(ctx, bucket, defaultLifecycleRules()); err != nil {
		return nil, fmt.Errorf("apply lifecycle rules on %s: %w", bucket, err)
	}
	log.Info("lifecycle rules applied")

	log.Info("data lake provisioned",
		zap.String("region", p.s3.Region()),
		zap.Bool("versioning", spec.EnableVersioning),
		zap.Bool("encryption", spec.EnableEncryption))

	return &Result{
		BucketName:        bucket,
		Region:            p.s3.Region(),
		Zones:             zones,
		VersioningEnabled: spec.EnableVersioning,
		EncryptionEnabled: spec.EnableEncryption,
	}, nil
}

// UploadObject uploads a local file to the bucket under key.
func (p *Provisioner) UploadObject(ctx context.Context, bucket, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}
	ct := mime.TypeByExtension(filepath.Ext(localPath))
	if ct == "" {
		ct = "application/octet-stream"
	}
	if err := p.s3.PutObject(ctx, bucket, key, f, info.Size(), ct); err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", localPath, bucket, key, err)
	}
	p.log.Info("object uploaded",
		zap.String("bucket", bucket), zap.String("key", key), zap.Int64("bytes", info.Size()))
	return nil
}

// PutObject streams body to the bucket; length may be -1 when unknown.
func (p *Provisioner) PutObject(ctx context.Context, bucket, key string, body io.Reader, length int64, contentType string) error {
	return p.s3.PutObject(ctx, bucket, key, body, length, contentType)
}

// ListObjects lists the bucket filtered by prefix. An empty slice is a valid
// result; errors only mean the listing call itself failed.
func (p *Provisioner) ListObjects(ctx context.Context, bucket, prefix string) ([]s3.Object, error) {
	objs, err := p.s3.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, err)
	}
	return objs, nil
}

// BucketExists reports whether the bucket is reachable by this account.
func (p *Provisioner) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return p.s3.BucketExists(ctx, bucket)
}

// DeleteBucket removes the bucket. With force, all objects are bulk-deleted
// first; without it the service rejects deletion of a non-empty bucket.
func (p *Provisioner) DeleteBucket(ctx context.Context, bucket string, force bool) error {
	if force {
		objs, err := p.s3.ListObjects(ctx, bucket, "")
		if err != nil {
			return fmt.Errorf("list s3://%s: %w", bucket, err)
		}
		if len(objs) > 0 {
			keys := make([]string, 0, len(objs))
			for _, o := range objs {
				keys = append(keys, o.Key)
			}
			if err := p.s3.DeleteObjects(ctx, bucket, keys); err != nil {
				return fmt.Errorf("empty bucket %s: %w", bucket, err)
			}
			p.log.Info("objects deleted", zap.String("bucket", bucket), zap.Int("count", len(keys)))
		}
	}
	if err := p.s3.DeleteBucket(ctx, bucket); err != nil {
		return fmt.Errorf("delete bucket %s: %w", bucket, err)
	}
	p.log.Info("bucket deleted", zap.String("bucket", bucket))
	return nil
}

func defaultLifecycleRules() []types.LifecycleRule {
	return []types.LifecycleRule{
		{
			ID:         aws.String("expire-temp-files"),
			Status:     types.ExpirationStatusEnabled,
			Filter:     &types.LifecycleRuleFilter{Prefix: aws.String("temp/")},
			Expiration: &types.LifecycleExpiration{Days: aws.Int32(7)},
		},
		{
			ID:     aws.String("expire-noncurrent-versions"),
			Status: types.ExpirationStatusEnabled,
			Filter: &types.LifecycleRuleFilter{Prefix: aws.String("")},
			NoncurrentVersionExpiration: &types.NoncurrentVersionExpiration{
				NoncurrentDays: aws.Int32(90),
			},
		},
	}
}

func isBucketAlreadyExists(err error) bool {
	var exists *types.BucketAlreadyExists
	if errors.As(err, &exists) {
		return true
	}
	return hasErrorCode(err, "BucketAlreadyExists")
}

func isBucketAlreadyOwned(err error) bool {
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return true
	}
	return hasErrorCode(err, "BucketAlreadyOwnedByYou")
}

func hasErrorCode(err error, code string) bool {
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == code
}
