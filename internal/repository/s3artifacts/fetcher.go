// Package s3artifacts seeds the local artifact directory from an S3-compatible bucket.
package s3artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// Config holds bucket coordinates and credentials.
// Empty credentials fall back to the default AWS chain.
type Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// objectGetter is the consumer interface over *s3.Client (ISP).
type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Fetcher downloads artifact objects into a local directory.
type Fetcher struct {
	client objectGetter
	bucket string
	prefix string
	logger *zap.Logger
}

// New builds an S3 client from cfg.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Fetcher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newWithClient(client, cfg.Bucket, cfg.Prefix, logger), nil
}

func newWithClient(client objectGetter, bucket, prefix string, logger *zap.Logger) *Fetcher {
	return &Fetcher{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Fetch downloads every name that is not already in dir.
// Objects absent from the bucket are skipped.
func (f *Fetcher) Fetch(ctx context.Context, dir string, names []string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	for _, name := range names {
		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			continue
		}

		key := path.Join(f.prefix, name)
		ok, err := f.download(ctx, key, dst)
		if err != nil {
			return fmt.Errorf("fetch s3://%s/%s: %w", f.bucket, key, err)
		}
		if !ok {
			f.logger.Debug("Artifact not in bucket", zap.String("bucket", f.bucket), zap.String("key", key))
			continue
		}
		f.logger.Info("Artifact downloaded", zap.String("bucket", f.bucket), zap.String("key", key), zap.String("path", dst))
	}
	return nil
}

func (f *Fetcher) download(ctx context.Context, key, dst string) (bool, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get object: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, out.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return false, fmt.Errorf("read object body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return false, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return false, fmt.Errorf("rename into place: %w", err)
	}
	return true, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
