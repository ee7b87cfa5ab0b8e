// Package objectstore keeps uploaded file bodies in an S3-compatible bucket.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"docspace/application/ports"
	pkgerrors "docspace/pkg/errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Config describes the bucket connection.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Store implements ports.ObjectStore with minio-go.
type Store struct {
	client   *minio.Client
	bucket   string
	region   string
	logger   *zap.Logger
	initOnce sync.Once
	initErr  error
}

// NewStore validates cfg and creates the client. No request is made until
// the first operation.
func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, pkgerrors.NewValidationError("storage endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, pkgerrors.NewValidationError("storage access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, pkgerrors.NewValidationError("storage bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, pkgerrors.NewStorageError("init client", err)
	}

	return &Store{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	if s.initErr != nil {
		return pkgerrors.NewStorageError("ensure bucket", s.initErr)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return pkgerrors.NewStorageError("put object", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return pkgerrors.NewStorageError("remove object", err)
	}
	return nil
}

// RemovePrefix deletes every object under prefix.
func (s *Store) RemovePrefix(ctx context.Context, prefix string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	prefix = strings.TrimSuffix(prefix, "/") + "/"

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	var failed int
	for result := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		failed++
		s.logger.Warn("Failed to remove object",
			zap.String("key", result.ObjectName),
			zap.Error(result.Err),
		)
	}
	if failed > 0 {
		return pkgerrors.NewStorageError("remove prefix", fmt.Errorf("%d objects under %s not removed", failed, prefix))
	}
	return nil
}

// PresignGet returns a time-limited download URL. Signing is local; the key
// is not checked for existence.
func (s *Store) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", pkgerrors.NewStorageError("presign object", err)
	}
	return u.String(), nil
}

// Ping checks that the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return pkgerrors.NewStorageError("ping", err)
	}
	return nil
}

var (
	_ ports.ObjectStore   = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)
