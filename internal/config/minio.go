package config

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// NewMinIOClient connects to the bucket holding rendered notices, creating
// it when missing. It returns nil without error when MINIO_ENDPOINT is
// unset. Objects stay private; the API serves them behind the acceptance gate.
func NewMinIOClient(ctx context.Context, cfg *Config) (*minio.Client, error) {
	if cfg.MinIOEndpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinIOBucket, err)
	}
	if exists {
		return client, nil
	}

	if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", cfg.MinIOBucket, err)
	}
	logrus.WithField("bucket", cfg.MinIOBucket).Info("Created MinIO bucket")

	return client, nil
}
