package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// MinioStore keeps objects in a single bucket of an S3-compatible server.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist yet. Call it once
// before the store serves requests.
func (store *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := store.client.BucketExists(ctx, store.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	err = store.client.MakeBucket(ctx, store.bucket, minio.MakeBucketOptions{})
	if err != nil && !isBucketOwned(err) {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (store *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = store.client.PutObject(ctx, store.bucket, cleaned, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func (store *MinioStore) Open(ctx context.Context, key string) (*Object, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	obj, err := store.client.GetObject(ctx, store.bucket, cleaned, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateMinioError(err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, translateMinioError(err)
	}
	return &Object{
		ReadSeekCloser: obj,
		ContentType:    info.ContentType,
		Size:           info.Size,
		ModTime:        info.LastModified,
	}, nil
}

func (store *MinioStore) Delete(ctx context.Context, key string) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = store.client.RemoveObject(ctx, store.bucket, cleaned, minio.RemoveObjectOptions{})
	if err != nil {
		return translateMinioError(err)
	}
	return nil
}

func isBucketOwned(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists"
}

func translateMinioError(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound {
		return ErrObjectNotFound
	}
	return fmt.Errorf("minio request failed: %w", err)
}
