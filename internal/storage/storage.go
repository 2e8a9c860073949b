// Package storage wraps the S3-compatible object store that holds the raw
// bytes of uploaded documents. The database only keeps a durable public
// URL; upload and metadata insert are two sequential, non-atomic steps.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/docushield/document-portal/internal/config"
)

// Client is a thin wrapper over the minio SDK scoped to one bucket.
type Client struct {
	mc  *minio.Client
	cfg config.StorageConfig
}

// New connects to the object store and ensures the configured bucket
// exists. Failing here aborts startup: the upload endpoint cannot operate
// without its bucket.
func New(ctx context.Context, cfg config.StorageConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage connect: %w", err)
	}
	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage bucket check: %w", err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage bucket create: %w", err)
		}
	}
	return &Client{mc: mc, cfg: cfg}, nil
}

// Put streams an object into the bucket.
func (c *Client) Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	_, err := c.mc.PutObject(ctx, c.cfg.Bucket, objectName, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// PublicURL returns the durable retrieval URL for an object. When a public
// base URL is configured (CDN or reverse proxy in front of the store) it
// is used; otherwise the URL points at the storage endpoint directly.
func (c *Client) PublicURL(objectName string) string {
	if c.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.cfg.PublicBaseURL, "/"), c.cfg.Bucket, objectName)
	}
	scheme := "http"
	if c.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.cfg.Endpoint, c.cfg.Bucket, objectName)
}

// ObjectName derives a collision-resistant object key from the client's
// file name by prefixing the upload timestamp in milliseconds.
func ObjectName(fileName string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(fileName))
}

// sanitize keeps object keys flat: path separators and whitespace in the
// original file name would otherwise create surprising nested keys.
func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	return r.Replace(name)
}
