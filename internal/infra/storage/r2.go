package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/aerosense/internal/domain/report"
)

// Reports are small CSVs; anything below this goes up in one PUT.
const multipartThreshold = 5 << 20

// R2Options locate the bucket. Endpoint may include a scheme and path; only
// the host is used, and an http:// scheme disables TLS (local MinIO).
type R2Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// R2Storage stores report files in Cloudflare R2 through the S3 API.
type R2Storage struct {
	client *minio.Client
	bucket string
	logger *slog.Logger

	// guards bucketReady; a failed check is retried on the next Put
	mu          sync.Mutex
	bucketReady bool
}

func NewR2Storage(opts R2Options, logger *slog.Logger) (*R2Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("r2 bucket is required")
	}
	host, secure, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       secure,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	return &R2Storage{
		client: client,
		bucket: bucket,
		logger: logger.With("component", "storage.r2", "bucket", bucket),
	}, nil
}

// parseEndpoint reduces a configured endpoint to the host minio.New expects.
func parseEndpoint(raw string) (host string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, errors.New("r2 endpoint is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("invalid r2 endpoint %q", raw)
	}
	return u.Host, !strings.EqualFold(u.Scheme, "http"), nil
}

func (s *R2Storage) Put(ctx context.Context, key string, data []byte, mimeType string) (report.StoredObject, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return report.StoredObject{}, fmt.Errorf("prepare bucket: %w", err)
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      mimeType,
		DisableMultipart: len(data) < multipartThreshold,
	})
	if err != nil {
		return report.StoredObject{}, fmt.Errorf("put %s: %w", key, err)
	}
	s.logger.Debug("object stored", "key", key, "size", info.Size)
	return report.StoredObject{Key: key, Size: info.Size, MimeType: mimeType, ETag: info.ETag}, nil
}

// Get stats the object first so a missing key fails here instead of on the first Read.
func (s *R2Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	return obj, nil
}

func (s *R2Storage) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketReady {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
			return err
		}
		s.logger.Info("bucket created")
	}
	s.bucketReady = true
	return nil
}

var _ report.ObjectStorage = (*R2Storage)(nil)
