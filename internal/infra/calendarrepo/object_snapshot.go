package calendarrepo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectSnapshotSource locates a calendar snapshot in S3 compatible storage.
type ObjectSnapshotSource struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	Region    string
	UseSSL    bool
}

// LoadObjectSnapshot downloads the snapshot object and loads it into memory.
func LoadObjectSnapshot(ctx context.Context, src ObjectSnapshotSource, logger *slog.Logger) (*MemoryRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	endpoint := sanitizeEndpoint(src.Endpoint)
	useSSL := src.UseSSL || strings.HasPrefix(strings.ToLower(src.Endpoint), "https")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(src.AccessKey, src.SecretKey, ""),
		Secure:       useSSL,
		Region:       src.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	obj, err := client.GetObject(ctx, src.Bucket, src.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get calendar snapshot: %w", err)
	}
	defer obj.Close()
	info, err := obj.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat calendar snapshot: %w", err)
	}
	records, err := DecodeSnapshot(obj)
	if err != nil {
		return nil, err
	}
	repo := NewMemoryRepository(records...)
	logger.With("component", "calendarrepo.object").Info("calendar snapshot loaded",
		"bucket", src.Bucket, "key", src.Key, "etag", info.ETag, "records", repo.Len())
	return repo, nil
}

// sanitizeEndpoint strips the scheme and any path; minio.New wants host[:port].
func sanitizeEndpoint(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "https://"), "http://")
	host, _, _ := strings.Cut(clean, "/")
	return host
}
