package upload

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/zinc-sig/nbcheck/internal/params"
)

// MinioProvider implements the Provider interface for MinIO/S3 storage
type MinioProvider struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioProvider creates a new MinioProvider
func NewMinioProvider() *MinioProvider {
	return &MinioProvider{}
}

// Name returns the provider name
func (m *MinioProvider) Name() string {
	return "minio"
}

// Configure sets up the MinIO client. Required keys: endpoint, access_key,
// secret_key, bucket. Optional: secure (default true), region (default
// us-east-1), prefix. An http:// or https:// scheme on the endpoint wins over
// secure.
func (m *MinioProvider) Configure(ctx context.Context, settings map[string]any) error {
	endpoint, ok := params.String(settings, "endpoint")
	if !ok {
		return fmt.Errorf("minio: endpoint is required")
	}
	accessKey, ok := params.String(settings, "access_key")
	if !ok {
		return fmt.Errorf("minio: access_key is required")
	}
	secretKey, ok := params.String(settings, "secret_key")
	if !ok {
		return fmt.Errorf("minio: secret_key is required")
	}
	bucket, ok := params.String(settings, "bucket")
	if !ok {
		return fmt.Errorf("minio: bucket is required")
	}

	host, secure, err := splitEndpoint(endpoint, params.Bool(settings, "secure", true))
	if err != nil {
		return err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
		Region: params.StringOr(settings, "region", "us-east-1"),
	})
	if err != nil {
		return fmt.Errorf("minio: failed to create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio: failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio: bucket %s does not exist", bucket)
	}

	m.client = client
	m.bucket = bucket
	m.prefix = params.StringOr(settings, "prefix", "")
	return nil
}

// Upload uploads content from reader to MinIO
func (m *MinioProvider) Upload(ctx context.Context, reader io.Reader, size int64, remotePath string) error {
	if m.client == nil {
		return fmt.Errorf("minio: provider not configured")
	}

	objectName := m.objectName(remotePath)
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("minio: failed to upload to %s: %w", objectName, err)
	}
	return nil
}

// objectName joins the configured prefix with remotePath using forward
// slashes regardless of the host OS.
func (m *MinioProvider) objectName(remotePath string) string {
	if m.prefix == "" {
		return remotePath
	}
	return path.Join(m.prefix, remotePath)
}

func splitEndpoint(endpoint string, secure bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, secure, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("minio: invalid endpoint URL: %s", endpoint)
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("minio: invalid endpoint URL: unsupported scheme %s", u.Scheme)
	}
}
