// Package upload stores notebook logs in remote object storage.
package upload

import (
	"context"
	"io"
)

// EnvPrefix selects NBCHECK_UPLOAD_CONFIG (JSON) and NBCHECK_UPLOAD_CONFIG_* variables.
const EnvPrefix = "NBCHECK_UPLOAD_CONFIG"

// Provider defines the interface for file upload providers
type Provider interface {
	// Upload stores size bytes from reader at remotePath
	Upload(ctx context.Context, reader io.Reader, size int64, remotePath string) error

	// Configure sets up the provider with the given settings
	Configure(ctx context.Context, settings map[string]any) error

	// Name returns the provider name
	Name() string
}
