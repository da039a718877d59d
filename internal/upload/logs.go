package upload

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// LogPaths are the remote locations of one notebook's captured streams.
type LogPaths struct {
	Stdout string
	Stderr string
}

// RemoteLogPaths names the objects for a notebook's logs under runID.
// Parent-directory segments are dropped so every key stays inside runID/.
func RemoteLogPaths(runID, notebook string) LogPaths {
	rel := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(notebook)), "/")
	base := path.Join(runID, rel)
	return LogPaths{
		Stdout: base + ".stdout.txt",
		Stderr: base + ".stderr.txt",
	}
}

// UploadLogs stores stdout and stderr of a notebook run.
func UploadLogs(ctx context.Context, provider Provider, runID, notebook, stdout, stderr string) (LogPaths, error) {
	paths := RemoteLogPaths(runID, notebook)
	streams := []struct {
		remote  string
		content string
	}{
		{paths.Stdout, stdout},
		{paths.Stderr, stderr},
	}
	for _, s := range streams {
		if err := provider.Upload(ctx, strings.NewReader(s.content), int64(len(s.content)), s.remote); err != nil {
			return LogPaths{}, fmt.Errorf("failed to upload %s: %w", s.remote, err)
		}
	}
	return paths, nil
}
