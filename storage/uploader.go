package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// ArtifactKey places a file under <prefix>/<runID>/<base name>.
func ArtifactKey(prefix, runID, file string) string {
	return path.Join(prefix, runID, filepath.Base(file))
}

// PublishArtifacts uploads every existing file in paths. Missing files are
// skipped. On failure the objects already uploaded by this call are removed.
func PublishArtifacts(ctx context.Context, uploader FileUploader, prefix, runID string, paths []string, logger *slog.Logger) ([]UploadResult, error) {
	results := make([]UploadResult, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		res, err := publishFile(ctx, uploader, ArtifactKey(prefix, runID, p), p)
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("artifact not produced, skipping", slog.String("path", p))
			continue
		}
		if err != nil {
			rollback(ctx, uploader, results, logger)
			return nil, err
		}
		logger.Info("artifact published", slog.String("key", res.Key), slog.String("location", res.Location))
		results = append(results, *res)
	}
	return results, nil
}

func publishFile(ctx context.Context, uploader FileUploader, key, p string) (*UploadResult, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := uploader.Upload(ctx, key, ContentType(p), f)
	if err != nil {
		return nil, fmt.Errorf("failed to publish %s: %w", p, err)
	}
	return res, nil
}

var artifactTypes = map[string]string{
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".png":  "image/png",
}

// ContentType picks the upload content type from the file extension.
func ContentType(p string) string {
	ext := strings.ToLower(filepath.Ext(p))
	if t, ok := artifactTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func rollback(ctx context.Context, uploader FileUploader, uploaded []UploadResult, logger *slog.Logger) {
	for _, r := range uploaded {
		if err := uploader.Delete(ctx, r.Key); err != nil {
			logger.Warn("failed to remove partially published artifact",
				slog.String("key", r.Key),
				slog.Any("error", err),
			)
		}
	}
}
