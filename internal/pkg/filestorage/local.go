package filestorage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ymori/careertrack/internal/pkg/logger"
)

// LocalStorage stores objects on the local filesystem under basePath/bucket/.
// Signed URLs are issued against baseURL and verified with an HMAC secret.
type LocalStorage struct {
	basePath string // The root directory where buckets live
	baseURL  string // The base URL the signed download endpoint is served from
	signer   *URLSigner
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(basePath, baseURL, signingSecret string) (*LocalStorage, error) {
	// Ensure the base path exists
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		signer:   NewURLSigner(signingSecret),
	}, nil
}

// objectPath resolves bucket/path inside basePath, rejecting traversal
func (ls *LocalStorage) objectPath(bucket, objPath string) (string, error) {
	full := filepath.Join(ls.basePath, bucket, filepath.FromSlash(objPath))
	root := filepath.Join(ls.basePath, bucket)
	if !strings.HasPrefix(full, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid object path: %s", objPath)
	}
	return full, nil
}

// Upload writes an object under bucket/path
func (ls *LocalStorage) Upload(ctx context.Context, bucket, objPath string, r io.Reader) error {
	full, err := ls.objectPath(bucket, objPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		logger.Error().Err(err).Str("path", full).Msg("Failed to create object directory")
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		logger.Error().Err(err).Str("path", full).Msg("Failed to create destination file")
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, r); err != nil {
		logger.Error().Err(err).Str("path", full).Msg("Failed to write object content")
		// Attempt to remove the partially created file
		_ = os.Remove(full)
		return fmt.Errorf("failed to write object content: %w", err)
	}

	logger.Info().Str("bucket", bucket).Str("path", objPath).Msg("Object stored")
	return nil
}

// Remove deletes the listed objects from a bucket. Missing objects are treated
// as already removed (idempotent).
func (ls *LocalStorage) Remove(ctx context.Context, bucket string, paths []string) error {
	for _, p := range paths {
		full, err := ls.objectPath(bucket, p)
		if err != nil {
			return err
		}

		if err := os.Remove(full); err != nil {
			if os.IsNotExist(err) {
				logger.Warn().Str("path", full).Msg("Object to delete does not exist")
				continue
			}
			logger.Error().Err(err).Str("path", full).Msg("Failed to delete object")
			return fmt.Errorf("failed to delete object: %w", err)
		}
	}
	return nil
}

// CreateSignedURL issues a short-lived download URL for an object
func (ls *LocalStorage) CreateSignedURL(bucket, objPath string, ttl time.Duration) (string, error) {
	return ls.signer.Sign(ls.baseURL, bucket, objPath, time.Now().Add(ttl))
}

// VerifySignedURL checks the signature and expiry of a download request
func (ls *LocalStorage) VerifySignedURL(bucket, objPath, expires, signature string) error {
	return ls.signer.Verify(bucket, objPath, expires, signature)
}

// Open returns a reader for a stored object (used by the download endpoint)
func (ls *LocalStorage) Open(bucket, objPath string) (io.ReadCloser, error) {
	full, err := ls.objectPath(bucket, objPath)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// List returns every object currently stored in a bucket
func (ls *LocalStorage) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	root := filepath.Join(ls.basePath, bucket)

	var objects []ObjectInfo
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil // Empty bucket
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{
			Path:    filepath.ToSlash(rel),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket %s: %w", bucket, err)
	}

	return objects, nil
}
