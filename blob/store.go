// Package blob - on-disk artifact storage
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/docvault/docvault/models"
	"github.com/google/uuid"
)

// Config blob store settings
type Config struct {
	// RootDir base directory holding all stored artifacts
	RootDir string `validate:"required"`
}

// SavedBlob result of persisting one artifact
type SavedBlob struct {
	// Ref opaque reference for later retrieval
	Ref string
	// Size number of bytes written
	Size int64
}

/*
Store persists raw file bytes under an owner-scoped path.

Writes are append-only per version: a reference is never reused, so an
in-flight replacement can't tear readers of an older version. Removal of
superseded artifacts is left to out-of-band reclamation.
*/
type Store interface {
	/*
		Save persist an artifact and return a stable reference

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param originalName string - the uploaded file name, used to keep the extension
			@param content io.Reader - the artifact bytes
			@returns reference and size of the stored artifact
	*/
	Save(ctx context.Context, ownerID string, originalName string, content io.Reader) (SavedBlob, error)

	/*
		Open read back a stored artifact

			@param ctx context.Context - execution context
			@param ref string - reference returned by Save
			@returns reader over the artifact bytes. Caller closes.
	*/
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	/*
		Remove delete a stored artifact

			@param ctx context.Context - execution context
			@param ref string - reference returned by Save
	*/
	Remove(ctx context.Context, ref string) error
}

// fsStore implements Store against a local filesystem directory
type fsStore struct {
	goutils.Component
	rootDir string
}

/*
NewFilesystemStore define a filesystem backed blob store

	@param ctx context.Context - execution context
	@param config Config - blob store settings
	@returns store instance
*/
func NewFilesystemStore(_ context.Context, config Config) (Store, error) {
	logTags := log.Fields{"package": "docvault", "module": "blob", "component": "fs-store"}

	if config.RootDir == "" {
		return nil, fmt.Errorf("blob store root directory not set")
	}

	if err := os.MkdirAll(config.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root directory '%s' [%w]", config.RootDir, err)
	}

	log.WithFields(logTags).WithField("root", config.RootDir).Debug("Blob store ready")

	return &fsStore{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		rootDir: config.RootDir,
	}, nil
}

/*
Save persist an artifact and return a stable reference

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param originalName string - the uploaded file name, used to keep the extension
	@param content io.Reader - the artifact bytes
	@returns reference and size of the stored artifact
*/
func (s *fsStore) Save(
	_ context.Context, ownerID string, originalName string, content io.Reader,
) (SavedBlob, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".bin"
	}
	ref := filepath.Join(ownerID, uuid.NewString()+ext)

	ownerDir := filepath.Join(s.rootDir, ownerID)
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return SavedBlob{}, models.NewStorageError(
			err, "failed to create owner directory for %s", ownerID,
		)
	}

	// Stage into a temp file first so a partial write never becomes visible
	// under the final reference.
	tempFile, err := os.CreateTemp(s.rootDir, "upload_*")
	if err != nil {
		return SavedBlob{}, models.NewStorageError(err, "failed to stage artifact upload")
	}
	defer func() {
		_ = tempFile.Close()
		_ = os.Remove(tempFile.Name())
	}()

	size, err := io.Copy(tempFile, content)
	if err != nil {
		return SavedBlob{}, models.NewStorageError(err, "failed to write artifact bytes")
	}
	if err := tempFile.Close(); err != nil {
		return SavedBlob{}, models.NewStorageError(err, "failed to flush artifact bytes")
	}

	if err := moveFile(tempFile.Name(), filepath.Join(s.rootDir, ref)); err != nil {
		return SavedBlob{}, models.NewStorageError(err, "failed to place artifact '%s'", ref)
	}

	return SavedBlob{Ref: ref, Size: size}, nil
}

/*
Open read back a stored artifact

	@param ctx context.Context - execution context
	@param ref string - reference returned by Save
	@returns reader over the artifact bytes. Caller closes.
*/
func (s *fsStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewNotFoundError("artifact '%s' does not exist", ref)
		}
		return nil, models.NewStorageError(err, "failed to open artifact '%s'", ref)
	}
	return file, nil
}

/*
Remove delete a stored artifact

	@param ctx context.Context - execution context
	@param ref string - reference returned by Save
*/
func (s *fsStore) Remove(_ context.Context, ref string) error {
	fullPath, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return models.NewStorageError(err, "failed to remove artifact '%s'", ref)
	}
	return nil
}

// resolve map a reference to an on-disk path, rejecting escapes from the root
func (s *fsStore) resolve(ref string) (string, error) {
	fullPath := filepath.Join(s.rootDir, ref)
	if !strings.HasPrefix(fullPath, filepath.Clean(s.rootDir)+string(os.PathSeparator)) {
		return "", models.NewNotFoundError("artifact '%s' does not exist", ref)
	}
	return fullPath, nil
}

// moveFile rename into place, falling back to copy and delete across
// filesystem boundaries
func moveFile(src string, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	return os.Remove(src)
}
