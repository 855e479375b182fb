// Package docvault - per-client document repository
package docvault

import (
	"context"
	"fmt"

	"github.com/docvault/docvault/blob"
	"github.com/docvault/docvault/db"
	"github.com/docvault/docvault/store"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
NewDocumentRepository initialize a document repository instance.

Each instance is backed by a SQL database for metadata and a blob root
directory for artifact bytes; two instances sharing both see the same
documents.

	@param ctx context.Context - execution context
	@param dbDialector gorm.Dialector - GORM dialector
	@param dbLogLevel logger.LogLevel - SQL log level
	@param blobConfig blob.Config - artifact storage settings
	@param validationConfig store.ValidationConfig - upload validation settings
	@returns new repository instance
*/
func NewDocumentRepository(
	ctx context.Context,
	dbDialector gorm.Dialector,
	dbLogLevel logger.LogLevel,
	blobConfig blob.Config,
	validationConfig store.ValidationConfig,
) (store.DocumentRepository, error) {
	// Prepare persistence
	persistence, err := db.NewConnection(dbDialector, dbLogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialized persistence client [%w]", err)
	}

	// Prepare artifact storage
	blobs, err := blob.NewFilesystemStore(ctx, blobConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialized blob store [%w]", err)
	}

	// Prepare upload validation
	validation, err := store.NewValidationEngine(validationConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialized validation engine [%w]", err)
	}

	repository, err := store.NewDocumentRepository(ctx, persistence, blobs, validation)
	if err != nil {
		return nil, fmt.Errorf("failed to initialized document repository [%w]", err)
	}

	return repository, nil
}
