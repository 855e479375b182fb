package db

import (
	"context"
	"fmt"
	"time"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/docvault/docvault/models"
	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CommonListEntryQueryFilter common query filter when listing data entries
type CommonListEntryQueryFilter struct {
	Limit  *int
	Offset *int
}

// DocumentEventQueryFilter audit event query filter conditions
type DocumentEventQueryFilter struct {
	CommonListEntryQueryFilter
	// EventTypes the specific event types to query for
	EventTypes []models.DocumentEventTypeENUMType
	// EventsAfter filter for events after this timestamp
	EventsAfter *time.Time
	// EventsBefore filter for events before this timestamp
	EventsBefore *time.Time
}

// DocumentQueryFilter document listing filter conditions
//
// Inactive records (replaced or archived) are excluded unless IncludeInactive
// is set.
type DocumentQueryFilter struct {
	CommonListEntryQueryFilter
	// Types restrict to these document types
	Types []models.DocumentTypeENUMType
	// Categories restrict to these document categories
	Categories []models.DocumentCategoryENUMType
	// Statuses restrict to these document statuses
	Statuses []models.DocumentStatusENUMType
	// UploadedByClient filter on client-uploaded vs system-issued documents
	UploadedByClient *bool
	// IncludeInactive also return replaced / archived records
	IncludeInactive bool
	// SortField sort column. One of created_at, updated_at, name, file_size;
	// anything else falls back to created_at.
	SortField string
	// SortAscending sort direction. Defaults to descending.
	SortAscending bool
}

// DocumentDefinition parameters for inserting a new document record
type DocumentDefinition struct {
	// OwnerID the owning client
	OwnerID string `validate:"required"`
	// Name document display name
	Name string `validate:"required"`
	// Type document type
	Type models.DocumentTypeENUMType `validate:"required,doc_type"`
	// Category document category
	Category models.DocumentCategoryENUMType `validate:"required,doc_category"`
	// BlobRef reference of the stored artifact
	BlobRef string `validate:"required"`
	// FileSize stored artifact size in bytes
	FileSize int64 `validate:"gte=0"`
	// MimeType stored artifact MIME type
	MimeType string `validate:"required"`
	// UploadedByClient whether this document came from the owning client
	UploadedByClient bool
	// ExpiryDate optional document expiry timestamp
	ExpiryDate *time.Time
	// Tags optional document tags
	Tags []string
	// Description optional free-text description
	Description string
}

// Database the database handle for interacting with the document record store
type Database interface {
	// ------------------------------------------------------------------------------------
	// Document lifecycle audit events

	/*
		ListDocumentEvents list captured document lifecycle events

			@param ctx context.Context - execution context
			@param filters DocumentEventQueryFilter - entry listing filter
			@return list of document events
	*/
	ListDocumentEvents(
		ctx context.Context, filters DocumentEventQueryFilter,
	) ([]models.DocumentEventAudit, error)

	// ------------------------------------------------------------------------------------
	// Document records

	/*
		DefineNewDocument insert a new document record

		The record starts at version 1, status UPLOADED, active.

			@param ctx context.Context - execution context
			@param params DocumentDefinition - the new document parameters
			@returns document record entry
	*/
	DefineNewDocument(
		ctx context.Context, params DocumentDefinition,
	) (models.DocumentRecord, error)

	/*
		GetDocument fetch a document record scoped by (ID, owner)

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param documentID string - document record ID
			@returns document record entry
	*/
	GetDocument(
		ctx context.Context, ownerID string, documentID string,
	) (models.DocumentRecord, error)

	/*
		ListDocuments list an owner's document records with structured filters

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param filters DocumentQueryFilter - entry listing filter
			@return page of records, and the total match count before pagination
	*/
	ListDocuments(
		ctx context.Context, ownerID string, filters DocumentQueryFilter,
	) ([]models.DocumentRecord, int64, error)

	/*
		SearchDocuments fetch all of an owner's records matching a free-text term

		The term is matched case-insensitively as a substring of the document
		name, description, and tag membership.

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param term string - free-text search term
			@param includeInactive bool - also search replaced / archived records
			@return all matching records
	*/
	SearchDocuments(
		ctx context.Context, ownerID string, term string, includeInactive bool,
	) ([]models.DocumentRecord, error)

	/*
		ReplaceDocument supersede a document record with a new version

		Deactivates the predecessor via a guarded update (active records only)
		and inserts the successor at version predecessor+1. Run this within a
		transaction so both mutations apply as one unit.

			@param ctx context.Context - execution context
			@param predecessor models.DocumentRecord - the record being replaced
			@param params DocumentDefinition - the replacement document parameters
			@returns the successor record entry
	*/
	ReplaceDocument(
		ctx context.Context, predecessor models.DocumentRecord, params DocumentDefinition,
	) (models.DocumentRecord, error)

	/*
		ArchiveDocument soft delete a document record

		Idempotent: archiving an already archived record is a no-op success.

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param documentID string - document record ID
			@returns the archived record entry
	*/
	ArchiveDocument(
		ctx context.Context, ownerID string, documentID string,
	) (models.DocumentRecord, error)

	/*
		SetDocumentStatus transition a document along the review path

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param documentID string - document record ID
			@param newStatus models.DocumentStatusENUMType - the target status
			@returns the updated record entry
	*/
	SetDocumentStatus(
		ctx context.Context,
		ownerID string,
		documentID string,
		newStatus models.DocumentStatusENUMType,
	) (models.DocumentRecord, error)

	/*
		RecordDocumentAccess note a read / download against a document record

		Increments the access count by one and advances the last-accessed
		timestamp. The increment is applied as a SQL expression so concurrent
		reads do not lose updates.

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param documentID string - document record ID
	*/
	RecordDocumentAccess(ctx context.Context, ownerID string, documentID string) error

	// ------------------------------------------------------------------------------------
	// Statistics

	/*
		GetDocumentStatistics compute aggregate statistics over an owner's
		active documents

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@returns the aggregate statistics
	*/
	GetDocumentStatistics(ctx context.Context, ownerID string) (models.DocumentStatistics, error)

	/*
		GetTypeBreakdown count an owner's active documents grouped by the
		document type display label

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@returns mapping from display label to count
	*/
	GetTypeBreakdown(ctx context.Context, ownerID string) (map[string]int64, error)

	/*
		GetCategoryBreakdown count an owner's active documents grouped by the
		document category display label

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@returns mapping from display label to count
	*/
	GetCategoryBreakdown(ctx context.Context, ownerID string) (map[string]int64, error)

	/*
		GetStatusBreakdown count an owner's active documents grouped by the
		document status display label

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@returns mapping from display label to count
	*/
	GetStatusBreakdown(ctx context.Context, ownerID string) (map[string]int64, error)

	/*
		GetDocumentCatalogue list every declared type and category value with
		the owner's current active document count, including zero-count values

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@returns catalogue entries
	*/
	GetDocumentCatalogue(ctx context.Context, ownerID string) (models.DocumentCatalogue, error)

	/*
		ListRecentDocuments list an owner's active documents uploaded within
		the lookback window

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param lookback time.Duration - how far back to look
			@return recently uploaded records
	*/
	ListRecentDocuments(
		ctx context.Context, ownerID string, lookback time.Duration,
	) ([]models.DocumentRecord, error)
}

// databaseImpl implements Database
type databaseImpl struct {
	goutils.Component
	db        *gorm.DB
	validator *validator.Validate
}

// newDatabase define a new database client
func newDatabase(_ context.Context, sqlClient *gorm.DB) (Database, error) {
	logTags := log.Fields{"package": "docvault", "module": "db", "component": "db-client"}

	instance := &databaseImpl{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		db:        sqlClient,
		validator: validator.New(),
	}

	if err := models.RegisterWithValidator(instance.validator); err != nil {
		return nil, fmt.Errorf("failed to install custom validation macros [%w]", err)
	}

	return instance, nil
}

// encodeTags helper converting definition tags into the stored JSON column
func encodeTags(tags []string) (datatypes.JSON, error) {
	encoded, err := models.EncodeTagList(tags)
	if err != nil {
		return nil, fmt.Errorf("unable to encode document tags [%w]", err)
	}
	return encoded, nil
}
